package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tandemhq/tandem/internal/progress"
	"github.com/tandemhq/tandem/internal/tui"
	"github.com/tandemhq/tandem/internal/week"
	"github.com/tandemhq/tandem/internal/wizard"
)

type ReviewCmd struct {
	Week string `short:"w" help:"Week identifier (YYYY-Www). Defaults to the current week."`
}

func (c *ReviewCmd) Validate() error {
	if c.Week != "" && !week.Valid(c.Week) {
		return fmt.Errorf("invalid week identifier %q (expected YYYY-Www)", c.Week)
	}
	return nil
}

func (c *ReviewCmd) Run(ctx *Context) error {
	weekID := c.Week
	if weekID == "" {
		weekID = week.Current()
	}

	prog := progress.NewReviewStore(ctx.Store, ctx.Session.UserID)
	wiz, err := wizard.NewReview(ctx.Store, prog, ctx.Session, weekID)
	if err != nil {
		return err
	}

	model := tui.NewReviewModel(wiz)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("review wizard failed: %w", err)
	}
	return model.Err()
}
