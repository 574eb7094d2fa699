package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tandemhq/tandem/internal/progress"
	"github.com/tandemhq/tandem/internal/tui"
	"github.com/tandemhq/tandem/internal/week"
	"github.com/tandemhq/tandem/internal/wizard"
)

type PlanCmd struct {
	Week string `short:"w" help:"Week identifier (YYYY-Www). Defaults to the current week."`
}

func (c *PlanCmd) Validate() error {
	if c.Week != "" && !week.Valid(c.Week) {
		return fmt.Errorf("invalid week identifier %q (expected YYYY-Www)", c.Week)
	}
	return nil
}

func (c *PlanCmd) Run(ctx *Context) error {
	weekID := c.Week
	if weekID == "" {
		weekID = week.Current()
	}

	prog := progress.NewPlanningStore(ctx.Store, ctx.Session.UserID)
	wiz, err := wizard.NewPlanning(ctx.Store, prog, ctx.Session, weekID)
	if err != nil {
		return err
	}

	model := tui.NewPlanningModel(wiz)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("planning wizard failed: %w", err)
	}
	return model.Err()
}
