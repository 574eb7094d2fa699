package cli

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/storage"
	"github.com/tandemhq/tandem/internal/week"
)

// WeekCmd is the default command: a read-only snapshot of the week for both
// partners.
type WeekCmd struct {
	Week string `arg:"" optional:"" help:"Week identifier (YYYY-Www). Defaults to the current week."`
}

func (c *WeekCmd) Validate() error {
	if c.Week != "" && !week.Valid(c.Week) {
		return fmt.Errorf("invalid week identifier %q (expected YYYY-Www)", c.Week)
	}
	return nil
}

func (c *WeekCmd) Run(ctx *Context) error {
	weekID := c.Week
	if weekID == "" {
		weekID = week.Current()
	}

	fmt.Printf("Week %s\n", weekID)
	fmt.Println()

	if err := printUserWeek(ctx.Store, ctx.Session.UserID, weekID, "You"); err != nil {
		return err
	}
	if ctx.Session.Partnered() {
		fmt.Println()
		name := DisplayName(ctx.Store, ctx.Session.PartnerID)
		if err := printUserWeek(ctx.Store, ctx.Session.PartnerID, weekID, name); err != nil {
			return err
		}
	}
	return nil
}

func printUserWeek(store storage.Provider, userID, weekID, label string) error {
	fmt.Printf("%s:\n", label)

	wk, found, err := store.GetWeek(userID, weekID)
	if err != nil {
		return fmt.Errorf("failed to load week: %w", err)
	}
	switch {
	case !found:
		fmt.Println("  (no plan yet)")
	case wk.PlanningCompletedAt == nil:
		fmt.Println("  planning in progress")
	default:
		fmt.Printf("  planned %s\n", wk.PlanningCompletedAt.Format("Mon Jan 2"))
	}

	tasks, err := store.GetTasksForWeek(userID, weekID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	for _, t := range tasks {
		fmt.Printf("  %s\n", formatTaskLine(t))
	}

	review, found, err := store.GetReview(userID, weekID)
	if err != nil {
		return fmt.Errorf("failed to load review: %w", err)
	}
	if found && review.Reviewed() {
		if review.Rating != nil {
			fmt.Printf("  reviewed · rated %d/5\n", *review.Rating)
		} else {
			fmt.Println("  reviewed")
		}
	}
	return nil
}

func formatTaskLine(t models.Task) string {
	marker := " "
	switch t.Status {
	case models.StatusCompleted:
		marker = "x"
	case models.StatusTried:
		marker = "~"
	case models.StatusSkipped:
		marker = "-"
	case models.StatusDeclined:
		marker = "!"
	case models.StatusPendingAcceptance:
		marker = "?"
	}
	line := fmt.Sprintf("[%s] %s", marker, t.Title)
	if t.RolledFromWeek != "" {
		line += fmt.Sprintf("  (rolled from %s)", t.RolledFromWeek)
	}
	if t.OwnerKind == models.OwnerShared {
		line += "  [shared]"
	}
	return line
}
