package tasks

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/cli"
	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/week"
)

type TaskListCmd struct {
	Week    string `short:"w" help:"Week identifier (YYYY-Www). Defaults to the current week."`
	Partner bool   `short:"p" help:"List your partner's tasks instead of your own."`
	Status  string `short:"s" help:"Filter by status (pending|pending_acceptance|completed|tried|skipped|declined)."`
}

func (c *TaskListCmd) Validate() error {
	if c.Week != "" && !week.Valid(c.Week) {
		return fmt.Errorf("invalid week identifier %q (expected YYYY-Www)", c.Week)
	}
	if c.Status != "" && !models.ValidStatus(models.TaskStatus(c.Status)) {
		return fmt.Errorf("unknown status %q", c.Status)
	}
	return nil
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	weekID := c.Week
	if weekID == "" {
		weekID = week.Current()
	}

	ownerID := ctx.Session.UserID
	if c.Partner {
		if !ctx.Session.Partnered() {
			return fmt.Errorf("no partner linked")
		}
		ownerID = ctx.Session.PartnerID
	}

	var tasks []models.Task
	var err error
	if c.Status != "" {
		tasks, err = ctx.Store.GetTasksForWeekByStatus(ownerID, weekID, models.TaskStatus(c.Status))
	} else {
		tasks, err = ctx.Store.GetTasksForWeek(ownerID, weekID)
	}
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Printf("No tasks for %s.\n", weekID)
		return nil
	}

	fmt.Printf("Tasks for %s:\n", weekID)
	for _, t := range tasks {
		PrintTaskLine(t)
	}
	return nil
}

// PrintTaskLine writes the one-line listing shared by the list and week views.
func PrintTaskLine(t models.Task) {
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

	suffix := ""
	if t.RolledFromWeek != "" {
		suffix = fmt.Sprintf("  (rolled from %s)", t.RolledFromWeek)
	}
	if t.OwnerKind == models.OwnerShared {
		suffix += "  [shared]"
	}
	fmt.Printf("  [%s] %s  %s%s\n", marker, shortID(t.ID), t.Title, suffix)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

