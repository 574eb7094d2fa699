package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tandemhq/tandem/internal/cli"
	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/week"
)

type TaskAddCmd struct {
	Title string `arg:"" help:"Task title."`
	Notes string `short:"n" help:"Free-form notes."`
	Week  string `short:"w" help:"Week identifier (YYYY-Www). Defaults to the current week."`
	Goal  string `short:"g" help:"Goal id to associate the task with."`
	// A task added for the partner is a request: it sits in their week as
	// pending acceptance until they accept or decline it.
	ForPartner bool `help:"Request this task of your partner instead of yourself."`
	Shared     bool `help:"Mark the task as shared between both partners."`
}

func (c *TaskAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return models.ErrBlankTitle
	}
	if c.Week != "" && !week.Valid(c.Week) {
		return fmt.Errorf("invalid week identifier %q (expected YYYY-Www)", c.Week)
	}
	if c.ForPartner && c.Shared {
		return fmt.Errorf("--for-partner and --shared are mutually exclusive")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	weekID := c.Week
	if weekID == "" {
		weekID = week.Current()
	}

	ownerID := ctx.Session.UserID
	ownerKind := models.OwnerSelf
	status := models.StatusPending
	if c.ForPartner {
		if !ctx.Session.Partnered() {
			return fmt.Errorf("no partner linked, run 'tandem partner link' first")
		}
		ownerID = ctx.Session.PartnerID
		ownerKind = models.OwnerPartner
		status = models.StatusPendingAcceptance
	} else if c.Shared {
		ownerKind = models.OwnerShared
	}

	if _, err := ctx.Store.GetOrCreateWeek(ownerID, weekID); err != nil {
		return fmt.Errorf("failed to prepare week: %w", err)
	}

	if c.Goal != "" {
		if _, found, err := ctx.Store.GetGoal(c.Goal); err != nil {
			return fmt.Errorf("failed to look up goal: %w", err)
		} else if !found {
			return fmt.Errorf("goal %s not found", c.Goal)
		}
	}

	now := time.Now()
	task := models.Task{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(c.Title),
		Notes:     c.Notes,
		OwnerID:   ownerID,
		OwnerKind: ownerKind,
		WeekID:    weekID,
		Status:    status,
		CreatedBy: ctx.Session.UserID,
		GoalID:    c.Goal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.AddTask(task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	if c.ForPartner {
		fmt.Printf("Requested of your partner for %s: %s (%s)\n", weekID, task.Title, task.ID)
		fmt.Println("They will see it during their next planning session.")
	} else {
		fmt.Printf("Added to %s: %s (%s)\n", weekID, task.Title, task.ID)
	}
	return nil
}
