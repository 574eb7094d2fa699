package tasks

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/cli"
	"github.com/tandemhq/tandem/internal/models"
)

// TaskDoneCmd marks a task completed outside the review wizard.
type TaskDoneCmd struct {
	ID string `arg:"" help:"Task id."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	return transition(ctx, c.ID, models.StatusCompleted, "Completed")
}

// TaskAcceptCmd accepts a partner request outside the planning wizard.
type TaskAcceptCmd struct {
	ID string `arg:"" help:"Task id."`
}

func (c *TaskAcceptCmd) Run(ctx *cli.Context) error {
	return transition(ctx, c.ID, models.StatusPending, "Accepted")
}

// TaskDeclineCmd declines a partner request.
type TaskDeclineCmd struct {
	ID string `arg:"" help:"Task id."`
}

func (c *TaskDeclineCmd) Run(ctx *cli.Context) error {
	return transition(ctx, c.ID, models.StatusDeclined, "Declined")
}

func transition(ctx *cli.Context, id string, next models.TaskStatus, verb string) error {
	task, err := ctx.Store.GetTask(id)
	if err != nil {
		return fmt.Errorf("failed to look up task: %w", err)
	}
	if !task.Status.CanTransitionTo(next) {
		return fmt.Errorf("task %s is %s and cannot become %s", id, task.Status, next)
	}
	if err := ctx.Store.UpdateTaskStatus(id, next); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	fmt.Printf("%s: %s\n", verb, task.Title)
	return nil
}
