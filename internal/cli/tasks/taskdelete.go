package tasks

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/cli"
)

// TaskDeleteCmd soft-deletes a task; restore brings it back.
type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task id."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to look up task: %w", err)
	}
	if err := ctx.Store.DeleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Printf("Deleted: %s\n", task.Title)
	fmt.Printf("Restore with: tandem restore task %s\n", c.ID)
	return nil
}

type TaskRestoreCmd struct {
	ID string `arg:"" help:"Task id."`
}

func (c *TaskRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.RestoreTask(c.ID); err != nil {
		return fmt.Errorf("failed to restore task: %w", err)
	}
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to look up task: %w", err)
	}
	fmt.Printf("Restored: %s\n", task.Title)
	return nil
}
