// Package goals manages the long-running intentions weekly tasks can point at.
package goals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tandemhq/tandem/internal/cli"
	"github.com/tandemhq/tandem/internal/models"
)

type GoalAddCmd struct {
	Title string `arg:"" help:"Goal title."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("goal title cannot be blank")
	}

	goal := models.Goal{
		ID:        uuid.New().String(),
		Title:     title,
		OwnerID:   ctx.Session.UserID,
		CreatedAt: time.Now(),
	}
	if err := ctx.Store.AddGoal(goal); err != nil {
		return fmt.Errorf("failed to add goal: %w", err)
	}
	fmt.Printf("Added goal: %s (%s)\n", goal.Title, goal.ID)
	fmt.Println("Attach tasks to it with 'tandem task add --goal'.")
	return nil
}

type GoalListCmd struct{}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	goals, err := ctx.Store.GetGoalsForUser(ctx.Session.UserID)
	if err != nil {
		return fmt.Errorf("failed to list goals: %w", err)
	}
	if len(goals) == 0 {
		fmt.Println("No goals yet. Add one with 'tandem goal add'.")
		return nil
	}
	fmt.Println("Goals:")
	for _, g := range goals {
		fmt.Printf("  %s  %s\n", g.ID, g.Title)
	}
	return nil
}
