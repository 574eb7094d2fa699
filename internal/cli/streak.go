package cli

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/streak"
)

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *Context) error {
	lastCelebrated, err := ctx.Store.GetCelebratedMilestone(ctx.Session.UserID)
	if err != nil {
		return fmt.Errorf("failed to read celebrated milestone: %w", err)
	}

	result, err := streak.NewCalculator(ctx.Store).Compute(ctx.Session.UserID, lastCelebrated)
	if err != nil {
		return fmt.Errorf("failed to compute streak: %w", err)
	}

	switch {
	case result.Count == 0 && result.WithPartner:
		fmt.Println("No streak yet. A week only counts once both of you have reviewed it.")
	case result.Count == 0:
		fmt.Println("No streak yet. Review a week to start one.")
	case result.WithPartner:
		fmt.Printf("%d-week streak, together. 🔥\n", result.Count)
	default:
		fmt.Printf("%d-week streak. 🔥\n", result.Count)
	}

	if result.Milestone != nil {
		fmt.Printf("New milestone reached: %d weeks!\n", *result.Milestone)
	}
	return nil
}
