package system

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/cli"
	"github.com/tandemhq/tandem/internal/notifier"
	"github.com/tandemhq/tandem/internal/streak"
)

// NotifyCmd checks for a newly reached streak milestone and celebrates it
// through the tray app. It is scheduled externally (cron or the tray itself)
// and hidden from help output.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	session, err := cli.LoadSession(ctx.Store)
	if err != nil {
		return err
	}

	if enabled, found, err := ctx.Store.GetUserSetting(session.UserID, "notifications_enabled"); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	} else if found && enabled == "false" {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	lastCelebrated, err := ctx.Store.GetCelebratedMilestone(session.UserID)
	if err != nil {
		return fmt.Errorf("failed to read celebrated milestone: %w", err)
	}

	result, err := streak.NewCalculator(ctx.Store).Compute(session.UserID, lastCelebrated)
	if err != nil {
		return fmt.Errorf("failed to compute streak: %w", err)
	}

	if result.Milestone == nil {
		if c.DryRun {
			fmt.Printf("No new milestone (streak %d, last celebrated %d).\n", result.Count, lastCelebrated)
		}
		return nil
	}

	if c.DryRun {
		fmt.Printf("[DryRun] Milestone reached: %d weeks (with partner: %v)\n", *result.Milestone, result.WithPartner)
		return nil
	}

	if err := notifier.New().CelebrateMilestone(*result.Milestone, result.WithPartner); err != nil {
		// The tray may simply not be running; the milestone stays pending
		// and will be celebrated on a later run.
		fmt.Printf("Failed to send notification: %v\n", err)
		return nil
	}

	// Advance the watermark so the same milestone is never celebrated twice.
	if err := ctx.Store.SetCelebratedMilestone(session.UserID, *result.Milestone); err != nil {
		return fmt.Errorf("failed to record celebrated milestone: %w", err)
	}
	return nil
}
