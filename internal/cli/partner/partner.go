// Package partner manages the link between the two halves of a couple.
package partner

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/cli"
)

// LinkCmd records the partner relationship in both directions.
type LinkCmd struct {
	PartnerID string `arg:"" help:"Your partner's user id (shown by 'tandem partner show' on their machine)."`
}

func (c *LinkCmd) Run(ctx *cli.Context) error {
	if c.PartnerID == ctx.Session.UserID {
		return fmt.Errorf("cannot link to yourself")
	}
	if ctx.Session.Partnered() {
		if ctx.Session.PartnerID == c.PartnerID {
			fmt.Println("Already linked to this partner.")
			return nil
		}
		return fmt.Errorf("already linked to %s, run 'tandem partner unlink' first", ctx.Session.PartnerID)
	}

	if err := ctx.Store.SetPartner(ctx.Session.UserID, c.PartnerID); err != nil {
		return fmt.Errorf("failed to link partner: %w", err)
	}

	fmt.Printf("Linked with %s.\n", cli.DisplayName(ctx.Store, c.PartnerID))
	fmt.Println("Weekly streaks now require both of you to review each week.")
	return nil
}

type UnlinkCmd struct{}

func (c *UnlinkCmd) Run(ctx *cli.Context) error {
	if !ctx.Session.Partnered() {
		fmt.Println("No partner linked.")
		return nil
	}
	if err := ctx.Store.UnsetPartner(ctx.Session.UserID); err != nil {
		return fmt.Errorf("failed to unlink partner: %w", err)
	}
	fmt.Println("Partner unlinked. Your streak is solo from here on.")
	return nil
}

// ShowCmd prints this user's id and the current link state.
type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	fmt.Printf("Your user id: %s\n", ctx.Session.UserID)
	if ctx.Session.Partnered() {
		fmt.Printf("Linked with:  %s (%s)\n",
			cli.DisplayName(ctx.Store, ctx.Session.PartnerID), ctx.Session.PartnerID)
	} else {
		fmt.Println("No partner linked. Share your id and run 'tandem partner link <their-id>'.")
	}
	return nil
}
