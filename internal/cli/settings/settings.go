package settings

import (
	"fmt"
	"strconv"

	"github.com/tandemhq/tandem/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Name                 *string `help:"Display name shown to your partner."`
	NotificationsEnabled *bool   `help:"Enable or disable milestone notifications."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	userID := ctx.Session.UserID

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Display Name:          %s\n", cli.DisplayName(ctx.Store, userID))

		enabled := "true"
		if v, found, err := ctx.Store.GetUserSetting(userID, "notifications_enabled"); err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		} else if found {
			enabled = v
		}
		fmt.Printf("  Notifications Enabled: %s\n", enabled)
		return nil
	}

	updated := false
	if c.Name != nil {
		if err := cli.SetDisplayName(ctx.Store, userID, *c.Name); err != nil {
			return fmt.Errorf("failed to save display name: %w", err)
		}
		updated = true
	}
	if c.NotificationsEnabled != nil {
		if err := ctx.Store.SetUserSetting(userID, "notifications_enabled",
			strconv.FormatBool(*c.NotificationsEnabled)); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		updated = true
	}

	if updated {
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
