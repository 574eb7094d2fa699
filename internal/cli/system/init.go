package system

import (
	"fmt"
	"os"

	"github.com/tandemhq/tandem/internal/cli"
)

type InitCmd struct {
	Force bool   `help:"Force reset by deleting the existing database before initialization."`
	Name  string `help:"Display name to use for this user."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to avoid file locking issues on some platforms.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized tandem storage at: %s\n", ctx.Store.GetConfigPath())

	userID, err := cli.EnsureIdentity(ctx.Store)
	if err != nil {
		return err
	}
	if c.Name != "" {
		if err := cli.SetDisplayName(ctx.Store, userID, c.Name); err != nil {
			return fmt.Errorf("failed to store display name: %w", err)
		}
	}
	fmt.Printf("Your user id: %s\n", userID)
	fmt.Println("Share it with your partner so they can link up with 'tandem partner link'.")

	return nil
}
