package system

import (
	"fmt"

	"github.com/tandemhq/tandem/internal/cli"
)

type MigrateCmd struct{}

type migrator interface {
	// Open connects without schema validation so an outdated database can
	// still be migrated.
	Open() error
	ApplyMigrations(report func(string)) (int, error)
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}
	if err := m.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer ctx.Store.Close()

	count, err := m.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}
