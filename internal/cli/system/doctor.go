package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/tandemhq/tandem/internal/cli"
	"github.com/tandemhq/tandem/internal/keyring"
	"github.com/tandemhq/tandem/internal/week"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: DB reachable and schema current
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	// Check 2: User identity present
	if dbReachable {
		if err := checkIdentity(ctx); err != nil {
			fmt.Printf("❌ User identity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ User identity: OK\n")
		}
	} else {
		fmt.Printf("⊘ User identity: SKIPPED (database not reachable)\n")
	}

	// Check 3: Partner link symmetric
	if dbReachable {
		if err := checkPartnerLink(ctx); err != nil {
			fmt.Printf("❌ Partner link: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Partner link: OK\n")
		}
	} else {
		fmt.Printf("⊘ Partner link: SKIPPED (database not reachable)\n")
	}

	// Check 4: Week identifiers well-formed
	if dbReachable {
		if err := checkWeekIdentifiers(ctx); err != nil {
			fmt.Printf("❌ Week identifiers: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Week identifiers: OK\n")
		}
	} else {
		fmt.Printf("⊘ Week identifiers: SKIPPED (database not reachable)\n")
	}

	// Check 5: Keyring availability (warning only; only needed for the
	// shared-household Postgres backend)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   OS keyring unavailable; connection strings cannot be stored securely\n")
	}

	// Check 6: Clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkIdentity(ctx *cli.Context) error {
	_, err := cli.LoadSession(ctx.Store)
	return err
}

// checkPartnerLink verifies the link is recorded in both directions; a
// one-sided link would make partner queries disagree between the two users.
func checkPartnerLink(ctx *cli.Context) error {
	session, err := cli.LoadSession(ctx.Store)
	if err != nil {
		return err
	}
	if session.PartnerID == "" {
		return nil
	}
	reverse, err := ctx.Store.GetPartner(session.PartnerID)
	if err != nil {
		return err
	}
	if reverse != session.UserID {
		return fmt.Errorf("partner %s does not link back to this user", session.PartnerID)
	}
	return nil
}

func checkWeekIdentifiers(ctx *cli.Context) error {
	session, err := cli.LoadSession(ctx.Store)
	if err != nil {
		return err
	}
	weeks, err := ctx.Store.GetWeeksForUser(session.UserID)
	if err != nil {
		return err
	}
	for _, w := range weeks {
		if !week.Valid(w.WeekID) {
			return fmt.Errorf("malformed week identifier %q", w.WeekID)
		}
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system clock reports implausible year %d", now.Year())
	}
	if _, err := time.LoadLocation(now.Location().String()); err != nil {
		return fmt.Errorf("system timezone is invalid: %w", err)
	}
	return nil
}
