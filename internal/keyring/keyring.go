// Package keyring keeps the shared household database connection string in
// the OS keyring, so it never sits in a config file or the shell history.
// When --config is left at its default, the CLI reads the stored string back
// to decide between the local SQLite file and the shared PostgreSQL database.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/tandemhq/tandem/internal/constants"
)

var (
	// ErrNoCredentials means no connection string has been stored yet.
	ErrNoCredentials = errors.New("no database connection string stored in the OS keyring")
	// ErrUnavailable means the OS keyring backend could not be reached.
	ErrUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString reads the stored shared-database connection string.
func GetConnectionString() (string, error) {
	connStr, err := gokeyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNoCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the shared-database connection string, replacing
// any previously stored one.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := gokeyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("storing connection string in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the stored connection string. The CLI falls
// back to the local SQLite database afterwards.
func DeleteConnectionString() error {
	err := gokeyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNoCredentials
	}
	if err != nil {
		return fmt.Errorf("deleting connection string from keyring: %w", err)
	}
	return nil
}

// IsAvailable probes the keyring backend with a read. A missing entry still
// means the backend answered, so it counts as available.
func IsAvailable() bool {
	_, err := gokeyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, gokeyring.ErrNotFound)
}
