// Package cli holds the shared command context and the helpers every
// subcommand leans on.
package cli

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/storage"
)

// userIDSettingKey is where the local user's identity lives in the key-value
// store. It is created once by 'tandem init' and never changes.
const userIDSettingKey = "identity/user_id"

const displayNameSettingKey = "display_name"

type Context struct {
	Store   storage.Provider
	Session models.Session
}

// LoadSession resolves the local user's identity and partner link. Returns an
// error when the store has no identity yet, which means init never ran.
func LoadSession(store storage.Provider) (models.Session, error) {
	userID, found, err := store.KVGet(userIDSettingKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read identity: %w", err)
	}
	if !found || userID == "" {
		return models.Session{}, fmt.Errorf("no user identity found, run 'tandem init' first")
	}

	partnerID, err := store.GetPartner(userID)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to look up partner: %w", err)
	}
	return models.Session{UserID: userID, PartnerID: partnerID}, nil
}

// EnsureIdentity creates the local user identity if absent and returns it.
func EnsureIdentity(store storage.Provider) (string, error) {
	userID, found, err := store.KVGet(userIDSettingKey)
	if err != nil {
		return "", fmt.Errorf("failed to read identity: %w", err)
	}
	if found && userID != "" {
		return userID, nil
	}
	userID = uuid.New().String()
	if err := store.KVSet(userIDSettingKey, userID); err != nil {
		return "", fmt.Errorf("failed to store identity: %w", err)
	}
	return userID, nil
}

// DisplayName returns the user's configured display name, or a shortened id
// when none is set.
func DisplayName(store storage.Provider, userID string) string {
	if name, found, err := store.GetUserSetting(userID, displayNameSettingKey); err == nil && found && name != "" {
		return name
	}
	if len(userID) > 8 {
		return userID[:8]
	}
	return userID
}

// SetDisplayName stores the user's display name.
func SetDisplayName(store storage.Provider, userID, name string) error {
	return store.SetUserSetting(userID, displayNameSettingKey, name)
}
