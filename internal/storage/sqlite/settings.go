package sqlite

import (
	"database/sql"
	"errors"
	"strconv"
)

const celebratedMilestoneKey = "celebrated_milestone"

// GetUserSetting reads a per-user setting; the bool reports presence.
func (s *Store) GetUserSetting(userID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM user_settings WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) SetUserSetting(userID, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO user_settings (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, value,
	)
	return err
}

// GetCelebratedMilestone returns the user's last celebrated streak milestone,
// 0 when none has been celebrated yet.
func (s *Store) GetCelebratedMilestone(userID string) (int, error) {
	value, found, err := s.GetUserSetting(userID, celebratedMilestoneKey)
	if err != nil || !found {
		return 0, err
	}
	return strconv.Atoi(value)
}

func (s *Store) SetCelebratedMilestone(userID string, milestone int) error {
	return s.SetUserSetting(userID, celebratedMilestoneKey, strconv.Itoa(milestone))
}
