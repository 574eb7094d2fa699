package postgres

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/storage"
)

// Goals

func (s *Store) AddGoal(g models.Goal) error {
	_, err := s.db.Exec(
		`INSERT INTO goals (id, title, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		g.ID, g.Title, g.OwnerID, g.CreatedAt.Format(constants.TimestampFormat),
	)
	return err
}

func (s *Store) GetGoal(id string) (models.Goal, bool, error) {
	row := s.db.QueryRow(`SELECT id, title, owner_id, created_at FROM goals WHERE id = $1`, id)
	var g models.Goal
	var createdAt string
	err := row.Scan(&g.ID, &g.Title, &g.OwnerID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, false, nil
	}
	if err != nil {
		return models.Goal{}, false, err
	}
	g.CreatedAt, _ = time.Parse(constants.TimestampFormat, createdAt)
	return g, true, nil
}

func (s *Store) GetGoalsForUser(userID string) ([]models.Goal, error) {
	rows, err := s.db.Query(`SELECT id, title, owner_id, created_at FROM goals WHERE owner_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Title, &g.OwnerID, &createdAt); err != nil {
			return nil, err
		}
		g.CreatedAt, _ = time.Parse(constants.TimestampFormat, createdAt)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Partner relationship

func (s *Store) GetPartner(userID string) (string, error) {
	var partnerID string
	err := s.db.QueryRow(`SELECT partner_id FROM partners WHERE user_id = $1`, userID).Scan(&partnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return partnerID, nil
}

func (s *Store) SetPartner(userID, partnerID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, pair := range [][2]string{{userID, partnerID}, {partnerID, userID}} {
		if _, err := tx.Exec(`
			INSERT INTO partners (user_id, partner_id) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET partner_id = excluded.partner_id`,
			pair[0], pair[1],
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) UnsetPartner(userID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	partnerID, err := s.GetPartner(userID)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM partners WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if partnerID != "" {
		if _, err := tx.Exec(`DELETE FROM partners WHERE user_id = $1`, partnerID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Key-value

func (s *Store) KVGet(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) KVSet(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *Store) KVDelete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = $1`, key)
	return err
}

func (s *Store) KVGetPrefix(prefix string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM kv WHERE key LIKE $1 || '%'`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}

func (s *Store) KVApply(edit storage.KVEdit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range edit.Set {
		if _, err := tx.Exec(`
			INSERT INTO kv (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
			return err
		}
	}
	for _, key := range edit.Delete {
		if _, err := tx.Exec(`DELETE FROM kv WHERE key = $1`, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Per-user settings

const celebratedMilestoneKey = "celebrated_milestone"

func (s *Store) GetUserSetting(userID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM user_settings WHERE user_id = $1 AND key = $2`,
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
		INSERT INTO user_settings (user_id, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, value,
	)
	return err
}

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
