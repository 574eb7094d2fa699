package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/models"
)

func (s *Store) AddGoal(g models.Goal) error {
	_, err := s.db.Exec(
		`INSERT INTO goals (id, title, owner_id, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Title, g.OwnerID, g.CreatedAt.Format(constants.TimestampFormat),
	)
	return err
}

func (s *Store) GetGoal(id string) (models.Goal, bool, error) {
	row := s.db.QueryRow(`SELECT id, title, owner_id, created_at FROM goals WHERE id = ?`, id)
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
	rows, err := s.db.Query(`SELECT id, title, owner_id, created_at FROM goals WHERE owner_id = ? ORDER BY created_at`, userID)
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
