package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/storage"
)

const taskColumns = `id, title, notes, owner_id, owner_kind, week_id, status,
	created_by, goal_id, rolled_from_week, created_at, updated_at, deleted_at`

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	var goalID, rolledFrom, deletedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.Title, &t.Notes, &t.OwnerID, &t.OwnerKind, &t.WeekID, &t.Status,
		&t.CreatedBy, &goalID, &rolledFrom, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.GoalID = goalID.String
	t.RolledFromWeek = rolledFrom.String
	if deletedAt.Valid {
		t.DeletedAt = &deletedAt.String
	}
	t.CreatedAt, _ = time.Parse(constants.TimestampFormat, createdAt)
	t.UpdatedAt, _ = time.Parse(constants.TimestampFormat, updatedAt)
	return t, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) AddTask(t models.Task) error {
	_, err := s.db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULL)`,
		t.ID, t.Title, t.Notes, t.OwnerID, t.OwnerKind, t.WeekID, t.Status,
		t.CreatedBy, nullable(t.GoalID), nullable(t.RolledFromWeek),
		t.CreatedAt.Format(constants.TimestampFormat),
		t.UpdatedAt.Format(constants.TimestampFormat),
	)
	return err
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND deleted_at IS NULL`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) UpdateTask(t models.Task) error {
	res, err := s.db.Exec(`
		UPDATE tasks
		SET title = $1, notes = $2, owner_kind = $3, week_id = $4, status = $5,
		    goal_id = $6, rolled_from_week = $7, updated_at = $8
		WHERE id = $9 AND deleted_at IS NULL`,
		t.Title, t.Notes, t.OwnerKind, t.WeekID, t.Status,
		nullable(t.GoalID), nullable(t.RolledFromWeek),
		time.Now().Format(constants.TimestampFormat), t.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) UpdateTaskStatus(id string, status models.TaskStatus) error {
	res, err := s.db.Exec(
		`UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`,
		status, time.Now().Format(constants.TimestampFormat), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) GetTasksForWeek(userID, weekID string) ([]models.Task, error) {
	return s.queryTasks(`
		SELECT `+taskColumns+` FROM tasks
		WHERE owner_id = $1 AND week_id = $2 AND deleted_at IS NULL
		ORDER BY created_at`, userID, weekID)
}

func (s *Store) GetTasksForWeekByStatus(userID, weekID string, status models.TaskStatus) ([]models.Task, error) {
	return s.queryTasks(`
		SELECT `+taskColumns+` FROM tasks
		WHERE owner_id = $1 AND week_id = $2 AND status = $3 AND deleted_at IS NULL
		ORDER BY created_at`, userID, weekID, status)
}

func (s *Store) queryTasks(query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(
		`UPDATE tasks SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		time.Now().Format(constants.TimestampFormat), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) RestoreTask(id string) error {
	res, err := s.db.Exec(`UPDATE tasks SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
