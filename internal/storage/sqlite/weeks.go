package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/models"
)

func (s *Store) GetOrCreateWeek(userID, weekID string) (models.Week, error) {
	w, ok, err := s.GetWeek(userID, weekID)
	if err != nil {
		return models.Week{}, err
	}
	if ok {
		return w, nil
	}

	w = models.Week{UserID: userID, WeekID: weekID, CreatedAt: time.Now()}
	_, err = s.db.Exec(
		`INSERT INTO weeks (user_id, week_id, planning_completed_at, created_at) VALUES (?, ?, NULL, ?)`,
		userID, weekID, w.CreatedAt.Format(constants.TimestampFormat),
	)
	if err != nil {
		return models.Week{}, err
	}
	return w, nil
}

func (s *Store) GetWeek(userID, weekID string) (models.Week, bool, error) {
	row := s.db.QueryRow(
		`SELECT user_id, week_id, planning_completed_at, created_at FROM weeks WHERE user_id = ? AND week_id = ?`,
		userID, weekID,
	)
	w, err := scanWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Week{}, false, nil
	}
	if err != nil {
		return models.Week{}, false, err
	}
	return w, true, nil
}

func scanWeek(row interface{ Scan(...any) error }) (models.Week, error) {
	var w models.Week
	var completedAt sql.NullString
	var createdAt string
	if err := row.Scan(&w.UserID, &w.WeekID, &completedAt, &createdAt); err != nil {
		return models.Week{}, err
	}
	if completedAt.Valid {
		if t, err := time.Parse(constants.TimestampFormat, completedAt.String); err == nil {
			w.PlanningCompletedAt = &t
		}
	}
	w.CreatedAt, _ = time.Parse(constants.TimestampFormat, createdAt)
	return w, nil
}

func (s *Store) MarkPlanningCompleted(userID, weekID string, at time.Time) error {
	res, err := s.db.Exec(
		`UPDATE weeks SET planning_completed_at = ? WHERE user_id = ? AND week_id = ?`,
		at.Format(constants.TimestampFormat), userID, weekID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) GetWeeksForUser(userID string) ([]models.Week, error) {
	// week_id is fixed-width, so descending string order is reverse
	// chronological order.
	rows, err := s.db.Query(
		`SELECT user_id, week_id, planning_completed_at, created_at FROM weeks WHERE user_id = ? ORDER BY week_id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []models.Week
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

func (s *Store) SaveReview(r models.WeekReview) error {
	if err := r.Validate(); err != nil {
		return err
	}
	var rating sql.NullInt64
	if r.Rating != nil {
		rating = sql.NullInt64{Int64: int64(*r.Rating), Valid: true}
	}
	var reviewedAt sql.NullString
	if r.ReviewedAt != nil {
		reviewedAt = sql.NullString{String: r.ReviewedAt.Format(constants.TimestampFormat), Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO week_reviews (user_id, week_id, rating, note, reviewed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_id) DO UPDATE SET rating = excluded.rating,
			note = excluded.note, reviewed_at = excluded.reviewed_at`,
		r.UserID, r.WeekID, rating, r.Note, reviewedAt,
	)
	return err
}

func (s *Store) GetReview(userID, weekID string) (models.WeekReview, bool, error) {
	row := s.db.QueryRow(
		`SELECT user_id, week_id, rating, note, reviewed_at FROM week_reviews WHERE user_id = ? AND week_id = ?`,
		userID, weekID,
	)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WeekReview{}, false, nil
	}
	if err != nil {
		return models.WeekReview{}, false, err
	}
	return r, true, nil
}

func scanReview(row interface{ Scan(...any) error }) (models.WeekReview, error) {
	var r models.WeekReview
	var rating sql.NullInt64
	var reviewedAt sql.NullString
	if err := row.Scan(&r.UserID, &r.WeekID, &rating, &r.Note, &reviewedAt); err != nil {
		return models.WeekReview{}, err
	}
	if rating.Valid {
		v := int(rating.Int64)
		r.Rating = &v
	}
	if reviewedAt.Valid {
		if t, err := time.Parse(constants.TimestampFormat, reviewedAt.String); err == nil {
			r.ReviewedAt = &t
		}
	}
	return r, nil
}

func (s *Store) GetReviewsForUser(userID string) ([]models.WeekReview, error) {
	rows, err := s.db.Query(
		`SELECT user_id, week_id, rating, note, reviewed_at FROM week_reviews WHERE user_id = ? ORDER BY week_id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.WeekReview
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
