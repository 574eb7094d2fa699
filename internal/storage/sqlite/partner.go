package sqlite

import (
	"database/sql"
	"errors"
)

// GetPartner returns the linked partner's user id, or "" when unpartnered.
func (s *Store) GetPartner(userID string) (string, error) {
	var partnerID string
	err := s.db.QueryRow(`SELECT partner_id FROM partners WHERE user_id = ?`, userID).Scan(&partnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return partnerID, nil
}

// SetPartner links both directions so either user sees the other as partner.
func (s *Store) SetPartner(userID, partnerID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, pair := range [][2]string{{userID, partnerID}, {partnerID, userID}} {
		if _, err := tx.Exec(`
			INSERT INTO partners (user_id, partner_id) VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET partner_id = excluded.partner_id`,
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
	if _, err := tx.Exec(`DELETE FROM partners WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if partnerID != "" {
		if _, err := tx.Exec(`DELETE FROM partners WHERE user_id = ?`, partnerID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
