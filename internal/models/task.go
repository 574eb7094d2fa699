package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OwnerKind says whose list a task lives on.
type OwnerKind string

const (
	OwnerSelf    OwnerKind = "self"
	OwnerPartner OwnerKind = "partner"
	OwnerShared  OwnerKind = "shared"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	// StatusPendingAcceptance marks a task proposed by a partner. It must be
	// accepted (-> pending) or declined before it can progress; it is never
	// directly completable.
	StatusPendingAcceptance TaskStatus = "pending_acceptance"
	StatusCompleted         TaskStatus = "completed"
	StatusTried             TaskStatus = "tried"
	StatusSkipped           TaskStatus = "skipped"
	StatusDeclined          TaskStatus = "declined"
)

// ErrBlankTitle is returned when a task title is empty or whitespace-only.
var ErrBlankTitle = errors.New("task title cannot be blank")

// ValidStatus reports whether s is a known task status.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusPendingAcceptance, StatusCompleted,
		StatusTried, StatusSkipped, StatusDeclined:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is allowed. A task awaiting
// acceptance can only be accepted or declined; outcome statuses are assigned
// from pending during review.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !ValidStatus(next) || s == next {
		return false
	}
	switch s {
	case StatusPendingAcceptance:
		return next == StatusPending || next == StatusDeclined
	case StatusPending:
		return next == StatusCompleted || next == StatusTried || next == StatusSkipped
	case StatusTried, StatusSkipped:
		// Review outcomes may be corrected until the week is closed out.
		return next == StatusCompleted || next == StatusTried || next == StatusSkipped
	default:
		return false
	}
}

// IsOutcome reports whether s is one of the per-task review outcomes.
func (s TaskStatus) IsOutcome() bool {
	return s == StatusCompleted || s == StatusTried || s == StatusSkipped
}

type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title" validate:"required"`
	Notes          string     `json:"notes,omitempty"`
	OwnerID        string     `json:"owner_id"`
	OwnerKind      OwnerKind  `json:"owner_kind"`
	WeekID         string     `json:"week_id"`
	Status         TaskStatus `json:"status"`
	CreatedBy      string     `json:"created_by"`
	GoalID         string     `json:"goal_id,omitempty"`
	RolledFromWeek string     `json:"rolled_from_week,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *string    `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// Validate checks the invariants a task must satisfy before it is persisted.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrBlankTitle
	}
	if !ValidStatus(t.Status) {
		return fmt.Errorf("invalid task status: %q", t.Status)
	}
	switch t.OwnerKind {
	case OwnerSelf, OwnerPartner, OwnerShared:
	default:
		return fmt.Errorf("invalid owner kind: %q", t.OwnerKind)
	}
	if t.WeekID == "" {
		return errors.New("task must belong to a week")
	}
	return nil
}

// IsIncomplete reports whether the task is a rollover candidate at week end.
func (t Task) IsIncomplete() bool {
	return t.Status == StatusPending || t.Status == StatusPendingAcceptance
}
