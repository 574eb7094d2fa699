package storage

import (
	"errors"
	"time"

	"github.com/tandemhq/tandem/internal/models"
)

// ErrNotFound is returned by write paths that expect an existing record.
// Read paths report absence through their return values instead.
var ErrNotFound = errors.New("record not found")

// KVEdit is an atomic multi-key edit against the key-value store. Sets and
// deletes are applied in one transaction; either all take effect or none do.
type KVEdit struct {
	Set    map[string]string
	Delete []string
}

// Provider is the storage collaborator every component talks to. SQLite backs
// the default local database; PostgreSQL backs a shared household database
// both partners point at.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	UpdateTask(models.Task) error
	UpdateTaskStatus(id string, status models.TaskStatus) error
	GetTasksForWeek(userID, weekID string) ([]models.Task, error)
	GetTasksForWeekByStatus(userID, weekID string, status models.TaskStatus) ([]models.Task, error)
	DeleteTask(id string) error
	RestoreTask(id string) error

	// Weeks and reviews
	GetOrCreateWeek(userID, weekID string) (models.Week, error)
	GetWeek(userID, weekID string) (models.Week, bool, error)
	MarkPlanningCompleted(userID, weekID string, at time.Time) error
	// GetWeeksForUser returns the user's weeks ordered by descending week
	// identifier (most recent first).
	GetWeeksForUser(userID string) ([]models.Week, error)
	SaveReview(models.WeekReview) error
	GetReview(userID, weekID string) (models.WeekReview, bool, error)
	// GetReviewsForUser returns the user's reviews ordered by descending
	// week identifier.
	GetReviewsForUser(userID string) ([]models.WeekReview, error)

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, bool, error)
	GetGoalsForUser(userID string) ([]models.Goal, error)

	// Partner relationship
	GetPartner(userID string) (string, error) // empty string when unpartnered
	SetPartner(userID, partnerID string) error
	UnsetPartner(userID string) error

	// Flat key-value storage (wizard progress snapshots)
	KVGet(key string) (string, bool, error)
	KVSet(key, value string) error
	KVDelete(key string) error
	KVGetPrefix(prefix string) (map[string]string, error)
	KVApply(edit KVEdit) error

	// Per-user settings
	GetUserSetting(userID, key string) (string, bool, error)
	SetUserSetting(userID, key, value string) error

	// Per-user milestone watermark
	GetCelebratedMilestone(userID string) (int, error)
	SetCelebratedMilestone(userID string, milestone int) error
}
