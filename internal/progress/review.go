package progress

import (
	"context"
	"strconv"
	"time"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/logger"
	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/storage"
)

// ReviewStep is a stage of the review wizard.
type ReviewStep string

const (
	StepModeSelect    ReviewStep = "mode_select"
	StepOverallRating ReviewStep = "overall_rating"
	StepTaskOutcomes  ReviewStep = "task_outcomes"
	StepReviewConfirm ReviewStep = "confirmation"
)

// ReviewMode gates whether partner data is merged into the week detail view.
type ReviewMode string

const (
	ModeSolo  ReviewMode = "solo"
	ModeJoint ReviewMode = "joint"
)

// ReviewState is the resumable snapshot of one user's review wizard.
// Outcomes and notes are staged here and only committed to the task store on
// final confirmation; the map keys double as the processed-task set.
type ReviewState struct {
	Step       ReviewStep
	WeekID     string
	InProgress bool
	Mode       ReviewMode
	Rating     int // 0 when unset
	Note       string
	Outcomes   map[string]models.TaskStatus
	Notes      map[string]string
	UpdatedAt  time.Time
}

func DefaultReviewState(weekID string) ReviewState {
	return ReviewState{
		Step:     StepModeSelect,
		WeekID:   weekID,
		Mode:     ModeSolo,
		Outcomes: make(map[string]models.TaskStatus),
		Notes:    make(map[string]string),
	}
}

// ReviewStore persists review wizard snapshots for one user.
type ReviewStore struct {
	kv     KV
	prefix string
	w      *watcher[ReviewState]
}

func NewReviewStore(kv KV, userID string) *ReviewStore {
	return &ReviewStore{
		kv:     kv,
		prefix: "progress/review/" + userID + "/",
		w:      newWatcher[ReviewState](),
	}
}

// Load reads the persisted snapshot, resetting to the default when the
// stored week is stale or the record is undecodable.
func (s *ReviewStore) Load(currentWeek string) ReviewState {
	kvs, err := s.kv.KVGetPrefix(s.prefix)
	if err != nil {
		logger.Warn("Failed to read review progress", "error", err)
		return DefaultReviewState(currentWeek)
	}
	if len(kvs) == 0 {
		return DefaultReviewState(currentWeek)
	}

	st, err := s.decode(kvs)
	if err != nil {
		logger.Warn("Discarding undecodable review progress", "error", err)
		s.Clear()
		return DefaultReviewState(currentWeek)
	}
	if st.WeekID != currentWeek {
		logger.Info("Discarding stale review progress",
			"saved_week", st.WeekID, "current_week", currentWeek)
		s.Clear()
		return DefaultReviewState(currentWeek)
	}
	return st
}

// Save overwrites the whole snapshot atomically; failures are logged, not
// surfaced.
func (s *ReviewStore) Save(st ReviewState) {
	st.UpdatedAt = time.Now()
	if err := s.kv.KVApply(storage.KVEdit{Set: s.encode(st)}); err != nil {
		logger.Warn("Failed to save review progress", "error", err)
	}
	s.w.publish(st)
}

func (s *ReviewStore) Clear() {
	if err := s.kv.KVApply(storage.KVEdit{Delete: s.keys()}); err != nil {
		logger.Warn("Failed to clear review progress", "error", err)
	}
	s.w.publish(DefaultReviewState(""))
}

func (s *ReviewStore) Watch(ctx context.Context) <-chan ReviewState {
	return s.w.subscribe(ctx)
}

func (s *ReviewStore) keys() []string {
	fields := []string{"step", "week_id", "in_progress", "mode", "rating",
		"note", "outcomes", "notes", "updated_at"}
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = s.prefix + f
	}
	return keys
}

func (s *ReviewStore) encode(st ReviewState) map[string]string {
	outcomes := make(map[string]string, len(st.Outcomes))
	for id, status := range st.Outcomes {
		outcomes[id] = string(status)
	}
	return map[string]string{
		s.prefix + "step":        string(st.Step),
		s.prefix + "week_id":     st.WeekID,
		s.prefix + "in_progress": strconv.FormatBool(st.InProgress),
		s.prefix + "mode":        string(st.Mode),
		s.prefix + "rating":      strconv.Itoa(st.Rating),
		s.prefix + "note":        st.Note,
		s.prefix + "outcomes":    encodeMap(outcomes),
		s.prefix + "notes":       encodeMap(st.Notes),
		s.prefix + "updated_at":  st.UpdatedAt.Format(constants.TimestampFormat),
	}
}

func (s *ReviewStore) decode(kvs map[string]string) (ReviewState, error) {
	st := DefaultReviewState(kvs[s.prefix+"week_id"])
	if v, ok := kvs[s.prefix+"step"]; ok && v != "" {
		st.Step = ReviewStep(v)
	}
	st.InProgress = kvs[s.prefix+"in_progress"] == "true"
	if v := kvs[s.prefix+"mode"]; v != "" {
		st.Mode = ReviewMode(v)
	}
	st.Rating, _ = strconv.Atoi(kvs[s.prefix+"rating"])
	st.Note = kvs[s.prefix+"note"]

	outcomes, err := decodeMap(kvs[s.prefix+"outcomes"])
	if err != nil {
		return ReviewState{}, err
	}
	for id, status := range outcomes {
		st.Outcomes[id] = models.TaskStatus(status)
	}
	if st.Notes, err = decodeMap(kvs[s.prefix+"notes"]); err != nil {
		return ReviewState{}, err
	}
	if t, terr := time.Parse(constants.TimestampFormat, kvs[s.prefix+"updated_at"]); terr == nil {
		st.UpdatedAt = t
	}
	return st, nil
}
