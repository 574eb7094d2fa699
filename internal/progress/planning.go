package progress

import (
	"context"
	"strconv"
	"time"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/logger"
	"github.com/tandemhq/tandem/internal/storage"
)

// KV is the persistence collaborator: flat typed get/set/remove with an
// atomic multi-key edit.
type KV interface {
	KVGetPrefix(prefix string) (map[string]string, error)
	KVApply(edit storage.KVEdit) error
}

// PlanningStep is a stage of the planning wizard.
type PlanningStep string

const (
	StepRollover        PlanningStep = "rollover"
	StepAddTasks        PlanningStep = "add_tasks"
	StepPartnerRequests PlanningStep = "partner_requests"
	StepConfirmation    PlanningStep = "confirmation"
)

// PlanningState is the resumable snapshot of one user's planning wizard.
type PlanningState struct {
	Step             PlanningStep
	WeekID           string
	InProgress       bool
	HandledRollovers map[string]bool
	HandledRequests  map[string]bool
	CarriedCount     int
	AddedCount       int
	AcceptedCount    int
	UpdatedAt        time.Time
}

// DefaultPlanningState is what an absent record reads as: first step, empty
// processed-sets, not in progress.
func DefaultPlanningState(weekID string) PlanningState {
	return PlanningState{
		Step:             StepRollover,
		WeekID:           weekID,
		HandledRollovers: make(map[string]bool),
		HandledRequests:  make(map[string]bool),
	}
}

// PlanningStore persists planning wizard snapshots for one user.
type PlanningStore struct {
	kv     KV
	prefix string
	w      *watcher[PlanningState]
}

func NewPlanningStore(kv KV, userID string) *PlanningStore {
	return &PlanningStore{
		kv:     kv,
		prefix: "progress/planning/" + userID + "/",
		w:      newWatcher[PlanningState](),
	}
}

// Load reads the persisted snapshot. A snapshot is only valid for the week it
// was created under: when the stored week differs from currentWeek the stale
// snapshot is cleared and the default returned.
func (s *PlanningStore) Load(currentWeek string) PlanningState {
	kvs, err := s.kv.KVGetPrefix(s.prefix)
	if err != nil {
		logger.Warn("Failed to read planning progress", "error", err)
		return DefaultPlanningState(currentWeek)
	}
	if len(kvs) == 0 {
		return DefaultPlanningState(currentWeek)
	}

	st, err := s.decode(kvs)
	if err != nil {
		logger.Warn("Discarding undecodable planning progress", "error", err)
		s.Clear()
		return DefaultPlanningState(currentWeek)
	}
	if st.WeekID != currentWeek {
		logger.Info("Discarding stale planning progress",
			"saved_week", st.WeekID, "current_week", currentWeek)
		s.Clear()
		return DefaultPlanningState(currentWeek)
	}
	return st
}

// Save overwrites the whole persisted snapshot; partial-field writes are not
// supported. Persistence failures are logged and swallowed: only
// resumability is at risk, never data committed to the task store.
func (s *PlanningStore) Save(st PlanningState) {
	st.UpdatedAt = time.Now()
	if err := s.kv.KVApply(storage.KVEdit{Set: s.encode(st)}); err != nil {
		logger.Warn("Failed to save planning progress", "error", err)
	}
	s.w.publish(st)
}

// Clear erases every persisted field, returning the store to default-read
// state.
func (s *PlanningStore) Clear() {
	if err := s.kv.KVApply(storage.KVEdit{Delete: s.keys()}); err != nil {
		logger.Warn("Failed to clear planning progress", "error", err)
	}
	s.w.publish(DefaultPlanningState(""))
}

// Watch returns a replay-latest stream of snapshots; the subscription ends
// when ctx is cancelled.
func (s *PlanningStore) Watch(ctx context.Context) <-chan PlanningState {
	return s.w.subscribe(ctx)
}

func (s *PlanningStore) keys() []string {
	fields := []string{"step", "week_id", "in_progress", "handled_rollovers",
		"handled_requests", "carried", "added", "accepted", "updated_at"}
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = s.prefix + f
	}
	return keys
}

func (s *PlanningStore) encode(st PlanningState) map[string]string {
	return map[string]string{
		s.prefix + "step":              string(st.Step),
		s.prefix + "week_id":           st.WeekID,
		s.prefix + "in_progress":       strconv.FormatBool(st.InProgress),
		s.prefix + "handled_rollovers": encodeSet(st.HandledRollovers),
		s.prefix + "handled_requests":  encodeSet(st.HandledRequests),
		s.prefix + "carried":           strconv.Itoa(st.CarriedCount),
		s.prefix + "added":             strconv.Itoa(st.AddedCount),
		s.prefix + "accepted":          strconv.Itoa(st.AcceptedCount),
		s.prefix + "updated_at":        st.UpdatedAt.Format(constants.TimestampFormat),
	}
}

func (s *PlanningStore) decode(kvs map[string]string) (PlanningState, error) {
	st := DefaultPlanningState(kvs[s.prefix+"week_id"])
	if v, ok := kvs[s.prefix+"step"]; ok && v != "" {
		st.Step = PlanningStep(v)
	}
	st.InProgress = kvs[s.prefix+"in_progress"] == "true"

	var err error
	if st.HandledRollovers, err = decodeSet(kvs[s.prefix+"handled_rollovers"]); err != nil {
		return PlanningState{}, err
	}
	if st.HandledRequests, err = decodeSet(kvs[s.prefix+"handled_requests"]); err != nil {
		return PlanningState{}, err
	}
	st.CarriedCount, _ = strconv.Atoi(kvs[s.prefix+"carried"])
	st.AddedCount, _ = strconv.Atoi(kvs[s.prefix+"added"])
	st.AcceptedCount, _ = strconv.Atoi(kvs[s.prefix+"accepted"])
	if t, terr := time.Parse(constants.TimestampFormat, kvs[s.prefix+"updated_at"]); terr == nil {
		st.UpdatedAt = t
	}
	return st, nil
}
