package progress

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/storage"
)

// fakeKV is an in-memory KV collaborator with an optional injected failure.
type fakeKV struct {
	mu      sync.Mutex
	data    map[string]string
	failAll bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) KVGetPrefix(prefix string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("injected failure")
	}
	out := make(map[string]string)
	for k, v := range f.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeKV) KVApply(edit storage.KVEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("injected failure")
	}
	for k, v := range edit.Set {
		f.data[k] = v
	}
	for _, k := range edit.Delete {
		delete(f.data, k)
	}
	return nil
}

func TestPlanningStoreRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := NewPlanningStore(kv, "alice")

	st := DefaultPlanningState("2026-W10")
	st.Step = StepPartnerRequests
	st.InProgress = true
	st.HandledRollovers["t1"] = true
	st.HandledRollovers["t:2"] = true
	st.CarriedCount = 2
	st.AddedCount = 1
	store.Save(st)

	got := store.Load("2026-W10")
	if got.Step != StepPartnerRequests || !got.InProgress {
		t.Errorf("Load() = %+v, want step %q in progress", got, StepPartnerRequests)
	}
	if !got.HandledRollovers["t1"] || !got.HandledRollovers["t:2"] {
		t.Errorf("handled rollovers lost: %v", got.HandledRollovers)
	}
	if got.CarriedCount != 2 || got.AddedCount != 1 || got.AcceptedCount != 0 {
		t.Errorf("counters = %d/%d/%d, want 2/1/0", got.CarriedCount, got.AddedCount, got.AcceptedCount)
	}
}

func TestPlanningStoreAbsentReadsDefault(t *testing.T) {
	store := NewPlanningStore(newFakeKV(), "alice")
	got := store.Load("2026-W10")
	if got.Step != StepRollover || got.InProgress || len(got.HandledRollovers) != 0 {
		t.Errorf("default state = %+v", got)
	}
	if got.WeekID != "2026-W10" {
		t.Errorf("default week = %q, want 2026-W10", got.WeekID)
	}
}

func TestPlanningStoreStaleWeekDiscarded(t *testing.T) {
	kv := newFakeKV()
	store := NewPlanningStore(kv, "alice")

	st := DefaultPlanningState("2026-W01")
	st.Step = StepConfirmation
	st.InProgress = true
	store.Save(st)

	// App reopens in a later week: progress must reset, not resume.
	got := store.Load("2026-W02")
	if got.Step != StepRollover || got.InProgress {
		t.Errorf("stale snapshot resumed: %+v", got)
	}
	if len(kv.data) != 0 {
		t.Errorf("stale snapshot not cleared from storage: %v", kv.data)
	}
}

func TestPlanningStoreClear(t *testing.T) {
	kv := newFakeKV()
	store := NewPlanningStore(kv, "alice")
	store.Save(DefaultPlanningState("2026-W10"))
	if len(kv.data) == 0 {
		t.Fatal("save wrote nothing")
	}
	store.Clear()
	if len(kv.data) != 0 {
		t.Errorf("clear left keys behind: %v", kv.data)
	}
}

func TestPlanningStoreSwallowsWriteFailures(t *testing.T) {
	kv := newFakeKV()
	kv.failAll = true
	store := NewPlanningStore(kv, "alice")
	// Neither call may panic or surface the failure.
	store.Save(DefaultPlanningState("2026-W10"))
	store.Clear()
}

func TestPlanningStoreIsolatedPerUser(t *testing.T) {
	kv := newFakeKV()
	alice := NewPlanningStore(kv, "alice")
	bob := NewPlanningStore(kv, "bob")

	st := DefaultPlanningState("2026-W10")
	st.Step = StepConfirmation
	alice.Save(st)

	if got := bob.Load("2026-W10"); got.Step != StepRollover {
		t.Errorf("bob sees alice's progress: %+v", got)
	}
}

func TestPlanningWatchReplayLatest(t *testing.T) {
	store := NewPlanningStore(newFakeKV(), "alice")

	st := DefaultPlanningState("2026-W10")
	st.Step = StepAddTasks
	store.Save(st)
	st.Step = StepConfirmation
	store.Save(st)

	// A late subscriber still sees the most recent snapshot.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := store.Watch(ctx)
	select {
	case got := <-ch:
		if got.Step != StepConfirmation {
			t.Errorf("replayed step = %q, want %q", got.Step, StepConfirmation)
		}
	case <-time.After(time.Second):
		t.Fatal("watch never delivered the latest snapshot")
	}
}

func TestReviewStoreRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := NewReviewStore(kv, "alice")

	st := DefaultReviewState("2026-W10")
	st.Step = StepTaskOutcomes
	st.Mode = ModeJoint
	st.Rating = 4
	st.Note = "good week\nmostly"
	st.InProgress = true
	st.Outcomes["t1"] = models.StatusCompleted
	st.Outcomes["t2"] = models.StatusTried
	st.Notes["t2"] = `tricky: ran out of time\energy`
	store.Save(st)

	got := store.Load("2026-W10")
	if got.Step != StepTaskOutcomes || got.Mode != ModeJoint || got.Rating != 4 {
		t.Errorf("Load() = %+v", got)
	}
	if got.Note != "good week\nmostly" {
		t.Errorf("note = %q", got.Note)
	}
	if got.Outcomes["t1"] != models.StatusCompleted || got.Outcomes["t2"] != models.StatusTried {
		t.Errorf("outcomes = %v", got.Outcomes)
	}
	if got.Notes["t2"] != `tricky: ran out of time\energy` {
		t.Errorf("task note = %q", got.Notes["t2"])
	}
}

func TestReviewStoreStaleWeekDiscarded(t *testing.T) {
	kv := newFakeKV()
	store := NewReviewStore(kv, "alice")

	st := DefaultReviewState("2026-W01")
	st.Rating = 5
	st.InProgress = true
	store.Save(st)

	got := store.Load("2026-W02")
	if got.Rating != 0 || got.InProgress || got.Step != StepModeSelect {
		t.Errorf("stale review snapshot resumed: %+v", got)
	}
}
