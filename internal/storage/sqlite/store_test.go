package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "tandem.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTask(id, owner, weekID string, status models.TaskStatus) models.Task {
	now := time.Now().Truncate(time.Second)
	return models.Task{
		ID:        id,
		Title:     "task " + id,
		OwnerID:   owner,
		OwnerKind: models.OwnerSelf,
		WeekID:    weekID,
		Status:    status,
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLoadBeforeInit(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); err == nil {
		t.Fatal("Load() on a missing database should fail")
	}
}

func TestTaskRoundTrip(t *testing.T) {
	s := newStore(t)

	task := makeTask("t1", "alice", "2026-W10", models.StatusPending)
	task.Notes = "some notes"
	task.GoalID = "g1"
	task.RolledFromWeek = "2026-W09"
	if err := s.AddTask(task); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTask("t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != task.Title || got.Notes != task.Notes || got.Status != models.StatusPending {
		t.Errorf("GetTask() = %+v", got)
	}
	if got.GoalID != "g1" || got.RolledFromWeek != "2026-W09" {
		t.Errorf("optional columns lost: %+v", got)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, task.CreatedAt)
	}

	if _, err := s.GetTask("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing task error = %v, want ErrNotFound", err)
	}
}

func TestTaskStatusAndWeekQueries(t *testing.T) {
	s := newStore(t)

	for _, task := range []models.Task{
		makeTask("t1", "alice", "2026-W10", models.StatusPending),
		makeTask("t2", "alice", "2026-W10", models.StatusPendingAcceptance),
		makeTask("t3", "alice", "2026-W09", models.StatusPending),
		makeTask("t4", "bob", "2026-W10", models.StatusPending),
	} {
		if err := s.AddTask(task); err != nil {
			t.Fatal(err)
		}
	}

	week10, err := s.GetTasksForWeek("alice", "2026-W10")
	if err != nil {
		t.Fatal(err)
	}
	if len(week10) != 2 {
		t.Errorf("alice 2026-W10 tasks = %d, want 2", len(week10))
	}

	requests, err := s.GetTasksForWeekByStatus("alice", "2026-W10", models.StatusPendingAcceptance)
	if err != nil {
		t.Fatal(err)
	}
	if len(requests) != 1 || requests[0].ID != "t2" {
		t.Errorf("pending acceptance = %+v", requests)
	}

	if err := s.UpdateTaskStatus("t1", models.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask("t1")
	if got.Status != models.StatusCompleted {
		t.Errorf("status = %q", got.Status)
	}

	if err := s.UpdateTaskStatus("nope", models.StatusCompleted); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("update of missing task = %v, want ErrNotFound", err)
	}
}

func TestTaskSoftDelete(t *testing.T) {
	s := newStore(t)
	if err := s.AddTask(makeTask("t1", "alice", "2026-W10", models.StatusPending)); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteTask("t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTask("t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("deleted task visible: %v", err)
	}
	week, _ := s.GetTasksForWeek("alice", "2026-W10")
	if len(week) != 0 {
		t.Errorf("deleted task listed: %+v", week)
	}

	// Double delete is a no-op failure, not corruption.
	if err := s.DeleteTask("t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}

	if err := s.RestoreTask("t1"); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetTask("t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.DeletedAt != nil {
		t.Errorf("restored task still has deleted_at: %+v", got)
	}
}

func TestWeekLifecycle(t *testing.T) {
	s := newStore(t)

	wk, err := s.GetOrCreateWeek("alice", "2026-W10")
	if err != nil {
		t.Fatal(err)
	}
	if wk.PlanningCompletedAt != nil {
		t.Errorf("fresh week already planned: %+v", wk)
	}

	// Idempotent: a second call returns the same record.
	if _, err := s.GetOrCreateWeek("alice", "2026-W10"); err != nil {
		t.Fatal(err)
	}

	at := time.Now().Truncate(time.Second)
	if err := s.MarkPlanningCompleted("alice", "2026-W10", at); err != nil {
		t.Fatal(err)
	}
	got, found, err := s.GetWeek("alice", "2026-W10")
	if err != nil || !found {
		t.Fatalf("GetWeek: found=%v err=%v", found, err)
	}
	if got.PlanningCompletedAt == nil || !got.PlanningCompletedAt.Equal(at) {
		t.Errorf("planning completed at = %v, want %v", got.PlanningCompletedAt, at)
	}

	if _, found, _ := s.GetWeek("alice", "2026-W11"); found {
		t.Error("nonexistent week reported found")
	}
	if err := s.MarkPlanningCompleted("alice", "2026-W11", at); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("marking missing week = %v, want ErrNotFound", err)
	}
}

func TestWeeksOrderedMostRecentFirst(t *testing.T) {
	s := newStore(t)
	for _, w := range []string{"2025-W52", "2026-W10", "2026-W02"} {
		if _, err := s.GetOrCreateWeek("alice", w); err != nil {
			t.Fatal(err)
		}
	}
	weeks, err := s.GetWeeksForUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2026-W10", "2026-W02", "2025-W52"}
	if len(weeks) != len(want) {
		t.Fatalf("weeks = %d, want %d", len(weeks), len(want))
	}
	for i, w := range want {
		if weeks[i].WeekID != w {
			t.Errorf("weeks[%d] = %s, want %s", i, weeks[i].WeekID, w)
		}
	}
}

func TestReviewUpsert(t *testing.T) {
	s := newStore(t)
	if _, err := s.GetOrCreateWeek("alice", "2026-W10"); err != nil {
		t.Fatal(err)
	}

	rating := 3
	review := models.WeekReview{UserID: "alice", WeekID: "2026-W10", Rating: &rating, Note: "ok"}
	if err := s.SaveReview(review); err != nil {
		t.Fatal(err)
	}

	got, found, err := s.GetReview("alice", "2026-W10")
	if err != nil || !found {
		t.Fatalf("GetReview: found=%v err=%v", found, err)
	}
	if got.Reviewed() {
		t.Error("review without reviewed_at reported as reviewed")
	}

	// Saving again finalizes the same row.
	at := time.Now().Truncate(time.Second)
	rating = 5
	review.Rating = &rating
	review.ReviewedAt = &at
	if err := s.SaveReview(review); err != nil {
		t.Fatal(err)
	}
	got, _, _ = s.GetReview("alice", "2026-W10")
	if !got.Reviewed() || got.Rating == nil || *got.Rating != 5 {
		t.Errorf("upserted review = %+v", got)
	}

	reviews, err := s.GetReviewsForUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 1 {
		t.Errorf("reviews = %d, want 1 after upsert", len(reviews))
	}
}

func TestReviewRatingValidation(t *testing.T) {
	s := newStore(t)
	bad := 7
	err := s.SaveReview(models.WeekReview{UserID: "alice", WeekID: "2026-W10", Rating: &bad})
	if err == nil {
		t.Error("out-of-range rating accepted")
	}
}

func TestPartnerLinkSymmetric(t *testing.T) {
	s := newStore(t)

	if p, err := s.GetPartner("alice"); err != nil || p != "" {
		t.Fatalf("unpartnered GetPartner = %q, %v", p, err)
	}

	if err := s.SetPartner("alice", "bob"); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.GetPartner("alice"); p != "bob" {
		t.Errorf("alice's partner = %q", p)
	}
	if p, _ := s.GetPartner("bob"); p != "alice" {
		t.Errorf("bob's partner = %q", p)
	}

	if err := s.UnsetPartner("bob"); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.GetPartner("alice"); p != "" {
		t.Errorf("unlink left alice linked to %q", p)
	}
	if p, _ := s.GetPartner("bob"); p != "" {
		t.Errorf("unlink left bob linked to %q", p)
	}
}

func TestKV(t *testing.T) {
	s := newStore(t)

	if _, found, err := s.KVGet("absent"); err != nil || found {
		t.Fatalf("absent key: found=%v err=%v", found, err)
	}

	if err := s.KVSet("a", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.KVSet("a", "2"); err != nil {
		t.Fatal(err)
	}
	v, found, err := s.KVGet("a")
	if err != nil || !found || v != "2" {
		t.Errorf("KVGet = %q found=%v err=%v", v, found, err)
	}

	if err := s.KVApply(storage.KVEdit{
		Set:    map[string]string{"p/x": "1", "p/y": "2", "q/z": "3"},
		Delete: []string{"a"},
	}); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.KVGet("a"); found {
		t.Error("KVApply delete did not remove key")
	}
	prefixed, err := s.KVGetPrefix("p/")
	if err != nil {
		t.Fatal(err)
	}
	if len(prefixed) != 2 || prefixed["p/x"] != "1" || prefixed["p/y"] != "2" {
		t.Errorf("KVGetPrefix = %v", prefixed)
	}
}

func TestUserSettingsAndMilestone(t *testing.T) {
	s := newStore(t)

	if _, found, err := s.GetUserSetting("alice", "display_name"); err != nil || found {
		t.Fatalf("absent setting: found=%v err=%v", found, err)
	}
	if err := s.SetUserSetting("alice", "display_name", "Alice"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUserSetting("alice", "display_name", "Ally"); err != nil {
		t.Fatal(err)
	}
	v, found, _ := s.GetUserSetting("alice", "display_name")
	if !found || v != "Ally" {
		t.Errorf("setting = %q found=%v", v, found)
	}

	if m, err := s.GetCelebratedMilestone("alice"); err != nil || m != 0 {
		t.Fatalf("fresh milestone = %d, %v", m, err)
	}
	if err := s.SetCelebratedMilestone("alice", 10); err != nil {
		t.Fatal(err)
	}
	if m, _ := s.GetCelebratedMilestone("alice"); m != 10 {
		t.Errorf("milestone = %d, want 10", m)
	}
	// Settings are per user.
	if m, _ := s.GetCelebratedMilestone("bob"); m != 0 {
		t.Errorf("bob's milestone = %d, want 0", m)
	}
}

func TestGoals(t *testing.T) {
	s := newStore(t)

	goal := models.Goal{ID: "g1", Title: "more time outside", OwnerID: "alice", CreatedAt: time.Now()}
	if err := s.AddGoal(goal); err != nil {
		t.Fatal(err)
	}

	got, found, err := s.GetGoal("g1")
	if err != nil || !found {
		t.Fatalf("GetGoal: found=%v err=%v", found, err)
	}
	if got.Title != goal.Title {
		t.Errorf("goal = %+v", got)
	}
	if _, found, _ := s.GetGoal("nope"); found {
		t.Error("missing goal reported found")
	}

	goals, err := s.GetGoalsForUser("alice")
	if err != nil || len(goals) != 1 {
		t.Errorf("goals = %v, %v", goals, err)
	}
}
