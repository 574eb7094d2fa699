package models

import (
	"errors"
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		want     bool
	}{
		// Acceptance gate: accept or decline, nothing else.
		{StatusPendingAcceptance, StatusPending, true},
		{StatusPendingAcceptance, StatusDeclined, true},
		{StatusPendingAcceptance, StatusCompleted, false},
		{StatusPendingAcceptance, StatusTried, false},
		{StatusPendingAcceptance, StatusSkipped, false},

		// Pending takes any review outcome.
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusTried, true},
		{StatusPending, StatusSkipped, true},
		{StatusPending, StatusDeclined, false},
		{StatusPending, StatusPendingAcceptance, false},

		// Outcomes can be corrected, completed is final.
		{StatusTried, StatusCompleted, true},
		{StatusSkipped, StatusTried, true},
		{StatusCompleted, StatusTried, false},
		{StatusDeclined, StatusPending, false},

		// Self-transitions and unknown targets never pass.
		{StatusPending, StatusPending, false},
		{StatusPending, TaskStatus("bogus"), false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTaskValidate(t *testing.T) {
	valid := Task{
		ID:        "t1",
		Title:     "walk the dog",
		OwnerID:   "alice",
		OwnerKind: OwnerSelf,
		WeekID:    "2026-W10",
		Status:    StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	blank := valid
	blank.Title = "   \t"
	if err := blank.Validate(); !errors.Is(err, ErrBlankTitle) {
		t.Errorf("blank title error = %v, want ErrBlankTitle", err)
	}

	badStatus := valid
	badStatus.Status = "paused"
	if err := badStatus.Validate(); err == nil {
		t.Error("unknown status accepted")
	}

	badOwner := valid
	badOwner.OwnerKind = "them"
	if err := badOwner.Validate(); err == nil {
		t.Error("unknown owner kind accepted")
	}

	noWeek := valid
	noWeek.WeekID = ""
	if err := noWeek.Validate(); err == nil {
		t.Error("task without week accepted")
	}
}

func TestIsIncomplete(t *testing.T) {
	for status, want := range map[TaskStatus]bool{
		StatusPending:           true,
		StatusPendingAcceptance: true,
		StatusCompleted:         false,
		StatusTried:             false,
		StatusSkipped:           false,
		StatusDeclined:          false,
	} {
		if got := (Task{Status: status}).IsIncomplete(); got != want {
			t.Errorf("IsIncomplete(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestWeekReviewed(t *testing.T) {
	r := WeekReview{UserID: "alice", WeekID: "2026-W10"}
	if r.Reviewed() {
		t.Error("review without reviewed_at counts as reviewed")
	}
	at := time.Now()
	r.ReviewedAt = &at
	if !r.Reviewed() {
		t.Error("review with reviewed_at not counted")
	}
}

func TestWeekReviewValidate(t *testing.T) {
	for rating, ok := range map[int]bool{1: true, 3: true, 5: true, 0: false, 6: false} {
		v := rating
		r := WeekReview{UserID: "alice", WeekID: "2026-W10", Rating: &v}
		err := r.Validate()
		if ok && err != nil {
			t.Errorf("rating %d rejected: %v", rating, err)
		}
		if !ok && err == nil {
			t.Errorf("rating %d accepted", rating)
		}
	}

	// A nil rating is a draft review; allowed.
	if err := (WeekReview{UserID: "alice", WeekID: "2026-W10"}).Validate(); err != nil {
		t.Errorf("draft review rejected: %v", err)
	}
}

func TestSessionPartnered(t *testing.T) {
	if (Session{UserID: "alice"}).Partnered() {
		t.Error("solo session reported partnered")
	}
	if !(Session{UserID: "alice", PartnerID: "bob"}).Partnered() {
		t.Error("linked session reported solo")
	}
}
