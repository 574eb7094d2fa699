package streak

import (
	"testing"
	"time"

	"github.com/tandemhq/tandem/internal/models"
)

// fakeSource serves canned review histories keyed by user.
type fakeSource struct {
	reviews  map[string][]models.WeekReview
	partners map[string]string
}

func (f *fakeSource) GetReviewsForUser(userID string) ([]models.WeekReview, error) {
	return f.reviews[userID], nil
}

func (f *fakeSource) GetPartner(userID string) (string, error) {
	return f.partners[userID], nil
}

var reviewedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// history builds a descending review history; reviewed[i] applies to weeks[i].
func history(weeks []string, reviewed []bool) []models.WeekReview {
	out := make([]models.WeekReview, len(weeks))
	for i, w := range weeks {
		out[i] = models.WeekReview{UserID: "u", WeekID: w}
		if reviewed[i] {
			at := reviewedAt
			out[i].ReviewedAt = &at
		}
	}
	return out
}

func TestSoloStreak(t *testing.T) {
	cases := []struct {
		name     string
		weeks    []string
		reviewed []bool
		want     int
	}{
		{"brand new user", nil, nil, 0},
		{"single reviewed week", []string{"2026-W10"}, []bool{true}, 1},
		{"run of three", []string{"2026-W10", "2026-W09", "2026-W08"}, []bool{true, true, true}, 3},
		{"gap truncates", []string{"2026-W10", "2026-W09", "2026-W08"}, []bool{true, false, true}, 1},
		{"week with no review row at all truncates",
			[]string{"2026-W10", "2026-W08"}, []bool{true, true}, 1},
		{"most recent unreviewed means zero regardless of history",
			[]string{"2026-W10", "2026-W09", "2026-W08"}, []bool{false, true, true}, 0},
		{"run crosses the year boundary",
			[]string{"2026-W01", "2025-W52"}, []bool{true, true}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &fakeSource{
				reviews:  map[string][]models.WeekReview{"alice": history(tc.weeks, tc.reviewed)},
				partners: map[string]string{},
			}
			got, err := NewCalculator(src).Compute("alice", 0)
			if err != nil {
				t.Fatal(err)
			}
			if got.Count != tc.want {
				t.Errorf("streak = %d, want %d", got.Count, tc.want)
			}
			if got.WithPartner {
				t.Error("WithPartner = true for solo user")
			}
		})
	}
}

func TestJointStreak(t *testing.T) {
	weeks := []string{"2026-W10", "2026-W09", "2026-W08"}

	t.Run("both reviewed all weeks", func(t *testing.T) {
		src := &fakeSource{
			reviews: map[string][]models.WeekReview{
				"alice": history(weeks, []bool{true, true, true}),
				"bob":   history(weeks, []bool{true, true, true}),
			},
			partners: map[string]string{"alice": "bob", "bob": "alice"},
		}
		got, err := NewCalculator(src).Compute("alice", 0)
		if err != nil {
			t.Fatal(err)
		}
		if got.Count != 3 || !got.WithPartner {
			t.Errorf("got %+v, want count 3 with partner", got)
		}
	})

	t.Run("partner gap truncates", func(t *testing.T) {
		src := &fakeSource{
			reviews: map[string][]models.WeekReview{
				"alice": history(weeks, []bool{true, true, true}),
				"bob":   history(weeks, []bool{true, false, true}),
			},
			partners: map[string]string{"alice": "bob"},
		}
		got, _ := NewCalculator(src).Compute("alice", 0)
		if got.Count != 1 {
			t.Errorf("streak = %d, want 1", got.Count)
		}
	})

	t.Run("week missing from partner history truncates", func(t *testing.T) {
		src := &fakeSource{
			reviews: map[string][]models.WeekReview{
				"alice": history(weeks, []bool{true, true, true}),
				"bob":   history([]string{"2026-W10"}, []bool{true}),
			},
			partners: map[string]string{"alice": "bob"},
		}
		got, _ := NewCalculator(src).Compute("alice", 0)
		if got.Count != 1 {
			t.Errorf("streak = %d, want 1", got.Count)
		}
	})

	t.Run("week neither partner reviewed truncates", func(t *testing.T) {
		// Both reviewed W10 and W08 but nobody wrote anything for W09, so
		// there are no W09 rows anywhere. The missing week still breaks the
		// chain.
		skipped := []string{"2026-W10", "2026-W08"}
		src := &fakeSource{
			reviews: map[string][]models.WeekReview{
				"alice": history(skipped, []bool{true, true}),
				"bob":   history(skipped, []bool{true, true}),
			},
			partners: map[string]string{"alice": "bob"},
		}
		got, _ := NewCalculator(src).Compute("alice", 0)
		if got.Count != 1 {
			t.Errorf("streak = %d, want 1", got.Count)
		}
	})

	t.Run("diligent user frozen at zero by inactive partner", func(t *testing.T) {
		// Partner semantics fully override solo semantics once linked.
		src := &fakeSource{
			reviews: map[string][]models.WeekReview{
				"alice": history(weeks, []bool{true, true, true}),
				"bob":   nil,
			},
			partners: map[string]string{"alice": "bob"},
		}
		got, _ := NewCalculator(src).Compute("alice", 0)
		if got.Count != 0 {
			t.Errorf("streak = %d, want 0", got.Count)
		}
		if !got.WithPartner {
			t.Error("WithPartner = false, want true")
		}
	})
}

func TestPendingMilestone(t *testing.T) {
	cases := []struct {
		streak, lastCelebrated int
		want                   *int
	}{
		{0, 0, nil},
		{4, 0, nil},
		{5, 0, intp(5)},
		{12, 5, intp(10)},
		{12, 10, nil},
		{55, 20, intp(50)},
		{55, 50, nil},
		{20, 0, intp(20)}, // largest reached milestone wins, not the smallest
	}
	for _, tc := range cases {
		got := PendingMilestone(tc.streak, tc.lastCelebrated)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("PendingMilestone(%d, %d) = %d, want nil", tc.streak, tc.lastCelebrated, *got)
		case tc.want != nil && got == nil:
			t.Errorf("PendingMilestone(%d, %d) = nil, want %d", tc.streak, tc.lastCelebrated, *tc.want)
		case tc.want != nil && got != nil && *got != *tc.want:
			t.Errorf("PendingMilestone(%d, %d) = %d, want %d", tc.streak, tc.lastCelebrated, *got, *tc.want)
		}
	}
}

func intp(v int) *int { return &v }
