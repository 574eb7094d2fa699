// Package streak derives review streaks and milestone celebrations from the
// week review history.
package streak

import (
	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/week"
)

// Source is the data collaborator: review history ordered by descending week
// identifier, plus the partner lookup.
type Source interface {
	GetReviewsForUser(userID string) ([]models.WeekReview, error)
	GetPartner(userID string) (string, error)
}

// Calculator computes consecutive-week review streaks.
type Calculator struct {
	source Source
}

func NewCalculator(source Source) *Calculator {
	return &Calculator{source: source}
}

// Compute returns the user's current streak and, gated by the lastCelebrated
// watermark, any newly reached milestone.
//
// Once a partner is linked, a week only counts when both partners reviewed
// it; the partner semantics fully replace the solo streak, even if that
// freezes the streak at zero while the partner never reviews.
func (c *Calculator) Compute(userID string, lastCelebrated int) (models.StreakResult, error) {
	partnerID, err := c.source.GetPartner(userID)
	if err != nil {
		return models.StreakResult{}, err
	}

	var count int
	if partnerID == "" {
		count, err = c.soloStreak(userID)
	} else {
		count, err = c.jointStreak(userID, partnerID)
	}
	if err != nil {
		return models.StreakResult{}, err
	}

	return models.StreakResult{
		Count:       count,
		WithPartner: partnerID != "",
		Milestone:   PendingMilestone(count, lastCelebrated),
	}, nil
}

// soloStreak walks calendar-consecutive weeks backwards from the most recent
// review. A week without a finalized review ends the streak, whether the row
// is a draft or was never written at all.
func (c *Calculator) soloStreak(userID string) (int, error) {
	reviewed, err := reviewedByWeek(c.source, userID)
	if err != nil {
		return 0, err
	}
	return countConsecutive(latestWeek(reviewed), reviewed)
}

// jointStreak walks backwards from the most recent week either partner
// reviewed; a week counts only when both records are independently
// finalized.
func (c *Calculator) jointStreak(userID, partnerID string) (int, error) {
	mine, err := reviewedByWeek(c.source, userID)
	if err != nil {
		return 0, err
	}
	theirs, err := reviewedByWeek(c.source, partnerID)
	if err != nil {
		return 0, err
	}

	both := make(map[string]bool, len(mine))
	for w, ok := range mine {
		both[w] = ok && theirs[w]
	}

	start := latestWeek(mine)
	if other := latestWeek(theirs); other > start {
		start = other
	}
	return countConsecutive(start, both)
}

// countConsecutive counts strictly calendar-consecutive reviewed weeks,
// descending from start via week.Previous. Any gap in the calendar ends the
// count even when older reviewed weeks exist beyond it.
func countConsecutive(start string, reviewed map[string]bool) (int, error) {
	count := 0
	for id := start; id != "" && reviewed[id]; {
		count++
		prev, err := week.Previous(id)
		if err != nil {
			return 0, err
		}
		id = prev
	}
	return count, nil
}

// latestWeek exploits the lexicographic ordering of week identifiers; empty
// when no reviews exist.
func latestWeek(reviewed map[string]bool) string {
	latest := ""
	for w := range reviewed {
		if w > latest {
			latest = w
		}
	}
	return latest
}

func reviewedByWeek(source Source, userID string) (map[string]bool, error) {
	reviews, err := source.GetReviewsForUser(userID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]bool, len(reviews))
	for _, r := range reviews {
		m[r.WeekID] = r.Reviewed()
	}
	return m, nil
}

// PendingMilestone returns the largest milestone that the streak has reached
// and that is strictly above the last celebrated watermark, or nil. Each
// milestone is reported at most once per user.
func PendingMilestone(streak, lastCelebrated int) *int {
	var pending *int
	for _, m := range constants.StreakMilestones {
		if m <= streak && m > lastCelebrated {
			v := m
			pending = &v
		}
	}
	return pending
}
