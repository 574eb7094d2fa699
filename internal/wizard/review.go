package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/progress"
	"github.com/tandemhq/tandem/internal/storage"
)

// ErrInvalidRating rejects overall ratings outside the 1..5 scale.
var ErrInvalidRating = fmt.Errorf("rating must be between 1 and 5")

// ReviewSummary is reported when a review is confirmed.
type ReviewSummary struct {
	WeekID    string
	Rating    int
	Completed int
	Tried     int
	Skipped   int
}

// Review walks MODE_SELECT -> OVERALL_RATING -> TASK_OUTCOMES -> CONFIRMATION.
// Outcomes are staged in the progress store and only written to task records
// as a batch when the user confirms; abandoning the wizard before then leaves
// every task untouched.
type Review struct {
	store    storage.Provider
	progress *progress.ReviewStore
	session  models.Session
	weekID   string

	state progress.ReviewState
	tasks []models.Task
}

// NewReview builds the wizard for the given week, resuming staged progress
// when it belongs to the same week. Only pending tasks take outcomes; tasks
// already completed ad hoc, declined, or never accepted are not re-reviewed.
func NewReview(store storage.Provider, prog *progress.ReviewStore, session models.Session, weekID string) (*Review, error) {
	if _, err := store.GetOrCreateWeek(session.UserID, weekID); err != nil {
		return nil, fmt.Errorf("preparing week %s: %w", weekID, err)
	}
	tasks, err := store.GetTasksForWeekByStatus(session.UserID, weekID, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("loading tasks for review: %w", err)
	}

	r := &Review{
		store:    store,
		progress: prog,
		session:  session,
		weekID:   weekID,
		tasks:    tasks,
	}

	r.state = prog.Load(weekID)
	if !r.state.InProgress {
		r.state = progress.DefaultReviewState(weekID)
		r.state.InProgress = true
		if !session.Partnered() {
			// No partner means no mode choice to make.
			r.state.Mode = progress.ModeSolo
			r.state.Step = progress.StepOverallRating
		}
	} else if r.state.Step == progress.StepTaskOutcomes && len(r.PendingTasks()) == 0 {
		r.state.Step = progress.StepReviewConfirm
	}
	prog.Save(r.state)
	return r, nil
}

func (r *Review) Step() progress.ReviewStep { return r.state.Step }
func (r *Review) Mode() progress.ReviewMode { return r.state.Mode }
func (r *Review) Rating() int               { return r.state.Rating }
func (r *Review) WeekID() string            { return r.weekID }

// Tasks returns every task under review this week.
func (r *Review) Tasks() []models.Task { return r.tasks }

// PendingTasks returns the tasks without a staged outcome.
func (r *Review) PendingTasks() []models.Task {
	var out []models.Task
	for _, t := range r.tasks {
		if _, ok := r.state.Outcomes[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// StagedOutcome reports the outcome staged for a task, if any.
func (r *Review) StagedOutcome(taskID string) (models.TaskStatus, bool) {
	s, ok := r.state.Outcomes[taskID]
	return s, ok
}

// SelectMode records whether the review is done solo or together.
func (r *Review) SelectMode(mode progress.ReviewMode) error {
	if r.state.Step != progress.StepModeSelect {
		return ErrWrongStep
	}
	if mode != progress.ModeSolo && mode != progress.ModeJoint {
		return fmt.Errorf("unknown review mode %q", mode)
	}
	r.state.Mode = mode
	r.state.Step = progress.StepOverallRating
	r.progress.Save(r.state)
	return nil
}

// SetRating stages the 1-5 week rating and optional note, then moves on to
// per-task outcomes, or straight to confirmation when the week has no
// reviewable tasks.
func (r *Review) SetRating(rating int, note string) error {
	if r.state.Step != progress.StepOverallRating {
		return ErrWrongStep
	}
	if rating < constants.MinRating || rating > constants.MaxRating {
		return ErrInvalidRating
	}
	r.state.Rating = rating
	r.state.Note = note
	if len(r.PendingTasks()) > 0 {
		r.state.Step = progress.StepTaskOutcomes
	} else {
		r.state.Step = progress.StepReviewConfirm
	}
	r.progress.Save(r.state)
	return nil
}

// RecordOutcome stages an outcome for one task. Nothing reaches the task
// record until Confirm.
func (r *Review) RecordOutcome(taskID string, outcome models.TaskStatus, note string) error {
	if r.state.Step != progress.StepTaskOutcomes {
		return ErrWrongStep
	}
	if !outcome.IsOutcome() {
		return fmt.Errorf("status %q is not a review outcome", outcome)
	}
	found := false
	for _, t := range r.tasks {
		if t.ID == taskID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("task %s: %w", taskID, storage.ErrNotFound)
	}

	r.state.Outcomes[taskID] = outcome
	if note != "" {
		r.state.Notes[taskID] = note
	} else {
		delete(r.state.Notes, taskID)
	}
	if len(r.PendingTasks()) == 0 {
		r.state.Step = progress.StepReviewConfirm
	}
	r.progress.Save(r.state)
	return nil
}

// Confirm commits the staged outcomes and the week review as a batch, clears
// the persisted progress, and reports the outcome tally.
func (r *Review) Confirm() (ReviewSummary, error) {
	if r.state.Step != progress.StepReviewConfirm {
		return ReviewSummary{}, ErrWrongStep
	}

	summary := ReviewSummary{WeekID: r.weekID, Rating: r.state.Rating}
	for _, t := range r.tasks {
		outcome, ok := r.state.Outcomes[t.ID]
		if !ok {
			continue
		}
		if err := r.store.UpdateTaskStatus(t.ID, outcome); err != nil {
			return ReviewSummary{}, fmt.Errorf("recording outcome for %s: %w", t.ID, err)
		}
		if note := r.state.Notes[t.ID]; note != "" {
			updated := t
			updated.Status = outcome
			updated.Notes = appendNote(t.Notes, note)
			updated.UpdatedAt = time.Now()
			if err := r.store.UpdateTask(updated); err != nil {
				return ReviewSummary{}, fmt.Errorf("saving note for %s: %w", t.ID, err)
			}
		}
		switch outcome {
		case models.StatusCompleted:
			summary.Completed++
		case models.StatusTried:
			summary.Tried++
		case models.StatusSkipped:
			summary.Skipped++
		}
	}

	now := time.Now()
	rating := r.state.Rating
	review := models.WeekReview{
		UserID:     r.session.UserID,
		WeekID:     r.weekID,
		Rating:     &rating,
		Note:       r.state.Note,
		ReviewedAt: &now,
	}
	if err := r.store.SaveReview(review); err != nil {
		return ReviewSummary{}, fmt.Errorf("saving week review: %w", err)
	}

	r.progress.Clear()
	return summary, nil
}

func appendNote(existing, addition string) string {
	if strings.TrimSpace(existing) == "" {
		return addition
	}
	return existing + "\n" + addition
}
