// Package wizard drives the step-by-step planning and review flows. Wizards
// persist a snapshot through the progress store after every mutating step, so
// an interruption loses at most the in-memory portion of the current step.
package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/progress"
	"github.com/tandemhq/tandem/internal/storage"
	"github.com/tandemhq/tandem/internal/week"
)

var (
	// ErrWrongStep is returned when an operation is invoked outside the
	// step it belongs to.
	ErrWrongStep = errors.New("operation not valid in the current step")
	// ErrNotImplemented marks the placeholder "discuss" action. It performs
	// no domain mutation until product scope is defined.
	ErrNotImplemented = errors.New("discussing requests together is not available yet")
)

// PlanningSummary is reported when planning completes.
type PlanningSummary struct {
	WeekID   string
	Carried  int
	Added    int
	Accepted int
}

// Total is the aggregate count of tasks touched during planning.
func (s PlanningSummary) Total() int {
	return s.Carried + s.Added + s.Accepted
}

// Planning walks ROLLOVER -> ADD_TASKS -> PARTNER_REQUESTS -> CONFIRMATION.
// A step whose backing collection is empty at entry is skipped entirely;
// ADD_TASKS is always offered. CONFIRMATION is terminal.
type Planning struct {
	store    storage.Provider
	progress *progress.PlanningStore
	session  models.Session
	weekID   string
	prevWeek string

	state     progress.PlanningState
	rollovers []models.Task
	requests  []models.Task
}

// NewPlanning builds the wizard for the given week, resuming persisted
// progress when it belongs to the same week.
func NewPlanning(store storage.Provider, prog *progress.PlanningStore, session models.Session, weekID string) (*Planning, error) {
	prevWeek, err := week.Previous(weekID)
	if err != nil {
		return nil, err
	}
	if _, err := store.GetOrCreateWeek(session.UserID, weekID); err != nil {
		return nil, fmt.Errorf("preparing week %s: %w", weekID, err)
	}

	prevTasks, err := store.GetTasksForWeek(session.UserID, prevWeek)
	if err != nil {
		return nil, fmt.Errorf("loading rollover candidates: %w", err)
	}
	var rollovers []models.Task
	for _, t := range prevTasks {
		if t.IsIncomplete() {
			rollovers = append(rollovers, t)
		}
	}

	requests, err := store.GetTasksForWeekByStatus(session.UserID, weekID, models.StatusPendingAcceptance)
	if err != nil {
		return nil, fmt.Errorf("loading partner requests: %w", err)
	}

	p := &Planning{
		store:     store,
		progress:  prog,
		session:   session,
		weekID:    weekID,
		prevWeek:  prevWeek,
		rollovers: rollovers,
		requests:  requests,
	}

	p.state = prog.Load(weekID)
	if !p.state.InProgress {
		p.state = progress.DefaultPlanningState(weekID)
		p.state.InProgress = true
		p.state.Step = p.firstStep()
	} else if p.stepExhausted(p.state.Step) {
		// Items may have been handled in a previous session right before it
		// was torn down; never re-offer them.
		p.state.Step = p.nextStep(p.state.Step)
	}
	prog.Save(p.state)
	return p, nil
}

func (p *Planning) Step() progress.PlanningStep { return p.state.Step }
func (p *Planning) WeekID() string              { return p.weekID }
func (p *Planning) PreviousWeekID() string      { return p.prevWeek }

// PendingRollovers returns the rollover candidates not yet handled, so a
// resumed session never reprocesses an item.
func (p *Planning) PendingRollovers() []models.Task {
	var out []models.Task
	for _, t := range p.rollovers {
		if !p.state.HandledRollovers[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// PendingRequests returns the partner requests not yet handled.
func (p *Planning) PendingRequests() []models.Task {
	var out []models.Task
	for _, t := range p.requests {
		if !p.state.HandledRequests[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func (p *Planning) firstStep() progress.PlanningStep {
	if len(p.rollovers) > 0 {
		return progress.StepRollover
	}
	return progress.StepAddTasks
}

// nextStep computes the next non-empty step after the given one.
func (p *Planning) nextStep(after progress.PlanningStep) progress.PlanningStep {
	switch after {
	case progress.StepRollover:
		return progress.StepAddTasks
	case progress.StepAddTasks:
		if len(p.PendingRequests()) > 0 {
			return progress.StepPartnerRequests
		}
		return progress.StepConfirmation
	default:
		return progress.StepConfirmation
	}
}

func (p *Planning) stepExhausted(step progress.PlanningStep) bool {
	switch step {
	case progress.StepRollover:
		return len(p.PendingRollovers()) == 0
	case progress.StepPartnerRequests:
		return len(p.PendingRequests()) == 0
	default:
		return false
	}
}

func (p *Planning) rolloverByID(taskID string) (models.Task, bool) {
	for _, t := range p.PendingRollovers() {
		if t.ID == taskID {
			return t, true
		}
	}
	return models.Task{}, false
}

// AddRollover carries an incomplete task from the prior week forward as a new
// task in the current week. The original task is left untouched: this is an
// append-only carry-forward, not a move. An unanswered partner request keeps
// its pending-acceptance status and is offered again in the requests step.
func (p *Planning) AddRollover(taskID string) (models.Task, error) {
	if p.state.Step != progress.StepRollover {
		return models.Task{}, ErrWrongStep
	}
	src, ok := p.rolloverByID(taskID)
	if !ok {
		return models.Task{}, fmt.Errorf("rollover candidate %s: %w", taskID, storage.ErrNotFound)
	}

	now := time.Now()
	copied := models.Task{
		ID:             uuid.New().String(),
		Title:          src.Title,
		Notes:          src.Notes,
		OwnerID:        p.session.UserID,
		OwnerKind:      src.OwnerKind,
		WeekID:         p.weekID,
		Status:         src.Status,
		CreatedBy:      src.CreatedBy,
		GoalID:         src.GoalID,
		RolledFromWeek: src.WeekID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := p.store.AddTask(copied); err != nil {
		return models.Task{}, fmt.Errorf("carrying task forward: %w", err)
	}
	if copied.Status == models.StatusPendingAcceptance {
		p.requests = append(p.requests, copied)
	}

	p.state.HandledRollovers[taskID] = true
	p.state.CarriedCount++
	p.advanceIfExhausted()
	p.progress.Save(p.state)
	return copied, nil
}

// SkipRollover is pure bookkeeping; the source task is not mutated.
func (p *Planning) SkipRollover(taskID string) error {
	if p.state.Step != progress.StepRollover {
		return ErrWrongStep
	}
	if _, ok := p.rolloverByID(taskID); !ok {
		return fmt.Errorf("rollover candidate %s: %w", taskID, storage.ErrNotFound)
	}
	p.state.HandledRollovers[taskID] = true
	p.advanceIfExhausted()
	p.progress.Save(p.state)
	return nil
}

// SubmitTask creates a new pending task in the current week. Blank titles are
// rejected locally; nothing is persisted in that case.
func (p *Planning) SubmitTask(title, notes, goalID string) (models.Task, error) {
	if p.state.Step != progress.StepAddTasks {
		return models.Task{}, ErrWrongStep
	}
	if strings.TrimSpace(title) == "" {
		return models.Task{}, models.ErrBlankTitle
	}

	now := time.Now()
	task := models.Task{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		Notes:     notes,
		OwnerID:   p.session.UserID,
		OwnerKind: models.OwnerSelf,
		WeekID:    p.weekID,
		Status:    models.StatusPending,
		CreatedBy: p.session.UserID,
		GoalID:    goalID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); err != nil {
		return models.Task{}, err
	}
	if err := p.store.AddTask(task); err != nil {
		return models.Task{}, fmt.Errorf("creating task: %w", err)
	}

	p.state.AddedCount++
	p.progress.Save(p.state)
	return task, nil
}

// FinishAddTasks leaves the ADD_TASKS step for the next non-empty one.
func (p *Planning) FinishAddTasks() error {
	if p.state.Step != progress.StepAddTasks {
		return ErrWrongStep
	}
	p.state.Step = p.nextStep(progress.StepAddTasks)
	p.progress.Save(p.state)
	return nil
}

// AcceptRequest transitions a partner request from pending acceptance to
// pending. Week and owner are unchanged.
func (p *Planning) AcceptRequest(taskID string) error {
	if p.state.Step != progress.StepPartnerRequests {
		return ErrWrongStep
	}
	if !p.requestPending(taskID) {
		return fmt.Errorf("partner request %s: %w", taskID, storage.ErrNotFound)
	}
	if err := p.store.UpdateTaskStatus(taskID, models.StatusPending); err != nil {
		return fmt.Errorf("accepting request: %w", err)
	}

	p.state.HandledRequests[taskID] = true
	p.state.AcceptedCount++
	p.advanceIfExhausted()
	p.progress.Save(p.state)
	return nil
}

// DiscussRequest is a placeholder: it advances the wizard without any domain
// mutation and reports ErrNotImplemented as the user-facing notice.
func (p *Planning) DiscussRequest(taskID string) error {
	if p.state.Step != progress.StepPartnerRequests {
		return ErrWrongStep
	}
	if !p.requestPending(taskID) {
		return fmt.Errorf("partner request %s: %w", taskID, storage.ErrNotFound)
	}
	p.state.HandledRequests[taskID] = true
	p.advanceIfExhausted()
	p.progress.Save(p.state)
	return ErrNotImplemented
}

func (p *Planning) requestPending(taskID string) bool {
	for _, t := range p.PendingRequests() {
		if t.ID == taskID {
			return true
		}
	}
	return false
}

func (p *Planning) advanceIfExhausted() {
	if p.stepExhausted(p.state.Step) {
		p.state.Step = p.nextStep(p.state.Step)
	}
}

// Complete marks the week's planning as done, clears persisted progress, and
// reports the aggregate of tasks carried over, newly created, and requests
// accepted.
func (p *Planning) Complete() (PlanningSummary, error) {
	if p.state.Step != progress.StepConfirmation {
		return PlanningSummary{}, ErrWrongStep
	}
	if err := p.store.MarkPlanningCompleted(p.session.UserID, p.weekID, time.Now()); err != nil {
		return PlanningSummary{}, fmt.Errorf("marking planning completed: %w", err)
	}
	p.progress.Clear()
	return PlanningSummary{
		WeekID:   p.weekID,
		Carried:  p.state.CarriedCount,
		Added:    p.state.AddedCount,
		Accepted: p.state.AcceptedCount,
	}, nil
}
