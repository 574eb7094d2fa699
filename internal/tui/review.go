package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/progress"
	"github.com/tandemhq/tandem/internal/wizard"
)

type ReviewModel struct {
	wiz  *wizard.Review
	keys KeyMap
	help help.Model

	form    *huh.Form
	current models.Task

	// form-bound scratch
	mode    progress.ReviewMode
	rating  int
	note    string
	outcome models.TaskStatus
	confirm bool

	summary  *wizard.ReviewSummary
	err      error
	quitting bool
}

func NewReviewModel(wiz *wizard.Review) *ReviewModel {
	m := &ReviewModel{
		wiz:  wiz,
		keys: defaultKeyMap(),
		help: help.New(),
	}
	m.buildForm()
	return m
}

func (m *ReviewModel) Err() error                     { return m.err }
func (m *ReviewModel) Summary() *wizard.ReviewSummary { return m.summary }

func (m *ReviewModel) Init() tea.Cmd {
	if m.form == nil {
		return tea.Quit
	}
	return m.form.Init()
}

func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.form == nil {
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if done := m.apply(); done {
			return m, tea.Quit
		}
		return m, m.form.Init()
	}
	if m.form.State == huh.StateAborted {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m *ReviewModel) apply() bool {
	switch m.wiz.Step() {
	case progress.StepModeSelect:
		if err := m.wiz.SelectMode(m.mode); err != nil {
			m.err = err
			return true
		}

	case progress.StepOverallRating:
		if err := m.wiz.SetRating(m.rating, m.note); err != nil {
			m.err = err
			return true
		}

	case progress.StepTaskOutcomes:
		if err := m.wiz.RecordOutcome(m.current.ID, m.outcome, m.note); err != nil {
			m.err = err
			return true
		}

	case progress.StepReviewConfirm:
		if !m.confirm {
			m.quitting = true
			return true
		}
		summary, err := m.wiz.Confirm()
		if err != nil {
			m.err = err
			return true
		}
		m.summary = &summary
		return true
	}

	m.buildForm()
	return m.form == nil
}

func (m *ReviewModel) buildForm() {
	m.note = ""
	m.confirm = true

	switch m.wiz.Step() {
	case progress.StepModeSelect:
		m.mode = progress.ModeJoint
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewSelect[progress.ReviewMode]().
				Title("How are you reviewing this week?").
				Options(
					huh.NewOption("Together with my partner", progress.ModeJoint),
					huh.NewOption("On my own", progress.ModeSolo),
				).
				Value(&m.mode),
		))

	case progress.StepOverallRating:
		m.rating = 3
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("How was week %s?", m.wiz.WeekID())).
				Options(
					huh.NewOption("5 · great", 5),
					huh.NewOption("4 · good", 4),
					huh.NewOption("3 · fine", 3),
					huh.NewOption("2 · rough", 2),
					huh.NewOption("1 · awful", 1),
				).
				Value(&m.rating),
			huh.NewText().
				Title("Anything worth remembering?").
				Lines(2).
				Value(&m.note),
		))

	case progress.StepTaskOutcomes:
		pending := m.wiz.PendingTasks()
		if len(pending) == 0 {
			m.form = nil
			return
		}
		m.current = pending[0]
		m.outcome = models.StatusCompleted
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewSelect[models.TaskStatus]().
				Title(fmt.Sprintf("%q — how did it go?", m.current.Title)).
				Description(fmt.Sprintf("%d left to review.", len(pending))).
				Options(
					huh.NewOption("Done", models.StatusCompleted),
					huh.NewOption("Tried", models.StatusTried),
					huh.NewOption("Skipped", models.StatusSkipped),
				).
				Value(&m.outcome),
			huh.NewInput().
				Title("Note (optional)").
				Value(&m.note),
		))

	case progress.StepReviewConfirm:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Save this review?").
				Description("Task outcomes are written all at once when you confirm.").
				Affirmative("Save").
				Negative("Not yet").
				Value(&m.confirm),
		))
	}
}

func (m *ReviewModel) View() string {
	if m.err != nil {
		return docStyle.Render(dangerStyle.Render("Error: " + m.err.Error()))
	}
	if m.summary != nil {
		s := successStyle.Render(fmt.Sprintf("Week %s reviewed!", m.summary.WeekID)) + "\n\n"
		s += fmt.Sprintf("  Rating:    %d/5\n", m.summary.Rating)
		s += fmt.Sprintf("  Done:      %d\n", m.summary.Completed)
		s += fmt.Sprintf("  Tried:     %d\n", m.summary.Tried)
		s += fmt.Sprintf("  Skipped:   %d\n", m.summary.Skipped)
		return docStyle.Render(s)
	}
	if m.quitting {
		return docStyle.Render(subtitleStyle.Render("Progress saved. Run 'tandem review' to pick up where you left off."))
	}
	if m.form == nil {
		return ""
	}

	header := titleStyle.Render("Reviewing "+m.wiz.WeekID()) + "  " +
		subtitleStyle.Render(reviewStepLabel(m.wiz.Step()))
	return docStyle.Render(header + "\n\n" + m.form.View() + "\n" + m.help.View(m.keys))
}

func reviewStepLabel(step progress.ReviewStep) string {
	switch step {
	case progress.StepModeSelect:
		return "· solo or together"
	case progress.StepOverallRating:
		return "· the week overall"
	case progress.StepTaskOutcomes:
		return "· task by task"
	case progress.StepReviewConfirm:
		return "· confirm"
	}
	return ""
}
