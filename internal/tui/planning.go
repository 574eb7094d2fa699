// Package tui hosts the interactive planning and review wizards. Each model
// wraps a wizard from the wizard package: the wizard owns the state machine
// and persistence, the model only renders the current step as a huh form and
// feeds answers back.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/progress"
	"github.com/tandemhq/tandem/internal/wizard"
)

const (
	actionCarry   = "carry"
	actionSkip    = "skip"
	actionAccept  = "accept"
	actionDiscuss = "discuss"
)

type PlanningModel struct {
	wiz  *wizard.Planning
	keys KeyMap
	help help.Model

	form    *huh.Form
	current models.Task

	// form-bound scratch
	action  string
	title   string
	notes   string
	confirm bool

	notice   string
	summary  *wizard.PlanningSummary
	err      error
	quitting bool
}

func NewPlanningModel(wiz *wizard.Planning) *PlanningModel {
	m := &PlanningModel{
		wiz:  wiz,
		keys: defaultKeyMap(),
		help: help.New(),
	}
	m.buildForm()
	return m
}

// Err reports the failure that ended the program, if any.
func (m *PlanningModel) Err() error { return m.err }

// Summary reports the completion summary when planning finished.
func (m *PlanningModel) Summary() *wizard.PlanningSummary { return m.summary }

func (m *PlanningModel) Init() tea.Cmd {
	if m.form == nil {
		return tea.Quit
	}
	return m.form.Init()
}

func (m *PlanningModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		// Progress is persisted after every step, so quitting mid-wizard
		// simply resumes next time.
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

// apply feeds the completed form's answers into the wizard and builds the
// next form. Returns true when the program should exit.
func (m *PlanningModel) apply() bool {
	m.notice = ""
	switch m.wiz.Step() {
	case progress.StepRollover:
		var err error
		if m.action == actionCarry {
			_, err = m.wiz.AddRollover(m.current.ID)
		} else {
			err = m.wiz.SkipRollover(m.current.ID)
		}
		if err != nil {
			m.err = err
			return true
		}

	case progress.StepAddTasks:
		if m.title == "" {
			if err := m.wiz.FinishAddTasks(); err != nil {
				m.err = err
				return true
			}
		} else {
			switch _, err := m.wiz.SubmitTask(m.title, m.notes, ""); {
			case errors.Is(err, models.ErrBlankTitle):
				// Correctable: re-show the form instead of tearing down.
				m.notice = warningStyle.Render("A task needs a title. Leave it empty to move on.")
			case err != nil:
				m.err = err
				return true
			default:
				m.notice = successStyle.Render("Added: " + m.title)
			}
		}

	case progress.StepPartnerRequests:
		var err error
		if m.action == actionAccept {
			err = m.wiz.AcceptRequest(m.current.ID)
		} else {
			err = m.wiz.DiscussRequest(m.current.ID)
			if err == wizard.ErrNotImplemented {
				m.notice = warningStyle.Render(err.Error())
				err = nil
			}
		}
		if err != nil {
			m.err = err
			return true
		}

	case progress.StepConfirmation:
		if !m.confirm {
			m.quitting = true
			return true
		}
		summary, err := m.wiz.Complete()
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

func (m *PlanningModel) buildForm() {
	m.action = ""
	m.title = ""
	m.notes = ""
	m.confirm = true

	switch m.wiz.Step() {
	case progress.StepRollover:
		pending := m.wiz.PendingRollovers()
		if len(pending) == 0 {
			m.form = nil
			return
		}
		m.current = pending[0]
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Carry %q into this week?", m.current.Title)).
				Description(fmt.Sprintf("Left over from %s. %d to go.", m.current.WeekID, len(pending))).
				Options(
					huh.NewOption("Carry it forward", actionCarry),
					huh.NewOption("Leave it behind", actionSkip),
				).
				Value(&m.action),
		))

	case progress.StepAddTasks:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Add a task").
				Description("Leave blank to move on.").
				Value(&m.title),
			huh.NewText().
				Title("Notes").
				Lines(2).
				Value(&m.notes),
		))

	case progress.StepPartnerRequests:
		pending := m.wiz.PendingRequests()
		if len(pending) == 0 {
			m.form = nil
			return
		}
		m.current = pending[0]
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Your partner asked: %q", m.current.Title)).
				Description(m.current.Notes).
				Options(
					huh.NewOption("Accept it", actionAccept),
					huh.NewOption("Discuss together", actionDiscuss),
				).
				Value(&m.action),
		))

	case progress.StepConfirmation:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Finish planning this week?").
				Affirmative("Finish").
				Negative("Not yet").
				Value(&m.confirm),
		))
	}
}

func (m *PlanningModel) View() string {
	if m.err != nil {
		return docStyle.Render(dangerStyle.Render("Error: " + m.err.Error()))
	}
	if m.summary != nil {
		s := successStyle.Render(fmt.Sprintf("Week %s planned!", m.summary.WeekID)) + "\n\n"
		s += fmt.Sprintf("  Carried over:      %d\n", m.summary.Carried)
		s += fmt.Sprintf("  Added:             %d\n", m.summary.Added)
		s += fmt.Sprintf("  Accepted requests: %d\n", m.summary.Accepted)
		return docStyle.Render(s)
	}
	if m.quitting {
		return docStyle.Render(subtitleStyle.Render("Progress saved. Run 'tandem plan' to pick up where you left off."))
	}
	if m.form == nil {
		return ""
	}

	header := titleStyle.Render("Planning "+m.wiz.WeekID()) + "  " +
		subtitleStyle.Render(stepLabel(m.wiz.Step()))
	body := m.form.View()
	footer := m.help.View(m.keys)
	if m.notice != "" {
		footer = m.notice + "\n" + footer
	}
	return docStyle.Render(header + "\n\n" + body + "\n" + footer)
}

func stepLabel(step progress.PlanningStep) string {
	switch step {
	case progress.StepRollover:
		return "· last week's leftovers"
	case progress.StepAddTasks:
		return "· new tasks"
	case progress.StepPartnerRequests:
		return "· partner requests"
	case progress.StepConfirmation:
		return "· confirm"
	}
	return ""
}
