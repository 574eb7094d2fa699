package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tandemhq/tandem/internal/models"
	"github.com/tandemhq/tandem/internal/progress"
	"github.com/tandemhq/tandem/internal/storage/sqlite"
	"github.com/tandemhq/tandem/internal/wizard"
)

func newPlanningModel(t *testing.T) *PlanningModel {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tandem.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	wiz, err := wizard.NewPlanning(store,
		progress.NewPlanningStore(store, "alice"),
		models.Session{UserID: "alice"}, "2026-W10")
	if err != nil {
		t.Fatal(err)
	}
	return NewPlanningModel(wiz)
}

func TestAddTasksWhitespaceTitleStaysInWizard(t *testing.T) {
	m := newPlanningModel(t)
	if m.wiz.Step() != progress.StepAddTasks {
		t.Fatalf("step = %q, want %q", m.wiz.Step(), progress.StepAddTasks)
	}

	m.title = "   \t"
	if done := m.apply(); done {
		t.Fatal("whitespace-only title ended the wizard")
	}
	if m.err != nil {
		t.Fatalf("whitespace-only title treated as fatal: %v", m.err)
	}
	if m.notice == "" {
		t.Error("no correction notice shown")
	}
	if m.wiz.Step() != progress.StepAddTasks {
		t.Errorf("step = %q, want to stay on %q", m.wiz.Step(), progress.StepAddTasks)
	}
	if m.form == nil {
		t.Error("form not rebuilt for another attempt")
	}
}

func TestAddTasksSubmitAndFinish(t *testing.T) {
	m := newPlanningModel(t)

	m.title = "plan date night"
	if done := m.apply(); done || m.err != nil {
		t.Fatalf("submit ended the wizard (err=%v)", m.err)
	}
	if !strings.Contains(m.notice, "plan date night") {
		t.Errorf("notice = %q, want it to name the added task", m.notice)
	}
	if m.wiz.Step() != progress.StepAddTasks {
		t.Errorf("step = %q, want to keep collecting tasks", m.wiz.Step())
	}

	// An empty title moves on.
	if done := m.apply(); done || m.err != nil {
		t.Fatalf("finish ended the wizard (err=%v)", m.err)
	}
	if m.wiz.Step() != progress.StepConfirmation {
		t.Errorf("step = %q, want %q", m.wiz.Step(), progress.StepConfirmation)
	}
}
