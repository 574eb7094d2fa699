package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	fs := fstest.MapFS{}
	for name, sql := range files {
		fs[name] = &fstest.MapFile{Data: []byte(sql)}
	}
	return fs
}

func TestApplyFreshDatabase(t *testing.T) {
	db := openDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_create_things.sql": `CREATE TABLE things (id TEXT PRIMARY KEY);`,
		"002_add_name.sql":      `ALTER TABLE things ADD COLUMN name TEXT;`,
	}))

	var logged []string
	count, err := runner.Apply(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("applied = %d, want 2", count)
	}
	if len(logged) != 2 || !strings.Contains(logged[0], "create_things") {
		t.Errorf("log = %v", logged)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	// Re-applying is a no-op.
	count, err = runner.Apply(nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("second apply = %d, want 0", count)
	}
}

func TestApplyPartialUpgrade(t *testing.T) {
	db := openDB(t)
	first := migrationFS(map[string]string{
		"001_create_things.sql": `CREATE TABLE things (id TEXT PRIMARY KEY);`,
	})
	if _, err := NewRunner(db, first).Apply(nil); err != nil {
		t.Fatal(err)
	}

	both := first
	both["002_add_name.sql"] = &fstest.MapFile{Data: []byte(`ALTER TABLE things ADD COLUMN name TEXT;`)}
	count, err := NewRunner(db, both).Apply(nil)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("applied = %d, want only the new migration", count)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := openDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_broken.sql": `CREATE SYNTAX ERROR;`,
	}))
	if _, err := runner.Apply(nil); err == nil {
		t.Fatal("broken migration applied without error")
	}
	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 0 {
		t.Errorf("failed migration advanced version to %d", version)
	}
}

func TestLoadRejectsBadFilenames(t *testing.T) {
	db := openDB(t)
	for name, files := range map[string]map[string]string{
		"no underscore":     {"001.sql": "SELECT 1;"},
		"bad version":       {"abc_x.sql": "SELECT 1;"},
		"duplicate version": {"001_a.sql": "SELECT 1;", "1_b.sql": "SELECT 1;"},
	} {
		if _, err := NewRunner(db, migrationFS(files)).Load(); err == nil {
			t.Errorf("%s: Load() succeeded, want error", name)
		}
	}
}

func TestValidateVersion(t *testing.T) {
	db := openDB(t)
	files := migrationFS(map[string]string{
		"001_create_things.sql": `CREATE TABLE things (id TEXT PRIMARY KEY);`,
	})

	// Behind: migrations exist but were never applied.
	if err := NewRunner(db, files).ValidateVersion(); err == nil {
		t.Error("behind schema passed validation")
	} else if !strings.Contains(err.Error(), "tandem migrate") {
		t.Errorf("behind error should point at the migrate command: %v", err)
	}

	if _, err := NewRunner(db, files).Apply(nil); err != nil {
		t.Fatal(err)
	}
	if err := NewRunner(db, files).ValidateVersion(); err != nil {
		t.Errorf("up-to-date schema failed validation: %v", err)
	}

	// Ahead: database written by a newer release.
	if err := NewRunner(db, fstest.MapFS{}).ValidateVersion(); err == nil {
		t.Error("ahead schema passed validation")
	}
}
