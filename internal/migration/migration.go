// Package migration applies embedded SQL schema migrations and tracks the
// applied version in a schema_version table.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
)

// Migration is one numbered schema change.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Runner applies migrations from a filesystem of NNN_name.sql files.
type Runner struct {
	db *sql.DB
	fs fs.FS
}

func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{db: db, fs: migrationFS}
}

func (r *Runner) ensureVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// CurrentVersion returns the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	if err := r.ensureVersionTable(); err != nil {
		return 0, fmt.Errorf("ensuring schema_version table: %w", err)
	}
	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// Load parses every migration file, sorted ascending by version.
func (r *Runner) Load() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		prefix, name, ok := strings.Cut(file.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: want NNN_name.sql", file.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version < 1 {
			return nil, fmt.Errorf("migration %s: bad version prefix", file.Name())
		}
		content, err := fs.ReadFile(r.fs, file.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", file.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(name, ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}
	return migrations, nil
}

// Apply runs every pending migration in its own transaction, updating the
// schema version alongside each one. Returns the number applied.
func (r *Runner) Apply(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}

	current, err := r.CurrentVersion()
	if err != nil {
		return 0, err
	}
	migrations, err := r.Load()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, fmt.Errorf("database schema version %d is newer than supported version %d; upgrade the application", current, latest)
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		logFn(fmt.Sprintf("Applying migration %d: %s", m.Version, m.Name))
		tx, err := r.db.Begin()
		if err != nil {
			return applied, fmt.Errorf("beginning migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("applying migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("clearing schema version: %w", err)
		}
		// Version is an integer under our control; inlining it keeps the
		// statement placeholder-free and valid for both drivers.
		if _, err := tx.Exec(fmt.Sprintf("INSERT INTO schema_version (version) VALUES (%d)", m.Version)); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("recording schema version %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("committing migration %d: %w", m.Version, err)
		}
		applied++
	}
	return applied, nil
}

// ValidateVersion fails when the database schema is behind or ahead of the
// embedded migrations.
func (r *Runner) ValidateVersion() error {
	current, err := r.CurrentVersion()
	if err != nil {
		return err
	}
	migrations, err := r.Load()
	if err != nil {
		return err
	}
	latest := 0
	if len(migrations) > 0 {
		latest = migrations[len(migrations)-1].Version
	}
	switch {
	case current < latest:
		return fmt.Errorf("database schema version %d is behind version %d, run 'tandem migrate'", current, latest)
	case current > latest:
		return fmt.Errorf("database schema version %d is newer than supported version %d; upgrade the application", current, latest)
	}
	return nil
}
