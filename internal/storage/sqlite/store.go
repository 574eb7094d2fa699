package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tandemhq/tandem/internal/migration"
	"github.com/tandemhq/tandem/internal/storage"
	"github.com/tandemhq/tandem/migrations"
)

// Store is the default local storage backend, a single SQLite file under the
// user's config directory.
type Store struct {
	path string
	db   *sql.DB
}

var _ storage.Provider = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.Open(); err != nil {
		return err
	}
	return s.validateSchemaVersion()
}

// Open connects without validating the schema version. The migrate command
// uses it to bring an outdated database forward.
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'tandem init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

func (s *Store) runMigrations() error {
	_, err := s.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

// ApplyMigrations runs any pending schema migrations, reporting each applied
// migration through report. Returns how many were applied.
func (s *Store) ApplyMigrations(report func(string)) (int, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return 0, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).Apply(report)
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}
