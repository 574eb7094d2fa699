package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	_ "github.com/lib/pq"

	"github.com/tandemhq/tandem/internal/constants"
	"github.com/tandemhq/tandem/internal/logger"
	"github.com/tandemhq/tandem/internal/migration"
	"github.com/tandemhq/tandem/internal/storage"
	"github.com/tandemhq/tandem/migrations"
)

// Store is the shared-household backend: both partners point their clients at
// the same PostgreSQL database, which is how partner tasks and reviews become
// visible to each other.
type Store struct {
	connStr string
	db      *sql.DB
}

var _ storage.Provider = (*Store)(nil)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	// ErrEmbeddedCredentials rejects passwords inside the connection string;
	// they belong in the OS keyring, environment, or .pgpass.
	ErrEmbeddedCredentials = errors.New("connection string must not contain a password")
)

func New(connStr string) *Store {
	s := &Store{connStr: connStr}
	s.ensureSearchPath()
	return s
}

// ensureSearchPath pins search_path to the tandem schema unless the caller
// already set one.
func (s *Store) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}
	// DSN format: space-separated key=value pairs.
	for _, part := range strings.Fields(s.connStr) {
		if k, _, ok := strings.Cut(part, "="); ok && strings.EqualFold(k, "search_path") {
			return
		}
	}
	s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
}

// ValidateConnString checks that a connection string looks like PostgreSQL
// and carries no embedded password.
func ValidateConnString(connStr string) (bool, error) {
	isURL := strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
	if !isURL && !strings.Contains(connStr, "=") {
		return false, ErrInvalidConnectionString
	}
	if HasEmbeddedCredentials(connStr) {
		return false, ErrEmbeddedCredentials
	}
	return true, nil
}

// HasEmbeddedCredentials reports whether a URL-style connection string
// carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, hasPassword := u.User.Password()
	return hasPassword
}

func (s *Store) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if err := s.Open(); err != nil {
		return err
	}
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

// Open connects without validating the schema version. The migrate command
// uses it to bring an outdated database forward.
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}
	return s.open()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetConfigPath returns the connection string with any query parameters
// stripped, good enough for display in diagnostics.
func (s *Store) GetConfigPath() string {
	if u, err := url.Parse(s.connStr); err == nil && u.Scheme != "" {
		u.RawQuery = ""
		return u.String()
	}
	return s.connStr
}

func (s *Store) runMigrations() error {
	_, err := s.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// ApplyMigrations runs any pending schema migrations, reporting each applied
// migration through report. Returns how many were applied.
func (s *Store) ApplyMigrations(report func(string)) (int, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return 0, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).Apply(report)
}
