package storage

import "strings"

// IsPostgres reports whether the config value names a PostgreSQL database
// rather than a SQLite file path.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}
