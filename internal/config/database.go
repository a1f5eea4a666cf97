// internal/config/database.go
package config

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// DSN returns a libpq keyword/value connection string. DATABASE_URL wins over
// the individual DB_* settings when both are present.
func (d *DatabaseConfig) DSN() (string, error) {
	if d.URL != "" {
		if !strings.HasPrefix(d.URL, "postgres://") && !strings.HasPrefix(d.URL, "postgresql://") {
			return d.URL, nil
		}
		dsn, err := pq.ParseURL(d.URL)
		if err != nil {
			return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		return dsn, nil
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	), nil
}
