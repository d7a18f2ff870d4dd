package migration

import (
	"context"

	"askmydata/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the interaction log schema for sqlite or postgres,
// chosen from the sqlx driver name.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run creates the chat table if it does not exist yet
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createChatTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create chat table")
	}
	return nil
}

func (r *MigrationRunner) createChatTable(ctx context.Context, db *sqlx.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS chat (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT,
			question TEXT,
			answer TEXT
		)
	`
	if db.DriverName() == "postgres" {
		query = `
		CREATE TABLE IF NOT EXISTS chat (
			id BIGSERIAL PRIMARY KEY,
			timestamp TEXT,
			question TEXT,
			answer TEXT
		)
	`
	}
	_, err := db.ExecContext(ctx, query)
	return err
}
