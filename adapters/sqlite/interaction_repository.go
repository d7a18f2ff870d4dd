package sqlite

import (
	"context"
	"os"
	"path/filepath"

	"askmydata/domain/core"
	"askmydata/domain/interaction"
	"askmydata/internal/errors"
	"askmydata/internal/migration"
	"askmydata/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InteractionRepositoryImpl implements InteractionLog on a local sqlite file.
// The pool is capped at one connection so writes are serialized.
type InteractionRepositoryImpl struct {
	db    *sqlx.DB
	clock core.Clock
}

// Open connects to the sqlite file at path, creating it and the chat table
// if absent.
func Open(ctx context.Context, path string, clock core.Clock) (*InteractionRepositoryImpl, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.DatabaseError("failed to create chat database directory", err)
		}
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, errors.DatabaseError("failed to open chat database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to ping chat database", err)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "chat database migration failed")
	}

	return NewInteractionRepository(db, clock), nil
}

// NewInteractionRepository wraps an already migrated connection
func NewInteractionRepository(db *sqlx.DB, clock core.Clock) *InteractionRepositoryImpl {
	if clock == nil {
		clock = core.SystemClock
	}
	return &InteractionRepositoryImpl{db: db, clock: clock}
}

var _ ports.InteractionLog = (*InteractionRepositoryImpl)(nil)

// Append inserts a record stamped with the current time
func (r *InteractionRepositoryImpl) Append(ctx context.Context, question, answer string) (*interaction.Record, error) {
	record := interaction.NewRecord(r.clock(), question, answer)

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO chat (timestamp, question, answer)
		VALUES (?, ?, ?)
	`, record.Timestamp, record.Question, record.Answer)
	if err != nil {
		return nil, errors.DatabaseError("failed to save interaction", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.DatabaseError("failed to read interaction id", err)
	}
	record.ID = id
	return &record, nil
}

// LoadAll returns every record oldest first
func (r *InteractionRepositoryImpl) LoadAll(ctx context.Context) ([]interaction.Record, error) {
	records := []interaction.Record{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, timestamp, question, answer
		FROM chat
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, errors.DatabaseError("failed to load interactions", err)
	}
	return records, nil
}

// Close closes the database
func (r *InteractionRepositoryImpl) Close() error {
	return r.db.Close()
}
