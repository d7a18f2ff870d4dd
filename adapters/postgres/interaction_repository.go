package postgres

import (
	"context"

	"askmydata/domain/core"
	"askmydata/domain/interaction"
	"askmydata/internal/errors"
	"askmydata/internal/migration"
	"askmydata/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// InteractionRepositoryImpl implements InteractionLog for PostgreSQL
type InteractionRepositoryImpl struct {
	db    *sqlx.DB
	clock core.Clock
}

// Open connects to url and runs the chat table migration
func Open(ctx context.Context, url string, clock core.Clock) (*InteractionRepositoryImpl, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(1)

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}

	return NewInteractionRepository(db, clock), nil
}

// NewInteractionRepository creates a new PostgreSQL interaction repository
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

	err := r.db.GetContext(ctx, &record.ID, `
		INSERT INTO chat (timestamp, question, answer)
		VALUES ($1, $2, $3)
		RETURNING id
	`, record.Timestamp, record.Question, record.Answer)
	if err != nil {
		return nil, errors.DatabaseError("failed to save interaction", err)
	}
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
