package ports

import (
	"context"

	"askmydata/domain/interaction"
)

// InteractionLog is the append-only store of question/answer records
type InteractionLog interface {
	// Append stores a new record stamped with the current time
	Append(ctx context.Context, question, answer string) (*interaction.Record, error)

	// LoadAll returns every record in insertion order
	LoadAll(ctx context.Context) ([]interaction.Record, error)

	// Close releases the underlying connection
	Close() error
}
