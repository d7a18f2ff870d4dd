package ports

import (
	"context"

	"askmydata/domain/core"
	"askmydata/domain/session"
)

// SessionRepository keeps the presentation state of each browser session
type SessionRepository interface {
	// Get returns the stored state, or a fresh state carrying id when none exists
	Get(ctx context.Context, id core.SessionID) (session.State, error)

	// Save replaces the stored state for state.ID
	Save(ctx context.Context, state session.State) error
}
