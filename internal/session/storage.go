package session

import (
	"context"
	"sync"
	"time"

	"askmydata/domain/core"
	"askmydata/domain/session"
	"askmydata/internal"
	"askmydata/ports"
)

type storedState struct {
	state    session.State
	lastSeen time.Time
}

// MemoryStore keeps session states in process memory. The mutex only guards
// the map; each state is replaced wholesale on Save. Sessions untouched for
// longer than the idle window are dropped by CleanupOldSessions.
type MemoryStore struct {
	mu     sync.Mutex
	states map[core.SessionID]storedState
	clock  core.Clock
}

// NewMemoryStore creates an empty store on the wall clock
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(core.SystemClock)
}

// NewMemoryStoreWithClock creates an empty store that ages sessions by clock
func NewMemoryStoreWithClock(clock core.Clock) *MemoryStore {
	return &MemoryStore{
		states: make(map[core.SessionID]storedState),
		clock:  clock,
	}
}

var _ ports.SessionRepository = (*MemoryStore)(nil)

// Get returns the state for id, or a fresh one. Reading a stored state
// counts as activity.
func (s *MemoryStore) Get(_ context.Context, id core.SessionID) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok {
		st.lastSeen = s.clock()
		s.states[id] = st
		return st.state, nil
	}
	return session.NewState(id), nil
}

// Save stores state under its ID
func (s *MemoryStore) Save(_ context.Context, state session.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ID] = storedState{state: state, lastSeen: s.clock()}
	return nil
}

// Len returns the number of stored sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// CleanupOldSessions removes sessions idle for longer than maxAge and
// returns how many were removed
func (s *MemoryStore) CleanupOldSessions(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock().Add(-maxAge)
	removed := 0
	for id, st := range s.states {
		if st.lastSeen.Before(cutoff) {
			delete(s.states, id)
			removed++
		}
	}
	return removed
}

// RunCleanup calls CleanupOldSessions every interval until ctx is done
func (s *MemoryStore) RunCleanup(ctx context.Context, interval, maxAge time.Duration, logger *internal.Logger) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.CleanupOldSessions(maxAge); removed > 0 {
				logger.Info("Cleaned up %d idle sessions", removed)
			}
		}
	}
}
