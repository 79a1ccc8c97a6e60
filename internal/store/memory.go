// internal/store/memory.go
//
// In-memory session store.
// Responsibilities:
//   - Hold one *game.Session per id, keyed by a random UUID.
//   - Serialise every read and mutation of a session behind its own mutex,
//     so HTTP handlers and the model runner never race on the same game.
//
// Characteristics:
//   - The id map is guarded by an RWMutex; sessions have their own lock.
//   - View returns a deep copy; callers never hold a live *game.Session.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/robalobadob/decrypto/internal/game"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("store: session not found")

// Store holds game sessions.
type Store interface {
	// Create registers s and returns its new id.
	Create(ctx context.Context, s *game.Session) (string, error)

	// Update runs fn with exclusive access to the session. fn's error is
	// returned unchanged.
	Update(ctx context.Context, id string, fn func(*game.Session) error) error

	// View returns a snapshot of the session.
	View(ctx context.Context, id string) (game.Session, error)

	// Delete drops the session. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int
}

type entry struct {
	mu sync.Mutex
	s  *game.Session
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex // guards sessions map
	sessions map[string]*entry
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) Create(ctx context.Context, s *game.Session) (string, error) {
	if s == nil {
		return "", errors.New("store: nil session")
	}
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &entry{s: s}
	return id, nil
}

func (m *memory) get(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.sessions[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session) error) error {
	e, err := m.get(id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

func (m *memory) View(ctx context.Context, id string) (game.Session, error) {
	e, err := m.get(id)
	if err != nil {
		return game.Session{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.Snapshot(), nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
