// Package session tracks the live navigation cursor of in-progress
// attempts. Cursors are ephemeral per-session state, not a source of truth:
// losing one abandons the attempt (it stays Pending), and the authoritative
// score is always recomputed from the answer ledger at finalization.
package session

import "sync"

// Cursor binds a navigation position to one attempt. Correct is a running
// display counter of correctly answered choice questions; it mirrors the
// ledger but never replaces it.
type Cursor struct {
	AttemptID uint
	Position  int
	Correct   int
}

type CursorStore interface {
	Open(attemptID uint) Cursor
	Get(attemptID uint) (Cursor, bool)
	Save(c Cursor)
	Close(attemptID uint)
}

type memoryCursorStore struct {
	mu      sync.RWMutex
	cursors map[uint]Cursor
}

func NewCursorStore() CursorStore {
	return &memoryCursorStore{cursors: map[uint]Cursor{}}
}

func (m *memoryCursorStore) Open(attemptID uint) Cursor {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := Cursor{AttemptID: attemptID, Position: 1}
	m.cursors[attemptID] = c
	return c
}

func (m *memoryCursorStore) Get(attemptID uint) (Cursor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cursors[attemptID]
	return c, ok
}

func (m *memoryCursorStore) Save(c Cursor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[c.AttemptID] = c
}

func (m *memoryCursorStore) Close(attemptID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cursors, attemptID)
}
