// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used in tests and when no database path is configured.
//
// Characteristics:
//   - Holds the single high-score scalar.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
)

// HighScoreKey is the name of the persisted scalar.
const HighScoreKey = "high score"

// ErrNegativeScore is returned when asked to persist a score below zero.
var ErrNegativeScore = errors.New("store: negative score")

// Store is the persistence boundary: one named integer, the high score.
// Implementations may be backed by memory (this file) or SQLite.
type Store interface {
	// HighScore returns the stored value, or 0 if none was ever saved.
	HighScore(ctx context.Context) (int, error)

	// SaveHighScore stores score if it beats the stored value.
	// It never lowers the stored value.
	SaveHighScore(ctx context.Context, score int) error
}

// memory is an in-memory Store implementation.
type memory struct {
	mu    sync.RWMutex // guards score
	score int
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) HighScore(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.score, nil
}

func (m *memory) SaveHighScore(ctx context.Context, score int) error {
	if score < 0 {
		return ErrNegativeScore
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if score > m.score {
		m.score = score
	}
	return nil
}
