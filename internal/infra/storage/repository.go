// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
)

// ErrNoSave is returned by Load when the slot is empty.
var ErrNoSave = errors.New("no saved game")

// DefaultSlot is the single save slot used by the server.
const DefaultSlot = "default"

// SavedGame is a persisted economy plus the wall time it was written.
type SavedGame struct {
	State           *mine.State `json:"gameState"`
	LastSavedMillis int64       `json:"lastSavedTimestamp"`
}

// SavedAt returns LastSavedMillis as a time.
func (g SavedGame) SavedAt() time.Time {
	return time.UnixMilli(g.LastSavedMillis)
}

// SaveRepository defines the interface for economy persistence.
// The engine uses this interface; the implementation is in infra.
type SaveRepository interface {
	// Load returns the saved game, migrated to the current schema, or ErrNoSave.
	Load(ctx context.Context) (*SavedGame, error)

	// Save overwrites the slot with st stamped at at.
	Save(ctx context.Context, st *mine.State, at time.Time) error

	// Clear removes the saved game.
	Clear(ctx context.Context) error
}

// MemoryRepository keeps the save in process. Used by tests and the offline simulator.
type MemoryRepository struct {
	mu      sync.Mutex
	payload []byte
	savedAt int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(ctx context.Context) (*SavedGame, error) {
	r.mu.Lock()
	payload, savedAt := r.payload, r.savedAt
	r.mu.Unlock()

	if payload == nil {
		return nil, ErrNoSave
	}
	return decodeSaved(payload, savedAt)
}

func (r *MemoryRepository) Save(ctx context.Context, st *mine.State, at time.Time) error {
	payload, err := encodeState(st)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.payload = payload
	r.savedAt = at.UnixMilli()
	r.mu.Unlock()
	return nil
}

// Put stores a raw payload as if it had been saved at savedAt. Legacy saves enter this way.
func (r *MemoryRepository) Put(payload []byte, savedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payload = append([]byte(nil), payload...)
	r.savedAt = savedAt.UnixMilli()
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payload = nil
	r.savedAt = 0
	return nil
}
