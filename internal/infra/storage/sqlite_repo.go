package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Qenawi/idle-mining/internal/domain/mine"
)

// SQLiteSaveRepository implements SaveRepository for SQLite. One row per slot.
type SQLiteSaveRepository struct {
	db   *sql.DB
	slot string
}

func NewSQLiteSaveRepository(db *sql.DB, slot string) *SQLiteSaveRepository {
	if slot == "" {
		slot = DefaultSlot
	}
	return &SQLiteSaveRepository{db: db, slot: slot}
}

func (r *SQLiteSaveRepository) Load(ctx context.Context) (*SavedGame, error) {
	query := `SELECT payload, saved_at_ms FROM saves WHERE slot = ?`
	var payload string
	var savedAt int64
	err := r.db.QueryRowContext(ctx, query, r.slot).Scan(&payload, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSave
		}
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return decodeSaved([]byte(payload), savedAt)
}

func (r *SQLiteSaveRepository) Save(ctx context.Context, st *mine.State, at time.Time) error {
	payload, err := encodeState(st)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO saves (slot, payload, schema_version, saved_at_ms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			payload=excluded.payload,
			schema_version=excluded.schema_version,
			saved_at_ms=excluded.saved_at_ms
	`
	_, err = r.db.ExecContext(ctx, query, r.slot, string(payload), mine.SchemaVersion, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// Import stores a raw payload of any historical shape. It is migrated on the next Load.
func (r *SQLiteSaveRepository) Import(ctx context.Context, payload []byte, savedAt time.Time) error {
	version, err := DetectVersion(payload)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO saves (slot, payload, schema_version, saved_at_ms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			payload=excluded.payload,
			schema_version=excluded.schema_version,
			saved_at_ms=excluded.saved_at_ms
	`
	_, err = r.db.ExecContext(ctx, query, r.slot, string(payload), version, savedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to import save: %w", err)
	}
	return nil
}

func (r *SQLiteSaveRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM saves WHERE slot = ?`
	if _, err := r.db.ExecContext(ctx, query, r.slot); err != nil {
		return fmt.Errorf("failed to clear save: %w", err)
	}
	return nil
}
