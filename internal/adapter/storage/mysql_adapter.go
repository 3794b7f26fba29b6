package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

const createStateTable = `
	CREATE TABLE IF NOT EXISTS pos_state (
		state_key  VARCHAR(191) NOT NULL PRIMARY KEY,
		payload    LONGBLOB NOT NULL,
		version    BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

// MySQLAdapter keeps the journal blob in a single row of pos_state.
type MySQLAdapter struct {
	db  *sql.DB
	key string
}

func NewMySQLAdapter(db *sql.DB, key string) *MySQLAdapter {
	if key == "" {
		key = DefaultStateKey
	}
	return &MySQLAdapter{db: db, key: key}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createStateTable); err != nil {
		return fmt.Errorf("create pos_state: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Load(ctx context.Context) (domain.State, error) {
	var payload []byte
	err := m.db.QueryRowContext(ctx, `
		SELECT payload FROM pos_state WHERE state_key = ?`, m.key,
	).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.EmptyState(), nil
	}
	if err != nil {
		return domain.EmptyState(), fmt.Errorf("query state: %w", err)
	}

	return decodeState(payload)
}

func (m *MySQLAdapter) Save(ctx context.Context, state domain.State) error {
	payload, err := encodeState(state)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO pos_state (state_key, payload, version)
		VALUES (?, ?, 1)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), version = version + 1`,
		m.key, payload,
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// Version reports how many times the row has been written; 0 when absent.
func (m *MySQLAdapter) Version(ctx context.Context) (int64, error) {
	var version int64
	err := m.db.QueryRowContext(ctx, `
		SELECT version FROM pos_state WHERE state_key = ?`, m.key,
	).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query state version: %w", err)
	}
	return version, nil
}
