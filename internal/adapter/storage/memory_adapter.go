package storage

import (
	"context"
	"sync"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

// MemoryAdapter keeps the encoded blob in process memory. Nothing survives a
// restart; it backs tests and the "memory" backend.
type MemoryAdapter struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

func (m *MemoryAdapter) Load(ctx context.Context) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blob == nil {
		return domain.EmptyState(), nil
	}
	return decodeState(m.blob)
}

func (m *MemoryAdapter) Save(ctx context.Context, state domain.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.blob = data
	m.mu.Unlock()
	return nil
}

// Raw returns a copy of the stored blob, nil when nothing was saved.
func (m *MemoryAdapter) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blob == nil {
		return nil
	}
	out := make([]byte, len(m.blob))
	copy(out, m.blob)
	return out
}

// SetRaw replaces the stored blob verbatim.
func (m *MemoryAdapter) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), data...)
}
