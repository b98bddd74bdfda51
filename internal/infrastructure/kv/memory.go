package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory.
//
// A positive quota caps the total size of keys and values, the way browser
// storage rejects writes past its capacity.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	quota int64
	used  int64
}

// NewMemoryStore creates an empty MemoryStore. quota <= 0 means unlimited.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
		quota: quota,
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used - m.sizeOf(key) + int64(len(key)+len(value))
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}

	m.items[key] = append([]byte(nil), value...)
	m.used = used
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.used -= m.sizeOf(key)
	delete(m.items, key)
	return nil
}

// Close is a no-op; the contents stay readable
func (m *MemoryStore) Close() error {
	return nil
}

// sizeOf must be called with mu held
func (m *MemoryStore) sizeOf(key string) int64 {
	v, ok := m.items[key]
	if !ok {
		return 0
	}
	return int64(len(key) + len(v))
}
