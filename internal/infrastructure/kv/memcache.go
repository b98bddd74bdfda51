package kv

import (
	"context"
	"errors"

	mc "github.com/bradfitz/gomemcache/memcache"
)

// DefaultMemcacheAddr is used when no server address is configured
const DefaultMemcacheAddr = "127.0.0.1:11211"

// MemcacheStore keeps values in a memcached cluster.
// Items never expire, but memcached may still evict them under pressure.
type MemcacheStore struct {
	client *mc.Client
}

// NewMemcacheStore creates a client for the given servers
func NewMemcacheStore(addrs []string) *MemcacheStore {
	if len(addrs) == 0 {
		addrs = []string{DefaultMemcacheAddr}
	}
	return &MemcacheStore{client: mc.New(addrs...)}
}

func (m *MemcacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	item, err := m.client.Get(key)
	if errors.Is(err, mc.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (m *MemcacheStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return m.client.Set(&mc.Item{Key: key, Value: value})
}

func (m *MemcacheStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := m.client.Delete(key)
	if errors.Is(err, mc.ErrCacheMiss) {
		return nil
	}
	return err
}

// Close is a no-op; the client holds only idle connections
func (m *MemcacheStore) Close() error {
	return nil
}
