package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"userdesk/internal/domain/user"
	"userdesk/internal/infrastructure/kv"
)

// DefaultSlotKey is the key the user sequence is persisted under
const DefaultSlotKey = "dummy_users_v1"

// RecordSlot reads and writes the full user sequence as one JSON array
// stored under a single key.
type RecordSlot struct {
	store  kv.Store
	key    string
	logger *slog.Logger
}

// NewRecordSlot creates a RecordSlot on top of store. An empty key selects
// DefaultSlotKey and a nil logger discards output.
func NewRecordSlot(store kv.Store, key string, logger *slog.Logger) *RecordSlot {
	if key == "" {
		key = DefaultSlotKey
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RecordSlot{store: store, key: key, logger: logger}
}

// Key returns the slot key
func (s *RecordSlot) Key() string {
	return s.key
}

// Read loads the persisted sequence. A missing key, a backend error or a
// malformed payload all read as an empty sequence. Records without an id
// and repeated ids are skipped.
func (s *RecordSlot) Read(ctx context.Context) []user.User {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []user.User{}
	}
	if err != nil {
		s.logger.Warn("slot read failed, treating as empty", "key", s.key, "error", err)
		return []user.User{}
	}

	var users []user.User
	if err := json.Unmarshal(raw, &users); err != nil {
		s.logger.Warn("discarding malformed slot payload", "key", s.key, "bytes", len(raw), "error", err)
		return []user.User{}
	}
	return s.dropInvalid(users)
}

// dropInvalid removes records without an id (such as null elements) and
// repeated ids, keeping the first occurrence.
func (s *RecordSlot) dropInvalid(users []user.User) []user.User {
	out := make([]user.User, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	if dropped := len(users) - len(out); dropped > 0 {
		s.logger.Warn("dropped invalid slot records", "key", s.key, "dropped", dropped)
	}
	return out
}

// Write replaces the persisted sequence with users
func (s *RecordSlot) Write(ctx context.Context, users []user.User) error {
	if users == nil {
		users = []user.User{}
	}

	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", user.ErrStorageWrite, err)
	}

	if err := s.store.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%w: slot %q: %w", user.ErrStorageWrite, s.key, err)
	}
	return nil
}

// Clear removes the slot so the next read starts from an empty store
func (s *RecordSlot) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, s.key)
}
