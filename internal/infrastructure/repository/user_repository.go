package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"userdesk/internal/domain/user"
	"userdesk/internal/infrastructure/idgen"
)

// DefaultLatency is the artificial delay applied before each operation
const DefaultLatency = 200 * time.Millisecond

type userRepository struct {
	slot    *RecordSlot
	newID   idgen.Func
	latency time.Duration
	logger  *slog.Logger

	// serializes read-modify-write cycles of this instance
	mu sync.Mutex
}

// Option configures the user repository
type Option func(*userRepository)

// WithLatency sets the simulated latency. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(r *userRepository) {
		r.latency = d
	}
}

// WithIDFunc replaces the identifier generator
func WithIDFunc(f idgen.Func) Option {
	return func(r *userRepository) {
		r.newID = f
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *userRepository) {
		r.logger = l
	}
}

// NewUserRepository creates a user repository persisting to slot.
// Every operation seeds an empty slot before touching it.
//
// The stored sequence is kept in creation order and GetAll reverses it, so
// callers always see the most recently created user first.
func NewUserRepository(slot *RecordSlot, opts ...Option) user.Repository {
	r := &userRepository{
		slot:    slot,
		newID:   idgen.New,
		latency: DefaultLatency,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *userRepository) GetAll(ctx context.Context) ([]user.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := EnsureSeeded(ctx, r.slot, r.newID)
	if err != nil {
		return nil, err
	}

	out := make([]user.User, len(users))
	for i, u := range users {
		out[len(users)-1-i] = u
	}
	return out, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := EnsureSeeded(ctx, r.slot, r.newID)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Create(ctx context.Context, patch user.Patch) (user.User, error) {
	if err := r.wait(ctx); err != nil {
		return user.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := EnsureSeeded(ctx, r.slot, r.newID)
	if err != nil {
		return user.User{}, err
	}
	u := user.NewFromPatch(r.newID(), patch)
	users = append(users, u)
	if err := r.slot.Write(ctx, users); err != nil {
		return user.User{}, err
	}

	r.logger.Debug("user created", "id", u.ID, "count", len(users))
	return u.Clone(), nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch user.Patch) (*user.User, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := EnsureSeeded(ctx, r.slot, r.newID)
	if err != nil {
		return nil, err
	}
	i := indexOf(users, id)
	if i == -1 {
		return nil, nil
	}

	users[i] = patch.Apply(users[i])
	if err := r.slot.Write(ctx, users); err != nil {
		return nil, err
	}

	r.logger.Debug("user updated", "id", id)
	updated := users[i].Clone()
	return &updated, nil
}

func (r *userRepository) Remove(ctx context.Context, id string) (bool, error) {
	if err := r.wait(ctx); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := EnsureSeeded(ctx, r.slot, r.newID)
	if err != nil {
		return false, err
	}
	filtered := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			filtered = append(filtered, u)
		}
	}
	if len(filtered) == len(users) {
		return false, nil
	}

	if err := r.slot.Write(ctx, filtered); err != nil {
		return false, err
	}

	r.logger.Debug("user removed", "id", id, "count", len(filtered))
	return true, nil
}

func (r *userRepository) Replace(ctx context.Context, users []user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.slot.Write(ctx, users); err != nil {
		return err
	}

	r.logger.Debug("users replaced", "count", len(users))
	return nil
}

// wait blocks for the configured latency or until ctx is done
func (r *userRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(r.latency)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func indexOf(users []user.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
