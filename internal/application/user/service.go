package user

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	domain "userdesk/internal/domain/user"
)

// Source tells where a loaded list came from
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Fetcher retrieves the upstream user list
type Fetcher interface {
	FetchUsers(ctx context.Context) ([]domain.User, error)
}

// Service defines the user directory operations offered to delivery layers
type Service interface {
	// Load prefers the remote directory and falls back to the local store
	Load(ctx context.Context) ([]domain.User, Source, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, patch domain.Patch) (domain.User, error)
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	CreateFromForm(ctx context.Context, form Form) (domain.User, error)
	UpdateFromForm(ctx context.Context, id string, form Form) (*domain.User, error)
}

type service struct {
	repo   domain.Repository
	remote Fetcher
	logger *slog.Logger
}

// NewService creates a new user service. remote may be nil, in which case
// Load always reads the local store.
func NewService(repo domain.Repository, remote Fetcher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &service{repo: repo, remote: remote, logger: logger}
}

func (s *service) Load(ctx context.Context) ([]domain.User, Source, error) {
	if s.remote != nil {
		users, err := s.remote.FetchUsers(ctx)
		if err == nil {
			// persist so later CRUD calls operate on the fetched list
			if err := s.repo.Replace(ctx, users); err != nil {
				s.logger.Warn("failed to store remote users, continuing in memory", "error", err)
			}
			s.logger.Info("loaded users from remote directory", "count", len(users))
			return users, SourceRemote, nil
		}
		s.logger.Warn("remote directory unavailable, falling back to local store", "error", err)
	}

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, SourceLocal, err
	}
	s.logger.Info("loaded users from local store", "count", len(users))
	return users, SourceLocal, nil
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, patch domain.Patch) (domain.User, error) {
	return s.repo.Create(ctx, patch)
}

func (s *service) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	return s.repo.Update(ctx, id, patch)
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Remove(ctx, id)
}

func (s *service) CreateFromForm(ctx context.Context, form Form) (domain.User, error) {
	patch, err := form.Patch()
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.Create(ctx, patch)
}

func (s *service) UpdateFromForm(ctx context.Context, id string, form Form) (*domain.User, error) {
	patch, err := form.Patch()
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

// Form holds raw text input for a user, as typed into a create/edit form
type Form struct {
	Username string
	Email    string
	State    string
	Country  string
	Age      string
}

// Patch trims every field and parses the age, which becomes 0 when it is
// not a number. Username and email are required.
func (f Form) Patch() (domain.Patch, error) {
	username := strings.TrimSpace(f.Username)
	email := strings.TrimSpace(f.Email)
	if username == "" || email == "" {
		return domain.Patch{}, domain.ErrInvalidForm
	}

	return domain.Patch{
		Username: domain.StringPtr(username),
		Email:    domain.StringPtr(email),
		State:    domain.StringPtr(strings.TrimSpace(f.State)),
		Country:  domain.StringPtr(strings.TrimSpace(f.Country)),
		Age:      domain.IntPtr(parseAge(f.Age)),
	}, nil
}

func parseAge(s string) int {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return domain.DefaultAge
	}
	return domain.AgeFromFloat(n)
}
