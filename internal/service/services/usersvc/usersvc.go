package usersvc

import (
	"context"
	"errors"

	iuser "github.com/idp-labs/shop-svc/internal/dal/interfaces/user"
	"github.com/idp-labs/shop-svc/internal/dal/postgres"
	userrepo "github.com/idp-labs/shop-svc/internal/dal/repositories/user/postgres"
	"github.com/idp-labs/shop-svc/internal/service/errs"
	"github.com/idp-labs/shop-svc/internal/service/models/user"
)

// UserService maintains the local shadow records of externally managed
// identities.
type UserService struct {
	userRepo iuser.PostgresRepository
}

type option func(*UserService)

// MustNewUserService creates a new UserService.
func MustNewUserService(opts ...option) *UserService {
	s := &UserService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.userRepo == nil {
		panic("usersvc: no storage configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the UserService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *UserService) {
		s.userRepo = userrepo.NewPostgresUserRepository(pgClient.Pool())
	}
}

// WithRepository sets the user repository directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo iuser.PostgresRepository) option {
	return func(s *UserService) {
		s.userRepo = repo
	}
}

// EnsureProfile provisions a shadow record for an authenticated identity
// that has no local row yet. Idempotent, called on every request.
func (s *UserService) EnsureProfile(ctx context.Context, userID int64) error {
	return s.userRepo.EnsureShadow(ctx, user.User{
		ID:    userID,
		Name:  user.PlaceholderName,
		Email: user.PlaceholderEmail(userID),
	})
}

// Register stores the local row for a user the auth service just created.
// The id comes from the auth service, never from a local sequence.
func (s *UserService) Register(ctx context.Context, id int64, name, email string) (user.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return user.User{}, err
	}
	if existing != nil {
		return user.User{}, errs.ErrEmailTaken
	}

	return s.userRepo.Insert(ctx, user.User{
		ID:    id,
		Name:  name,
		Email: email,
	})
}

// CheckEmailFree reports errs.ErrEmailTaken when a local row already uses
// the email, to avoid registering with the auth service first.
func (s *UserService) CheckEmailFree(ctx context.Context, email string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return errs.ErrEmailTaken
}

// Me returns the local record of the authenticated user.
func (s *UserService) Me(ctx context.Context, userID int64) (*user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// List returns all local user records.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []user.User{}
	}

	return users, nil
}
