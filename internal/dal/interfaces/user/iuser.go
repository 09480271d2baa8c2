package iuser

import (
	"context"

	"github.com/idp-labs/shop-svc/internal/service/models/user"
)

// PostgresRepository is an interface for the user postgres repository.
type PostgresRepository interface {
	Insert(ctx context.Context, u user.User) (user.User, error)
	EnsureShadow(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}
