package ibasketitem

import (
	"context"

	"github.com/idp-labs/shop-svc/internal/service/models/basketitem"
)

// PostgresRepository is an interface for the basket item postgres repository.
type PostgresRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]basketitem.BasketItem, error)
	GetByID(ctx context.Context, id int64) (*basketitem.BasketItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID int64) (*basketitem.BasketItem, error)
	Insert(ctx context.Context, item basketitem.BasketItem) (basketitem.BasketItem, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}
