package iproduct

import (
	"context"

	"github.com/idp-labs/shop-svc/internal/service/models/product"
)

// PostgresRepository is an interface for the product postgres repository.
//
// ReserveStock and ReleaseStock form the inventory ledger. They are only
// ever called inside a unit of work; the ledger holds no locking of its own
// beyond the conditional update.
type PostgresRepository interface {
	Insert(ctx context.Context, p product.Product) (product.Product, error)
	GetByID(ctx context.Context, id int64) (*product.Product, error)
	List(ctx context.Context) ([]product.Product, error)

	// ReserveStock decrements stock by qty only if enough stock remains.
	// Returns errs.ErrInsufficientStock when the conditional update matches
	// no row, so stock can never go negative even under concurrent orders.
	ReserveStock(ctx context.Context, productID int64, qty int) error

	// ReleaseStock is unconditionally additive. A missing product affects
	// zero rows and is not an error: restoring is best-effort.
	ReleaseStock(ctx context.Context, productID int64, qty int) error
}
