package iorderitem

import (
	"context"

	"github.com/idp-labs/shop-svc/internal/service/models/orderitem"
)

// PostgresRepository is an interface for the order item postgres repository.
type PostgresRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	ListByOrders(ctx context.Context, orderIDs []int64) ([]orderitem.OrderItem, error)
}
