package order

import (
	"time"

	"github.com/idp-labs/shop-svc/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// Status of an order. Cancellation never deletes the row, it only flips the
// status and reverses the inventory effects.
type Status string

const (
	StatusCreated   Status = "created"
	StatusCancelled Status = "cancelled"
)

// Order is a priced, stock-committed conversion of a basket. Total is
// computed once at creation time and immutable thereafter.
type Order struct {
	ID        int64                 `json:"id"`
	UserID    int64                 `json:"userId"`
	OrderDate time.Time             `json:"orderDate"`
	Total     decimal.Decimal       `json:"total"`
	Status    Status                `json:"status"`
	Items     []orderitem.OrderItem `json:"items"`
}
