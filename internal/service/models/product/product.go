package product

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Stock is mutated only by the order
// workflow: decremented on creation, restored on cancellation.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}
