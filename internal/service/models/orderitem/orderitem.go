package orderitem

import (
	"github.com/shopspring/decimal"
)

// OrderItem is a frozen line item. PriceAtPurchase is a snapshot of the
// product price at order creation and is never recomputed.
type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"orderId"`
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}
