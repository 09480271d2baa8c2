package basketitem

import (
	"github.com/idp-labs/shop-svc/internal/service/models/product"
)

// BasketItem is a (user, product) pair pending purchase. Unique per pair;
// re-adding the same product merges by summing quantities.
type BasketItem struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`

	// Product is a read-time join for display, not a stored snapshot.
	Product *product.Product `json:"product,omitempty"`
}
