// Package converters translates between service models and the JSON wire
// format. Monetary values are always rendered with exactly two fractional
// digits; identifiers are integers; timestamps are ISO-8601 with timezone.
package converters

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/idp-labs/shop-svc/internal/service/models/basketitem"
	"github.com/idp-labs/shop-svc/internal/service/models/order"
	"github.com/idp-labs/shop-svc/internal/service/models/orderitem"
	"github.com/idp-labs/shop-svc/internal/service/models/product"
	"github.com/idp-labs/shop-svc/internal/service/models/user"
	"github.com/shopspring/decimal"
)

type UserOut struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductOut struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
}

type BasketItemOut struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	ProductID int64       `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   *ProductOut `json:"product,omitempty"`
}

type OrderItemOut struct {
	ID              int64       `json:"id"`
	OrderID         int64       `json:"order_id"`
	ProductID       int64       `json:"product_id"`
	Quantity        int         `json:"quantity"`
	PriceAtPurchase json.Number `json:"price_at_purchase"`
}

type OrderOut struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	OrderDate time.Time      `json:"order_date"`
	Total     json.Number    `json:"total"`
	Status    string         `json:"status"`
	Items     []OrderItemOut `json:"items"`
}

// money renders a decimal with exactly two fractional digits as a bare JSON
// number.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func ToUserOut(u user.User) UserOut {
	return UserOut{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToUsersOut(users []user.User) []UserOut {
	out := make([]UserOut, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserOut(u))
	}
	return out
}

func ToProductOut(p product.Product) ProductOut {
	return ProductOut{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Stock:       p.Stock,
	}
}

func ToProductsOut(products []product.Product) []ProductOut {
	out := make([]ProductOut, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductOut(p))
	}
	return out
}

func ToBasketItemOut(item basketitem.BasketItem) BasketItemOut {
	out := BasketItemOut{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		p := ToProductOut(*item.Product)
		p.ID = item.ProductID
		out.Product = &p
	}
	return out
}

func ToBasketItemsOut(items []basketitem.BasketItem) []BasketItemOut {
	out := make([]BasketItemOut, 0, len(items))
	for _, item := range items {
		out = append(out, ToBasketItemOut(item))
	}
	return out
}

func ToOrderItemOut(item orderitem.OrderItem) OrderItemOut {
	return OrderItemOut{
		ID:              item.ID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		PriceAtPurchase: money(item.PriceAtPurchase),
	}
}

func ToOrderOut(o order.Order) OrderOut {
	items := make([]OrderItemOut, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ToOrderItemOut(item))
	}
	return OrderOut{
		ID:        o.ID,
		UserID:    o.UserID,
		OrderDate: o.OrderDate,
		Total:     money(o.Total),
		Status:    string(o.Status),
		Items:     items,
	}
}

func ToOrdersOut(orders []order.Order) []OrderOut {
	out := make([]OrderOut, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderOut(o))
	}
	return out
}

// WriteJSON encodes v with the proper content type.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}
