package products

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/idp-labs/shop-svc/internal/service/models/product"
	"github.com/idp-labs/shop-svc/internal/transport/http/converters"
	"github.com/idp-labs/shop-svc/internal/transport/http/httperr"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, p product.Product) (product.Product, error)
	Get(ctx context.Context, id int64) (*product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}

type createRequest struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
}

// Create adds a product to the catalog.
func Create(w http.ResponseWriter, r *http.Request, svc service) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	price, err := decimal.NewFromString(req.Price.String())
	if err != nil {
		http.Error(w, "Invalid price", http.StatusBadRequest)

		return
	}

	created, err := svc.Create(r.Context(), product.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
	})
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToProductOut(created)); err != nil {
		slog.Error("Error writing product response", "error", err)
	}
}

// List returns the whole catalog.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	products, err := svc.List(r.Context())
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToProductsOut(products)); err != nil {
		slog.Error("Error writing products response", "error", err)
	}
}

// Get returns a single product.
func Get(w http.ResponseWriter, r *http.Request, svc service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)

		return
	}

	p, err := svc.Get(r.Context(), id)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToProductOut(*p)); err != nil {
		slog.Error("Error writing product response", "error", err)
	}
}
