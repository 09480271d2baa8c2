package basket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/idp-labs/shop-svc/internal/service/models/basketitem"
	"github.com/idp-labs/shop-svc/internal/transport/http/converters"
	"github.com/idp-labs/shop-svc/internal/transport/http/httperr"
	authmw "github.com/idp-labs/shop-svc/internal/transport/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	List(ctx context.Context, userID int64) ([]basketitem.BasketItem, error)
	Add(ctx context.Context, userID, productID int64, qty int) (*basketitem.BasketItem, error)
	Update(ctx context.Context, userID, itemID int64, qty int) (*basketitem.BasketItem, error)
	Remove(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
}

type addRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// List returns the authenticated user's basket.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	items, err := svc.List(r.Context(), userID)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToBasketItemsOut(items)); err != nil {
		slog.Error("Error writing basket response", "error", err)
	}
}

// Add puts a product into the basket, merging with an existing item.
func Add(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	item, err := svc.Add(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToBasketItemOut(*item)); err != nil {
		slog.Error("Error writing basket item response", "error", err)
	}
}

// Update replaces the quantity of an item. The quantity arrives as a query
// parameter.
func Update(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid basket item id", http.StatusBadRequest)

		return
	}

	qty, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		http.Error(w, "Invalid quantity", http.StatusBadRequest)

		return
	}

	item, err := svc.Update(r.Context(), userID, itemID, qty)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToBasketItemOut(*item)); err != nil {
		slog.Error("Error writing basket item response", "error", err)
	}
}

// Remove deletes a single basket item.
func Remove(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid basket item id", http.StatusBadRequest)

		return
	}

	if err := svc.Remove(r.Context(), userID, itemID); err != nil {
		httperr.Write(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear empties the basket.
func Clear(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	if err := svc.Clear(r.Context(), userID); err != nil {
		httperr.Write(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
