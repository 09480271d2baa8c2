package orders

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/idp-labs/shop-svc/internal/service/models/order"
	"github.com/idp-labs/shop-svc/internal/transport/http/converters"
	"github.com/idp-labs/shop-svc/internal/transport/http/httperr"
	authmw "github.com/idp-labs/shop-svc/internal/transport/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, userID int64) (*order.Order, error)
	CancelOrder(ctx context.Context, userID, orderID int64) (*order.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*order.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]order.Order, error)
}

// Create converts the authenticated user's basket into an order.
func Create(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	created, err := svc.CreateOrder(r.Context(), userID)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToOrderOut(*created)); err != nil {
		slog.Error("Error writing order response", "error", err)
	}
}

// List returns all orders of the authenticated user.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	orders, err := svc.ListOrders(r.Context(), userID)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToOrdersOut(orders)); err != nil {
		slog.Error("Error writing orders response", "error", err)
	}
}

// Get returns a single order owned by the authenticated user.
func Get(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	o, err := svc.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToOrderOut(*o)); err != nil {
		slog.Error("Error writing order response", "error", err)
	}
}

// Cancel reverses the inventory effects of an order and marks it cancelled.
func Cancel(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)

		return
	}

	cancelled, err := svc.CancelOrder(r.Context(), userID, orderID)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToOrderOut(*cancelled)); err != nil {
		slog.Error("Error writing order response", "error", err)
	}
}
