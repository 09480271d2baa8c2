// Package httperr maps service errors onto HTTP status codes.
package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/idp-labs/shop-svc/internal/service/errs"
)

// Status returns the response code for a service error. Unknown errors are
// internal.
func Status(err error) int {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, errs.ErrEmptyBasket),
		errors.Is(err, errs.ErrInvalidQuantity),
		errors.Is(err, errs.ErrEmailTaken),
		errors.Is(err, errs.ErrOrderCancelled):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Write sends the error as a plain-text response. Internal errors are not
// leaked to the client.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		slog.Error("Internal error handling request", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
