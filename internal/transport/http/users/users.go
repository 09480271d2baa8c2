package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/idp-labs/shop-svc/internal/service/models/user"
	"github.com/idp-labs/shop-svc/internal/transport/http/converters"
	"github.com/idp-labs/shop-svc/internal/transport/http/httperr"
	authmw "github.com/idp-labs/shop-svc/internal/transport/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	Me(ctx context.Context, userID int64) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

// Me returns the authenticated user's local record.
func Me(w http.ResponseWriter, r *http.Request, svc service) {
	userID, ok := authmw.UserID(r.Context())
	if !ok {
		http.Error(w, "could not validate credentials", http.StatusUnauthorized)

		return
	}

	u, err := svc.Me(r.Context(), userID)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToUserOut(*u)); err != nil {
		slog.Error("Error writing user response", "error", err)
	}
}

// List returns all local user records.
func List(w http.ResponseWriter, r *http.Request, svc service) {
	users, err := svc.List(r.Context())
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToUsersOut(users)); err != nil {
		slog.Error("Error writing users response", "error", err)
	}
}
