package authn

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/idp-labs/shop-svc/internal/auth"
	"github.com/idp-labs/shop-svc/internal/transport/http/converters"
	"github.com/idp-labs/shop-svc/internal/transport/http/httperr"
	"github.com/idp-labs/shop-svc/internal/service/models/user"
)

// authService is the slice of the identity gateway the handlers need.
type authService interface {
	Login(ctx context.Context, name, password string) (auth.TokenResponse, error)
	Register(ctx context.Context, name, email, password string) (auth.RegisteredUser, error)
}

// userService maintains the local user rows.
type userService interface {
	CheckEmailFree(ctx context.Context, email string) error
	Register(ctx context.Context, id int64, name, email string) (user.User, error)
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login passes the credentials through to the identity service and returns
// its token response untouched.
func Login(w http.ResponseWriter, r *http.Request, svc authService) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	token, err := svc.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, token); err != nil {
		slog.Error("Error writing login response", "error", err)
	}
}

// Register creates the account with the identity service, then stores the
// local row under the id the identity service issued.
func Register(w http.ResponseWriter, r *http.Request, authSvc authService, userSvc userService) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Failed to decode request body", http.StatusBadRequest)

		return
	}

	if err := userSvc.CheckEmailFree(r.Context(), req.Email); err != nil {
		httperr.Write(w, r, err)

		return
	}

	registered, err := authSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	created, err := userSvc.Register(r.Context(), registered.ID, req.Name, req.Email)
	if err != nil {
		httperr.Write(w, r, err)

		return
	}

	if err := converters.WriteJSON(w, http.StatusOK, converters.ToUserOut(created)); err != nil {
		slog.Error("Error writing register response", "error", err)
	}
}
