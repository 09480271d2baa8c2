package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/idp-labs/shop-svc/internal/service/errs"
	authmw "github.com/idp-labs/shop-svc/internal/transport/http/middleware/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	userID int64
	err    error
	tokens []string
}

func (a *fakeAuthenticator) VerifyToken(_ context.Context, token string) (int64, error) {
	a.tokens = append(a.tokens, token)
	if a.err != nil {
		return 0, a.err
	}

	return a.userID, nil
}

type fakeProfileEnsurer struct {
	ensured []int64
	err     error
}

func (e *fakeProfileEnsurer) EnsureProfile(_ context.Context, userID int64) error {
	if e.err != nil {
		return e.err
	}
	e.ensured = append(e.ensured, userID)

	return nil
}

func TestAuthMiddleware_InjectsUserID(t *testing.T) {
	authenticator := &fakeAuthenticator{userID: 7}
	ensurer := &fakeProfileEnsurer{}

	var gotID int64
	var gotOK bool
	handler := authmw.NewAuthMiddleware(authenticator, ensurer)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, gotOK = authmw.UserID(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, gotOK)
	assert.Equal(t, int64(7), gotID)
	assert.Equal(t, []string{"some-token"}, authenticator.tokens)
	assert.Equal(t, []int64{7}, ensurer.ensured)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handler := authmw.NewAuthMiddleware(&fakeAuthenticator{userID: 7}, &fakeProfileEnsurer{})(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run without credentials")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	authenticator := &fakeAuthenticator{err: errs.ErrUnauthenticated}
	handler := authmw.NewAuthMiddleware(authenticator, &fakeProfileEnsurer{})(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run with a rejected token")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ProfileProvisioningFailure(t *testing.T) {
	ensurer := &fakeProfileEnsurer{err: assert.AnError}
	handler := authmw.NewAuthMiddleware(&fakeAuthenticator{userID: 7}, ensurer)(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run when provisioning fails")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/basket/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
