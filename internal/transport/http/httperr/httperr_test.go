package httperr_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/idp-labs/shop-svc/internal/service/errs"
	"github.com/idp-labs/shop-svc/internal/transport/http/httperr"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.ErrUnauthenticated, http.StatusUnauthorized},
		{errs.ErrNotFound, http.StatusNotFound},
		{errs.ErrProductNotFound, http.StatusNotFound},
		{errs.ErrInsufficientStock, http.StatusBadRequest},
		{errs.ErrEmptyBasket, http.StatusBadRequest},
		{errs.ErrInvalidQuantity, http.StatusBadRequest},
		{errs.ErrEmailTaken, http.StatusBadRequest},
		{errs.ErrOrderCancelled, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", errs.ErrInsufficientStock), http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, httperr.Status(tc.err), "error %v", tc.err)
	}
}

func TestWrite_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)

	httperr.Write(rec, req, fmt.Errorf("pq: connection refused to 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", strings.TrimSpace(rec.Body.String()))
}

func TestWrite_ExposesDomainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/", nil)

	httperr.Write(rec, req, errs.ErrEmptyBasket)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.ErrEmptyBasket.Error(), strings.TrimSpace(rec.Body.String()))
}
