package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tourhub-uz/tourhub/pkg/middleware"
)

func TestWithTransaction(t *testing.T) {
	t.Parallel()

	mw := middleware.WithTransaction()

	t.Run("safe methods pass through without a pool", func(t *testing.T) {
		t.Parallel()
		handled := false
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handled = true
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contracts", nil))

		assert.True(t, handled)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("mutating methods refuse to run without a pool", func(t *testing.T) {
		t.Parallel()
		handled := false
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handled = true
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contracts", nil))

		assert.False(t, handled)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
