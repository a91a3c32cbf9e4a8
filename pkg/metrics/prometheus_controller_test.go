package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/pkg/metrics"
)

func TestPrometheusController(t *testing.T) {
	t.Parallel()

	metrics.RecordHTTPRequest(http.MethodGet, "/contracts", http.StatusOK, 5*time.Millisecond)

	router := mux.NewRouter()
	metrics.NewPrometheusController("").Register(router)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tourhub_http_requests_total")
	assert.Contains(t, body, "tourhub_http_request_duration_seconds")
}
