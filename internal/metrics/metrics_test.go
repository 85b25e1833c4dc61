package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/fourloop/sourceflow/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Exposition(t *testing.T) {
	metrics.ObserveHTTP(http.MethodGet, "/requests", http.StatusOK, 3*time.Millisecond)
	metrics.RecordOperation(metrics.OperationCreate)
	metrics.SetRequestsByStatus([]domain.StatusCount{
		{StatusID: domain.StatusNew, StatusName: "New", Count: 3},
	})

	body := scrape(t)

	assert.Contains(t, body, `sourceflow_http_requests_total{code="200",method="GET",route="/requests"}`)
	assert.Contains(t, body, `sourceflow_http_request_duration_seconds_bucket`)
	assert.Contains(t, body, `sourceflow_requests_operations_total{operation="create"}`)
	assert.Contains(t, body, `sourceflow_requests_by_status{status="New"} 3`)
}
