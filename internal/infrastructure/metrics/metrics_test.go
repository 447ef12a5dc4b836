package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOp(t *testing.T) {
	m := New()

	m.RecordOp("create_task", OutcomeOK)
	m.RecordOp("create_task", OutcomeOK)
	m.RecordOp("create_task", OutcomeInvalid)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TaskOperations.WithLabelValues("create_task", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskOperations.WithLabelValues("create_task", OutcomeInvalid)))
}

func TestRecordOpOnNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordOp("get_task", OutcomeOK) })
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.HTTPRequests.WithLabelValues("GET", "/api/v1/tasks", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "taskboard_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSeparateInstancesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
