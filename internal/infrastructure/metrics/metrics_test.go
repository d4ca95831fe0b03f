package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordRun("gitlab", "completed", 1.5)
	m.RecordRun("gitlab", "completed", 0.5)
	m.RecordRecords("missing", 3)
	m.RecordImport("created")
	m.RecordHTTP("GET", "200")
	m.RecordFetch("toggl", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("gitlab", "completed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsTotal.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportedTotal.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("toggl", "ok")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordRecords("matched", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `worklog_records_total{status="matched"} 1`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
