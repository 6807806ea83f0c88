package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordSignalPublished()
	RecordSignalSettled("green")
	UpdateAggregates(75, 12.5, 3)
	RecordStatsRecompute(0.002)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "truesignal_signals_published_total")
	assert.Contains(t, body, "truesignal_assertivity_percent")
	assert.Contains(t, body, `truesignal_signals_settled_total{outcome="green"}`)
}
