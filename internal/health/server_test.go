package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log.WithField("component", "health")
}

func probe(t *testing.T, s *Server, path string) (int, probeStatus) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var status probeStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return rec.Code, status
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer("truesignal-engine", "1.0.0", 8081, nil, testLogger())

	code, status := probe(t, s, "/health")
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "truesignal-engine", status.Service)
	assert.Equal(t, "1.0.0", status.Version)

	code, status = probe(t, s, "/live")
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok", status.Status)
}

func TestReadyGatedOnFlag(t *testing.T) {
	s := NewServer("truesignal-engine", "1.0.0", 8081, nil, testLogger())

	code, status := probe(t, s, "/ready")
	assert.Equal(t, 503, code)
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Checks["engine"])

	s.SetReady(true)
	code, status = probe(t, s, "/ready")
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok", status.Checks["engine"])
}

func TestReadyChecksDatabase(t *testing.T) {
	db := pingerFunc(func(ctx context.Context) error { return errors.New("connection refused") })
	s := NewServer("truesignal-engine", "1.0.0", 8081, db, testLogger())
	s.SetReady(true)

	code, status := probe(t, s, "/ready")
	assert.Equal(t, 503, code)
	assert.Contains(t, status.Checks["database"], "connection refused")

	healthyDB := pingerFunc(func(ctx context.Context) error { return nil })
	s = NewServer("truesignal-engine", "1.0.0", 8081, healthyDB, testLogger())
	s.SetReady(true)

	code, status = probe(t, s, "/ready")
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok", status.Checks["database"])
}
