package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log.WithField("component", "feed")
}

func TestHubSubscribeAndPublish(t *testing.T) {
	hub := NewHub(testLogger())

	events, cancel := hub.Subscribe()
	defer cancel()
	assert.Equal(t, 1, hub.SubscriberCount())

	id := uuid.New()
	hub.Publish(Event{Type: EventInsert, SignalID: id})

	select {
	case event := <-events:
		assert.Equal(t, EventInsert, event.Type)
		assert.Equal(t, id, event.SignalID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub(testLogger())

	_, cancel := hub.Subscribe()
	_, cancel2 := hub.Subscribe()
	assert.Equal(t, 2, hub.SubscriberCount())

	cancel()
	assert.Equal(t, 1, hub.SubscriberCount())

	// Double cancel is safe
	cancel()
	assert.Equal(t, 1, hub.SubscriberCount())

	cancel2()
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(testLogger())

	// Never drained; fills its buffer
	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Publish(Event{Type: EventUpdate, SignalID: uuid.New()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestServeWSStreamsEvents(t *testing.T) {
	hub := NewHub(testLogger())

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(ctx, w, r)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Wait for the server side to register the subscriber
	require.Eventually(t, func() bool {
		return hub.SubscriberCount() == 1
	}, time.Second, 10*time.Millisecond)

	id := uuid.New()
	hub.Publish(Event{Type: EventDelete, SignalID: id})

	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventDelete, event.Type)
	assert.Equal(t, id, event.SignalID)
}

func TestPollerRunsRefresh(t *testing.T) {
	var runs atomic.Int64
	refresh := func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}

	// Interval is clamped up to the 5 second floor, so trigger one run
	// manually instead of waiting for the cron tick.
	poller := NewPoller(1, refresh, testLogger())
	require.NoError(t, poller.Start())
	defer poller.Stop()

	assert.True(t, poller.IsRunning())
	assert.False(t, poller.NextRun().IsZero())
	assert.Error(t, poller.Start(), "double start must fail")

	require.NoError(t, refresh(context.Background()))
	assert.Equal(t, int64(1), runs.Load())
}

func TestPollerStop(t *testing.T) {
	poller := NewPoller(5, func(ctx context.Context) error { return nil }, testLogger())
	require.NoError(t, poller.Start())

	poller.Stop()
	assert.False(t, poller.IsRunning())
	assert.True(t, poller.NextRun().IsZero())

	// Stop is idempotent
	poller.Stop()
}
