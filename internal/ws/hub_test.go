package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws/:topic", func(c *gin.Context) { hub.Serve(c, c.Param("topic")) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesTopicSubscribers(t *testing.T) {
	hub, base := startHub(t)
	a := dial(t, base+"/ws/outlet:1")
	b := dial(t, base+"/ws/outlet:2")
	require.Eventually(t, func() bool { return hub.Count("outlet:1") == 1 && hub.Count("outlet:2") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(context.Background(), "outlet:1", map[string]string{"event_type": "entry_created"}))

	a.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := a.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_type":"entry_created"}`, string(msg))

	b.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = b.ReadMessage()
	assert.Error(t, err)
}

func TestClientUnregistersOnClose(t *testing.T) {
	hub, base := startHub(t)
	conn := dial(t, base+"/ws/entry:ABC234")
	require.Eventually(t, func() bool { return hub.Count("entry:ABC234") == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Count("entry:ABC234") == 0 }, time.Second, 10*time.Millisecond)
}

func TestServeAfterHubStopped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	served := make(chan string, 4)
	r := gin.New()
	r.GET("/ws/:topic", func(c *gin.Context) {
		hub.Serve(c, c.Param("topic"))
		served <- c.Param("topic")
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	before := dial(t, base+"/ws/outlet:1")
	require.Eventually(t, func() bool { return hub.Count("outlet:1") == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	before.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := before.ReadMessage()
	assert.Error(t, err, "open connections are closed on stop")

	after := dial(t, base+"/ws/outlet:2")
	after.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = after.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case topic := <-served:
			got[topic] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("handler still blocked, returned: %v", got)
		}
	}
	assert.Equal(t, map[string]bool{"outlet:1": true, "outlet:2": true}, got)
	assert.Zero(t, hub.Count("outlet:2"))
}
