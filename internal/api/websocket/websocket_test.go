package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	s := NewServer(nil)
	go s.hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(s.handleJobs))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return s.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	s.Broadcast([]byte(`{"job_id":"abc","status":"running"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"job_id":"abc","status":"running"}`, string(msg))
}

func TestClientCountAfterDisconnect(t *testing.T) {
	s := NewServer(nil)
	go s.hub.Run()

	ts := httptest.NewServer(http.HandlerFunc(s.handleJobs))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return s.hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
