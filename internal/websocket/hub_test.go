package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetcheck/internal/infrastructure"
	"sheetcheck/internal/shared/testutil"
	"sheetcheck/pkg/contracts/domain"
	"sheetcheck/pkg/contracts/events"
)

// fakeConn satisfies Connection for clients that never run their pumps.
type fakeConn struct{}

func (fakeConn) WriteMessage(int, []byte) error     { return nil }
func (fakeConn) ReadMessage() (int, []byte, error)  { return 0, nil, nil }
func (fakeConn) Close() error                       { return nil }
func (fakeConn) SetReadDeadline(time.Time) error    { return nil }
func (fakeConn) SetWriteDeadline(time.Time) error   { return nil }
func (fakeConn) SetReadLimit(int64)                 {}
func (fakeConn) SetPongHandler(func(string) error)  {}
func (fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
}

func receive(t *testing.T, ch <-chan []byte) events.Message {
	t.Helper()
	select {
	case data, ok := <-ch:
		require.True(t, ok, "send channel closed")
		var msg events.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return events.Message{}
	}
}

func TestHub_RegisterPublishUnregister(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)
	hub.Start()
	defer hub.Stop()

	client := NewClient(hub, fakeConn{}, "trace-1", logger)
	hub.Register(client)

	greeting := receive(t, client.send)
	assert.Equal(t, events.MessageTypeConnect, greeting.Type)
	assert.Equal(t, "trace-1", greeting.TraceID)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx := infrastructure.WithTraceID(context.Background(), "req-7")
	hub.Publish(ctx, events.MessageTypeDatasetLoaded, events.DatasetEvent{
		DatasetID: "ds-1",
		Sheet:     "March",
		Records:   5,
		Totals:    &domain.Totals{Tasks: 5},
	})

	msg := receive(t, client.send)
	assert.Equal(t, events.MessageTypeDatasetLoaded, msg.Type)
	assert.Equal(t, "req-7", msg.TraceID)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ds-1", data["dataset_id"])

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Start()
	hub.Start()

	client := NewClient(hub, fakeConn{}, "", nil)
	hub.Register(client)
	receive(t, client.send)

	hub.Stop()
	hub.Stop()

	_, open := <-client.send
	assert.False(t, open)

	// Publishing after stop is dropped silently.
	hub.Publish(context.Background(), events.MessageTypeDatasetDeleted, nil)
	hub.Unregister(client)
}

func TestHub_PublishWithoutLoopDropsWhenFull(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)

	for i := 0; i < broadcastBuffer+1; i++ {
		hub.Publish(context.Background(), events.MessageTypeDatasetLoaded, nil)
	}

	assert.Equal(t, int64(1), hub.Stats()["messages_dropped"])
	assert.True(t, handler.ContainsMessage("Broadcast queue full"))
}

func TestHandler_EndToEnd(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(logger, nil)
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(NewHandler(hub, nil, logger))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var greeting events.Message
	require.NoError(t, conn.ReadJSON(&greeting))
	assert.Equal(t, events.MessageTypeConnect, greeting.Type)

	hub.Publish(context.Background(), events.MessageTypeDatasetFailed, events.DatasetEvent{
		DatasetID: "ds-2",
		ErrorCode: "MISSING_COLUMNS",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg events.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.MessageTypeDatasetFailed, msg.Type)
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(NewHandler(hub, []string{"https://app.example.com"}, nil))
	defer srv.Close()

	header := map[string][]string{"Origin": {"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}
