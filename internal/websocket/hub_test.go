package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailagent/dashboard/internal/monitoring"
	"mailagent/dashboard/internal/workspace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// startHub 启动 Hub 与测试服务器，返回 ws:// 地址
func startHub(t *testing.T, origins []string) (*Hub, string, *monitoring.Metrics) {
	t.Helper()

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	hub := NewHub(origins, nil, metrics)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", HandleWebSocket(hub))
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws", metrics
}

func dial(t *testing.T, hub *Hub, url string, want int) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == want }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_PublishReachesClients(t *testing.T) {
	hub, url, metrics := startHub(t, nil)

	first := dial(t, hub, url, 1)
	second := dial(t, hub, url, 2)
	assert.Eventually(t, func() bool { return testutil.ToFloat64(metrics.WebsocketClients) == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(workspace.Event{Type: workspace.EventStatsUpdated, Data: map[string]int{"total": 3}})

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, MessageTypeEvent, msg.Type)
		assert.Equal(t, workspace.EventStatsUpdated, msg.Event)
		assert.Equal(t, map[string]interface{}{"total": 3.0}, msg.Data)
		assert.False(t, msg.Timestamp.IsZero())
	}
}

func TestHub_TopicSubscription(t *testing.T) {
	hub, url, _ := startHub(t, nil)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.WriteJSON(Message{Type: MessageTypeSubscribe, Topic: "stats"}))
	ack := readMessage(t, conn)
	assert.Equal(t, MessageTypeSubscribed, ack.Type)
	assert.Equal(t, "stats", ack.Topic)

	hub.Publish(workspace.Event{Type: workspace.EventEmailsUpdated})
	hub.Publish(workspace.Event{Type: workspace.EventStatsUpdated})

	msg := readMessage(t, conn)
	assert.Equal(t, workspace.EventStatsUpdated, msg.Event)
}

func TestHub_TopicsFromQuery(t *testing.T) {
	hub, url, _ := startHub(t, nil)
	conn := dial(t, hub, url+"?topics=drafts,actions", 1)

	hub.Publish(workspace.Event{Type: workspace.EventPromptsUpdated})
	hub.Publish(workspace.Event{Type: workspace.EventActionsUpdated})

	msg := readMessage(t, conn)
	assert.Equal(t, workspace.EventActionsUpdated, msg.Event)
}

func TestHub_UnknownMessageType(t *testing.T) {
	hub, url, _ := startHub(t, nil)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.WriteJSON(Message{Type: "shout"}))

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeError, msg.Type)
	assert.Contains(t, msg.Error, "shout")
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, url, metrics := startHub(t, nil)
	conn := dial(t, hub, url, 1)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return testutil.ToFloat64(metrics.WebsocketClients) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	for i := 0; i < sendBuffer*2; i++ {
		hub.Publish(workspace.Event{Type: workspace.EventEmailsUpdated})
	}
}

func TestClient_Wants(t *testing.T) {
	c := &Client{topics: map[string]bool{}}
	assert.True(t, c.wants(workspace.EventEmailsUpdated))

	c.topics["email"] = true
	assert.True(t, c.wants(workspace.EventEmailSelected))
	assert.False(t, c.wants(workspace.EventEmailsUpdated))

	c.topics["error"] = true
	assert.True(t, c.wants(workspace.EventError))
}

func TestUpgraderCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "http://evil.example", true},
		{"listed origin", []string{"http://localhost:3000"}, "http://localhost:3000", true},
		{"unlisted origin", []string{"http://localhost:3000"}, "http://evil.example", false},
		{"same origin", []string{"http://localhost:3000"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upgrader := upgraderFactory(tt.allowed)
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, upgrader.CheckOrigin(req))
		})
	}
}
