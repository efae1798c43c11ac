package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mailagent/dashboard/internal/monitoring"
	"mailagent/dashboard/internal/workspace"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 256
)

// upgraderFactory 创建带有 Origin 验证的 WebSocket 升级器
func upgraderFactory(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			for _, origin := range allowedOrigins {
				if origin == "*" {
					return true
				}
			}

			requestOrigin := r.Header.Get("Origin")
			if requestOrigin == "" {
				// 没有 Origin 视为同源请求
				return true
			}

			for _, origin := range allowedOrigins {
				if requestOrigin == origin {
					return true
				}
			}

			return false
		},
	}
}

// MessageType 定义WebSocket消息类型
type MessageType string

const (
	MessageTypeEvent       MessageType = "event"
	MessageTypePing        MessageType = "ping"
	MessageTypePong        MessageType = "pong"
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypeSubscribed  MessageType = "subscribed"
	MessageTypeError       MessageType = "error"
)

// Message 定义WebSocket消息结构
//
// Topic 是事件类型的前缀，例如 "emails" 匹配 "emails.updated"。
type Message struct {
	Type      MessageType         `json:"type"`
	Event     workspace.EventType `json:"event,omitempty"`
	Topic     string              `json:"topic,omitempty"`
	Data      interface{}         `json:"data,omitempty"`
	Error     string              `json:"error,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// Client 代表一个WebSocket客户端连接
type Client struct {
	ID     string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	log    *zap.Logger
	mu     sync.Mutex
	topics map[string]bool // 为空时接收全部事件
	closed bool
}

// outbound 待广播的事件
type outbound struct {
	event workspace.EventType
	data  []byte
}

// Hub 管理所有WebSocket连接，并把工作区事件推送给客户端
type Hub struct {
	clients        map[string]*Client
	register       chan *Client
	unregister     chan *Client
	broadcast      chan outbound
	done           chan struct{}
	doneOnce       sync.Once
	mu             sync.RWMutex
	log            *zap.Logger
	metrics        *monitoring.Metrics
	allowedOrigins []string
}

// NewHub 创建WebSocket Hub
//
// 参数:
//   - allowedOrigins: 允许的 Origin 列表，为空时允许所有来源
//   - logger: 日志记录器，可为 nil
//   - metrics: 监控指标，可为 nil
//
// 返回值:
//   - *Hub: 创建的 Hub 实例
func NewHub(allowedOrigins []string, logger *zap.Logger, metrics *monitoring.Metrics) *Hub {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Hub{
		clients:        make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan outbound, sendBuffer),
		done:           make(chan struct{}),
		log:            logger,
		metrics:        metrics,
		allowedOrigins: allowedOrigins,
	}
}

// Run 启动Hub，直到 ctx 结束
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub stopped")
			h.doneOnce.Do(func() { close(h.done) })
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			count := len(h.clients)
			h.mu.Unlock()
			h.updateClients(count)
			h.log.Info("client registered", zap.String("id", client.ID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				client.closeSend()
				h.log.Info("client unregistered", zap.String("id", client.ID))
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.updateClients(count)

		case msg := <-h.broadcast:
			h.broadcastEvent(msg)

		case <-ticker.C:
			h.pingAllClients()
		}
	}
}

// Publish 将工作区事件放入广播队列
//
// 队列已满或 Hub 已停止时丢弃事件，不会阻塞调用方。
func (h *Hub) Publish(event workspace.Event) {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	data, err := json.Marshal(&Message{
		Type:      MessageTypeEvent,
		Event:     event.Type,
		Data:      event.Data,
		Timestamp: ts,
	})
	if err != nil {
		h.log.Error("failed to marshal event", zap.String("event", string(event.Type)), zap.Error(err))
		return
	}

	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- outbound{event: event.Type, data: data}:
	default:
		h.log.Warn("broadcast queue full, dropping event", zap.String("event", string(event.Type)))
	}
}

// ClientCount 返回当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastEvent 向订阅了该事件的客户端发送消息
func (h *Hub) broadcastEvent(msg outbound) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if !client.wants(msg.event) {
			continue
		}
		if !client.trySend(msg.data) {
			h.log.Warn("client channel blocked, skipping", zap.String("clientID", client.ID))
		}
	}
}

// pingAllClients 向所有客户端发送应用层 ping
func (h *Hub) pingAllClients() {
	data, err := json.Marshal(&Message{
		Type:      MessageTypePing,
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		client.trySend(data)
	}
}

// closeAllClients 关闭所有客户端连接
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	for _, client := range h.clients {
		client.closeSend()
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
	h.updateClients(0)
}

// remove 注销客户端；Hub 已停止时直接返回
func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) updateClients(count int) {
	if h.metrics != nil {
		h.metrics.UpdateWebsocketClients(count)
	}
}

// HandleWebSocket 处理WebSocket连接
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := upgraderFactory(hub.allowedOrigins)

	return func(c *gin.Context) {
		select {
		case <-hub.done:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event stream stopped"})
			return
		default:
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Error("failed to upgrade connection",
				zap.Error(err),
				zap.String("origin", c.Request.Header.Get("Origin")),
				zap.String("remote_addr", c.ClientIP()))
			return
		}

		client := &Client{
			ID:     uuid.NewString(),
			conn:   conn,
			hub:    hub,
			log:    hub.log,
			send:   make(chan []byte, sendBuffer),
			topics: topicsFromQuery(c.Query("topics")),
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// topicsFromQuery 解析 ?topics=emails,stats 形式的初始订阅
func topicsFromQuery(raw string) map[string]bool {
	topics := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			topics[t] = true
		}
	}
	return topics
}

// readPump 处理客户端消息
func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Error("websocket error", zap.Error(err))
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump 发送消息给客户端
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage 处理接收到的消息
func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeSubscribe:
		c.subscribe(msg.Topic)
	case MessageTypeUnsubscribe:
		c.unsubscribe(msg.Topic)
	case MessageTypePong:
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
	default:
		c.log.Warn("unknown message type", zap.String("type", string(msg.Type)))
		c.sendError("unknown message type: " + string(msg.Type))
	}
}

// subscribe 订阅一类事件
func (c *Client) subscribe(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		c.sendError("topic is required")
		return
	}

	c.mu.Lock()
	c.topics[topic] = true
	c.mu.Unlock()

	c.log.Debug("subscribed to topic",
		zap.String("clientID", c.ID),
		zap.String("topic", topic))

	c.sendMessage(&Message{
		Type:      MessageTypeSubscribed,
		Topic:     topic,
		Timestamp: time.Now(),
	})
}

// unsubscribe 取消订阅；取消全部订阅后重新接收全部事件
func (c *Client) unsubscribe(topic string) {
	c.mu.Lock()
	delete(c.topics, strings.TrimSpace(topic))
	c.mu.Unlock()
}

// wants 判断客户端是否订阅了该事件
func (c *Client) wants(event workspace.EventType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.topics) == 0 {
		return true
	}
	name := string(event)
	for topic := range c.topics {
		if name == topic || strings.HasPrefix(name, topic+".") {
			return true
		}
	}
	return false
}

// sendError 发送错误消息给客户端
func (c *Client) sendError(errMsg string) {
	c.sendMessage(&Message{
		Type:      MessageTypeError,
		Error:     errMsg,
		Timestamp: time.Now(),
	})
}

// sendMessage 发送消息给客户端
func (c *Client) sendMessage(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("failed to marshal message", zap.Error(err))
		return
	}

	if !c.trySend(data) {
		c.log.Warn("client channel blocked", zap.String("clientID", c.ID))
	}
}

// trySend 非阻塞地写入发送队列，连接已关闭或队列已满时返回 false
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend 关闭发送队列，writePump 随后发送关闭帧并退出
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
