package api

import (
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/targetplatform/internal/infrastructure/config"
	"github.com/nerrad567/targetplatform/internal/infrastructure/logging"
	"github.com/nerrad567/targetplatform/internal/relay"
)

// Message types on the event stream.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypePing        = "ping"
	WSTypePong        = "pong"
	WSTypeEvent       = "event"
	WSTypeResponse    = "response"
	WSTypeError       = "error"
)

// Channels clients can subscribe to. ChannelDeviceAll expands to every
// device channel.
const (
	ChannelDeviceDiscovered = "device.discovered"
	ChannelDeviceLost       = "device.lost"
	ChannelDeviceAll        = "device.*"
)

const (
	// wsSendBufferSize is the per-client outbound queue length. Events for a
	// client whose queue is full are dropped.
	wsSendBufferSize = 256

	defaultPingInterval = 30 * time.Second
	defaultPongTimeout  = 10 * time.Second
)

// WSMessage is the envelope for every frame in either direction.
type WSMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// WSSubscribePayload selects channels and, optionally, target variants.
// An empty Variants list means every variant. Unsubscribing with
// Variants narrows the variant filter instead of dropping channels.
type WSSubscribePayload struct {
	Channels []string `json:"channels"`
	Variants []string `json:"variants,omitempty"`
}

// Hub fans relayed device events out to WebSocket clients.
type Hub struct {
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// wsClient is one connection and what it has asked to receive.
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu       sync.RWMutex
	channels map[string]struct{}
	variants map[string]struct{} // lower-cased; empty means all
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The CORS middleware has already vetted the origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// NewHub creates a hub with no clients.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		if c.conn != nil {
			c.conn.Close()
		}
		delete(h.clients, c)
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

// unregister removes c. Whoever removes c from the map closes its queue,
// so calling it twice is safe.
func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		close(c.send)
		h.logger.Debug("websocket client disconnected", "clients", n)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver sends ev to every client subscribed to its channel and variant.
func (h *Hub) Deliver(_ context.Context, ev relay.Event) error {
	channel := ChannelDeviceDiscovered
	if ev.Kind == relay.KindLost {
		channel = ChannelDeviceLost
	}

	data, err := json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		EventType: channel,
		Timestamp: ev.At.UTC().Format(time.RFC3339),
		Payload:   ev,
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		if c.wants(channel, ev.Variant) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(data)
	}
	if len(targets) > 0 {
		h.logger.Debug("device event pushed", "channel", channel, "variant", ev.Variant, "clients", len(targets))
	}
	return nil
}

// wsTimings returns the ping interval and pong timeout, defaulted.
func wsTimings(cfg config.WebSocketConfig) (ping, pong time.Duration) {
	ping, pong = defaultPingInterval, defaultPongTimeout
	if cfg.PingInterval > 0 {
		ping = time.Duration(cfg.PingInterval) * time.Second
	}
	if cfg.PongTimeout > 0 {
		pong = time.Duration(cfg.PongTimeout) * time.Second
	}
	return ping, pong
}

func newWSClient(hub *Hub, conn *websocket.Conn) *wsClient {
	return &wsClient{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, wsSendBufferSize),
		channels: make(map[string]struct{}),
		variants: make(map[string]struct{}),
	}
}

// handleWebSocket upgrades the request and starts the client pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := newWSClient(s.hub, conn)
	s.hub.register(c)

	ping, pong := wsTimings(s.wsCfg)
	go c.writeLoop(ping, pong)
	go c.readLoop(int64(s.wsCfg.MaxMessageSize), ping+pong)
}

// readLoop handles client frames until the connection fails.
func (c *wsClient) readLoop(limit int64, idle time.Duration) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	if limit > 0 {
		c.conn.SetReadLimit(limit)
	}
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(idle))
	}
	extend("") //nolint:errcheck // a failed deadline surfaces as a read error
	c.conn.SetPongHandler(extend)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		extend("") //nolint:errcheck // as above
		c.handle(data)
	}
}

// writeLoop drains the send queue and pings every interval.
func (c *wsClient) writeLoop(interval, writeWait time.Duration) {
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // write reports it
		return c.conn.WriteMessage(kind, data)
	}

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				write(websocket.CloseMessage, nil) //nolint:errcheck // closing anyway
				return
			}
			if err := write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) handle(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.reply("", WSTypeError, errorPayload("invalid JSON message"))
		return
	}

	switch msg.Type {
	case WSTypeSubscribe, WSTypeUnsubscribe:
		sub, err := decodeSubscription(msg.Payload)
		if err != nil {
			c.reply(msg.ID, WSTypeError, errorPayload("invalid "+msg.Type+" payload"))
			return
		}
		c.reply(msg.ID, WSTypeResponse, c.update(sub, msg.Type == WSTypeSubscribe))
	case WSTypePing:
		c.reply(msg.ID, WSTypePong, nil)
	default:
		c.reply(msg.ID, WSTypeError, errorPayload("unknown message type: "+msg.Type))
	}
}

// decodeSubscription re-decodes a generic payload into its typed form.
func decodeSubscription(payload any) (WSSubscribePayload, error) {
	var sub WSSubscribePayload
	raw, err := json.Marshal(payload)
	if err != nil {
		return sub, err
	}
	err = json.Unmarshal(raw, &sub)
	return sub, err
}

// update applies a subscribe or unsubscribe and returns the resulting
// subscription.
func (c *wsClient) update(sub WSSubscribePayload, subscribe bool) WSSubscribePayload {
	var channels []string
	for _, ch := range sub.Channels {
		if ch == ChannelDeviceAll {
			channels = append(channels, ChannelDeviceDiscovered, ChannelDeviceLost)
			continue
		}
		channels = append(channels, ch)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case subscribe:
		for _, ch := range channels {
			c.channels[ch] = struct{}{}
		}
		for _, v := range sub.Variants {
			c.variants[strings.ToLower(v)] = struct{}{}
		}
	case len(sub.Variants) > 0:
		for _, v := range sub.Variants {
			delete(c.variants, strings.ToLower(v))
		}
	default:
		for _, ch := range channels {
			delete(c.channels, ch)
		}
	}

	out := WSSubscribePayload{Channels: slices.Sorted(maps.Keys(c.channels)), Variants: slices.Sorted(maps.Keys(c.variants))}
	if out.Channels == nil {
		out.Channels = []string{}
	}
	return out
}

func (c *wsClient) wants(channel, variant string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.channels[channel]; !ok {
		return false
	}
	if len(c.variants) == 0 {
		return true
	}
	_, ok := c.variants[strings.ToLower(variant)]
	return ok
}

// enqueue queues data unless the client is gone or too far behind.
func (c *wsClient) enqueue(data []byte) {
	defer func() {
		recover() //nolint:errcheck // send on a queue closed by unregister
	}()

	select {
	case c.send <- data:
	default:
	}
}

func (c *wsClient) reply(id, msgType string, payload any) {
	data, err := json.Marshal(WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
	if err != nil {
		return
	}
	c.enqueue(data)
}

func errorPayload(message string) map[string]string {
	return map[string]string{"message": message}
}
