package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/price"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventCurrentBlockInfo = "currentBlockInfo"
	EventFullDailyInfo    = "fullDailyInfo"
	EventNewDailyInfo     = "newDailyInfo"
	EventCurrentPriceInfo = "currentPriceInfo"
	EventReload           = "reload"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

type message struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type request struct {
	Request string `json:"request"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans state changes out to websocket clients and answers their requests.
type Hub struct {
	state    StateReader
	metrics  Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	priceMu   sync.RWMutex
	prices    price.Info
	hasPrices bool
}

// NewHub accepts connections from any origin when allowedOrigins is empty.
func NewHub(state StateReader, metrics Metrics, logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		state:   state,
		metrics: metrics,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetClients(n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetClients(n)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.unregister(c)
	}
}

func encode(event string, data any) ([]byte, error) {
	return json.Marshal(message{Event: event, Data: data})
}

func (h *Hub) broadcast(event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("encode broadcast", zap.String("event", event), zap.Error(err))
		return
	}
	h.metrics.ObserveMessage(event)

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow websocket client", zap.String("remote", c.conn.RemoteAddr().String()))
		h.unregister(c)
	}
}

func (h *Hub) reply(c *client, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("encode reply", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		h.handleRequest(c, data)
	}
}

// handleRequest accepts {"request": name} or a bare JSON string name.
func (h *Hub) handleRequest(c *client, data []byte) {
	var req request
	if err := json.Unmarshal(data, &req); err != nil || req.Request == "" {
		var name string
		if json.Unmarshal(data, &name) != nil {
			h.logger.Debug("ignoring websocket message", zap.ByteString("data", data))
			return
		}
		req.Request = name
	}

	switch req.Request {
	case EventCurrentBlockInfo:
		h.reply(c, EventCurrentBlockInfo, h.state.Snapshot())
	case EventCurrentPriceInfo:
		h.reply(c, EventCurrentPriceInfo, h.pricesOrEmpty())
	case EventFullDailyInfo:
		h.reply(c, EventFullDailyInfo, h.state.Daily())
	default:
		h.logger.Debug("unknown websocket request", zap.String("request", req.Request))
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) pricesOrEmpty() any {
	h.priceMu.RLock()
	defer h.priceMu.RUnlock()
	if !h.hasPrices {
		return struct{}{}
	}
	return h.prices
}

func (h *Hub) PublishCurrent(state model.CurrentState) {
	h.broadcast(EventCurrentBlockInfo, state)
}

// PublishFull sends the current state, the last known prices and the whole daily table.
func (h *Hub) PublishFull(state model.CurrentState, daily model.DailyTable) {
	h.broadcast(EventCurrentBlockInfo, state)
	h.broadcast(EventCurrentPriceInfo, h.pricesOrEmpty())
	h.broadcast(EventFullDailyInfo, daily)
}

func (h *Hub) PublishDay(date string, day model.DailyAggregate) {
	h.broadcast(EventNewDailyInfo, model.DailyTable{date: day})
}

func (h *Hub) PublishReload() {
	h.broadcast(EventReload, nil)
}

func (h *Hub) PublishPrices(info price.Info) {
	h.priceMu.Lock()
	h.prices, h.hasPrices = info, true
	h.priceMu.Unlock()
	h.broadcast(EventCurrentPriceInfo, info)
}
