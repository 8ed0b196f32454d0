package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/pulseview/pulseview/internal/series"
)

// WebSocket message types for the live feed.
const (
	MsgTypeHello  = "hello"
	MsgTypeUpdate = "update"
	MsgTypePing   = "ping"
	MsgTypePong   = "pong"
)

// LiveMessage is pushed whenever the ingest generation advances, telling
// the client it should refetch the windows it cares about.
type LiveMessage struct {
	Type       string `json:"type"`
	Generation uint64 `json:"generation"`
	EndTime    int64  `json:"endTime,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// WebSocketHandler notifies connected viewers of newly ingested records.
type WebSocketHandler struct {
	handler  *Handler
	upgrader websocket.Upgrader
	interval time.Duration
}

// NewWebSocketHandler creates a live-feed handler polling the ingest
// generation at the given interval.
func NewWebSocketHandler(h *Handler, interval time.Duration) *WebSocketHandler {
	return &WebSocketHandler{
		handler: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
		},
		interval: interval,
	}
}

// HandleLive upgrades the connection and pushes an update message each time
// new records land, until the client goes away.
func (wsh *WebSocketHandler) HandleLive(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	fmt.Println("[WebSocket] Viewer connected")

	last := wsh.handler.svc.Generation()
	if err := ws.WriteJSON(LiveMessage{
		Type:       MsgTypeHello,
		Generation: last,
		Timestamp:  time.Now().UnixMilli(),
	}); err != nil {
		return nil
	}

	// Reader goroutine: we only care about the client closing or pinging.
	// All writes stay on the loop below; the connection allows only one
	// concurrent writer.
	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go func() {
		defer close(done)
		for {
			var msg map[string]any
			if err := ws.ReadJSON(&msg); err != nil {
				return
			}
			if msg["type"] == MsgTypePing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(wsh.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			fmt.Println("[WebSocket] Viewer disconnected")
			return nil
		case <-pings:
			if err := ws.WriteJSON(LiveMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()}); err != nil {
				return nil
			}
		case <-ticker.C:
			gen := wsh.handler.svc.Generation()
			if gen == last {
				continue
			}
			last = gen
			msg := LiveMessage{
				Type:       MsgTypeUpdate,
				Generation: gen,
				Timestamp:  time.Now().UnixMilli(),
			}
			wsh.handler.svc.WithSynced(func(ts *series.TimeSeries) {
				msg.EndTime = ts.EndTime()
			})
			if err := ws.WriteJSON(msg); err != nil {
				fmt.Printf("[WebSocket] Failed to send update: %v\n", err)
				return nil
			}
		}
	}
}
