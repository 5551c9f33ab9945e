package handler

import (
	"errors"
	"net/http"
	"time"

	"squadup/backend/internal/hub"
	"squadup/backend/internal/models"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	keepAliveInterval = 15 * time.Second
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func parseFilter(c *gin.Context) (hub.Filter, bool) {
	var f hub.Filter
	if game := c.Query("game"); game != "" {
		f.Game = models.Game(game)
		if !f.Game.Valid() {
			badRequest(c, errors.New("unsupported game"))
			return hub.Filter{}, false
		}
	}
	if raw := c.Query("lobby_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, errors.New("invalid lobby_id"))
			return hub.Filter{}, false
		}
		f.LobbyID = id
	}
	return f, true
}

// StreamEvents godoc
// @Summary      Stream lobby events (SSE)
// @Description  Streams committed lobby events as server-sent events, from the moment of subscription.
// @Description  A "lagged" event ends the stream when the client falls behind; re-query lobbies and reconnect.
// @Tags         events
// @Produce      text/event-stream
// @Param        game     query string false "Only events for this game"
// @Param        lobby_id query string false "Only events for this lobby"
// @Success      200
// @Failure      400 {object} ErrorResponse
// @Router       /events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	sub := h.lobbies.Subscribe(filter)
	defer h.lobbies.Unsubscribe(sub)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case e, open := <-sub.C():
			if !open {
				if errors.Is(sub.Err(), hub.ErrSubscriberLagged) {
					c.SSEvent("lagged", sub.Err().Error())
					c.Writer.Flush()
				}
				return
			}
			data, err := hub.Encode(e)
			if err != nil {
				h.log.Error().Err(err).Msg("encode event")
				continue
			}
			c.Render(-1, sse.Event{Id: e.Meta().ID, Event: string(e.Kind()), Data: string(data)})
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// EventsWebSocket godoc
// @Summary      Stream lobby events (WebSocket)
// @Description  Upgrades to a WebSocket that receives one JSON envelope per committed lobby event.
// @Description  The server closes with code 1013 when the client falls behind.
// @Tags         events
// @Param        game     query string false "Only events for this game"
// @Param        lobby_id query string false "Only events for this lobby"
// @Success      101
// @Failure      400 {object} ErrorResponse
// @Router       /events/ws [get]
func (h *Handler) EventsWebSocket(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.lobbies.Subscribe(filter)
	defer h.lobbies.Unsubscribe(sub)

	// The read loop only watches for the client going away and answers pings.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case e, open := <-sub.C():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				code, reason := websocket.CloseNormalClosure, "subscription closed"
				if errors.Is(sub.Err(), hub.ErrSubscriberLagged) {
					code, reason = websocket.CloseTryAgainLater, "lagged"
				}
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
				return
			}
			data, err := hub.Encode(e)
			if err != nil {
				h.log.Error().Err(err).Msg("encode event")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
