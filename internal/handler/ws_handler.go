package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/middleware"
	"github.com/edutrain/training-backend/internal/response"
	ws "github.com/edutrain/training-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// EventSubscriber opens a subscription to the admin events channel.
type EventSubscriber interface {
	Subscribe(ctx context.Context) *redis.PubSub
}

// WSHandler streams entity mutations to connected admin dashboards.
type WSHandler struct {
	events   EventSubscriber
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(events EventSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		events:   events,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AdminEvents godoc
// WS /ws/v1/admin/events?token=
// Upgrades to WebSocket and forwards every published mutation event.
func (h *WSHandler) AdminEvents(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.events.Subscribe(ctx)
	defer sub.Close()

	wsLog := h.log.With().Uint64("user_id", claims.UserID).Logger()

	// Receive blocks until the subscription is confirmed, so no event
	// published after "ready" can be missed.
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe failed")
		ws.WriteError(conn, "event feed unavailable")
		return
	}
	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Channel: config.CacheKey.AdminEventsChannel()}); err != nil {
		return
	}

	wsLog.Info().Msg("Admin connected to event feed")

	pings := make(chan struct{}, 1)
	closed := make(chan struct{})
	go h.readLoop(conn, wsLog, pings, closed)

	messages := sub.Channel()
	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			wsLog.Debug().Msg("Connection closed")
			return
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := ws.WriteTyped(conn, ws.MutationResponse{Event: ws.EventMutation, Data: []byte(msg.Payload)}); err != nil {
				wsLog.Warn().Err(err).Msg("Event write failed")
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop owns all reads on conn. Application-level pings are handed to the
// writer through pings; closed is closed once the peer goes away.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, pings chan<- struct{}, closed chan<- struct{}) {
	defer close(closed)

	ws.KeepAlive(conn)
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			select {
			case pings <- struct{}{}:
			default:
			}
		default:
			wsLog.Debug().Str("action", string(msg.Action)).Msg("Ignoring client message")
		}
	}
}
