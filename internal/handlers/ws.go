package handlers

import (
	"encoding/json"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"

	"github.com/eosyam/scrum-game/internal/config"
	"github.com/eosyam/scrum-game/internal/models"
	"github.com/eosyam/scrum-game/internal/security"
	"github.com/eosyam/scrum-game/internal/services"
)

type WSHandler struct {
	hub     *services.Hub
	session *services.Session
	origins *security.OriginValidator
	limiter *security.RateLimiter
}

func NewWSHandler(hub *services.Hub, session *services.Session, origins *security.OriginValidator) *WSHandler {
	return &WSHandler{
		hub:     hub,
		session: session,
		origins: origins,
		limiter: security.NewRateLimiter(config.MaxMessagesPerSecond, config.RateLimitWindow),
	}
}

// HandleWebSocket upgrades the request, assigns the connection its id and
// runs the read loop until the transport drops. Room membership is
// established later, by the client's joinRoom event.
func (h *WSHandler) HandleWebSocket(re *core.RequestEvent) error {
	conn, err := websocket.Accept(re.Response, re.Request, h.origins.GetAcceptOptions())
	if err != nil {
		return err
	}

	connID := uuid.NewString()
	client := services.NewClient(conn, h.hub, connID)
	h.hub.Register(client)
	client.Start()

	// The client needs its own connection id to recognise targeted frames
	// and to let a facilitator target it.
	h.hub.SendToConnection(connID, &models.OutMessage{
		Type:    models.MsgTypeConnected,
		Payload: models.ConnectedPayload{SocketID: connID},
	})

	defer func() {
		h.hub.Unregister(client)
		h.limiter.Remove(connID)
		h.session.Disconnect(connID)
	}()

	for {
		// No read deadline: a participant may sit and watch for hours without
		// sending a frame. Dead peers are detected by the write pump's pings,
		// which cancel the client context and unblock this read.
		_, data, err := conn.Read(client.Context())
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				h.hub.Metrics().IncrementConnectionErrors()
			}
			return nil
		}

		var msg models.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			re.App.Logger().Warn("error unmarshaling message", "conn", connID, "error", err)
			continue
		}

		if !security.IsValidMessageType(msg.Type) {
			re.App.Logger().Warn("dropping unknown message type", "conn", connID, "type", msg.Type)
			continue
		}

		if !h.limiter.Allow(connID) {
			h.hub.Metrics().IncrementRateLimitViolations()
			h.hub.SendToConnection(connID, &models.OutMessage{
				Type: models.MsgTypeError,
				Payload: map[string]string{
					"message": "Rate limit exceeded. Please slow down.",
				},
			})
			continue
		}

		h.hub.Metrics().IncrementMessagesReceived()
		h.session.HandleMessage(connID, &msg)
	}
}
