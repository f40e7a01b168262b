package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/services"
	"github.com/Saaayurii/Chat-sub000/internal/shared/biztime"
	protocol "github.com/Saaayurii/Chat-sub000/internal/shared/hubprotocol/operator"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 8192
	directoryWait  = 5 * time.Second
)

// WSHandler serves operator console connections on GET /transfer/ws.
type WSHandler struct {
	hub       *services.OperatorHub
	directory operator.Directory
	upgrader  websocket.Upgrader
	logger    logger.Interface
}

func NewWSHandler(hub *services.OperatorHub, directory operator.Directory, allowedOrigins []string, log logger.Interface) *WSHandler {
	return &WSHandler{
		hub:       hub,
		directory: directory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Serve upgrades the request. It must run after RequireOperator: a session
// may only join the channel of the authenticated operator.
// @Summary Operator console socket
// @Description WebSocket upgrade. Browsers pass the bearer token as the token query parameter.
// @Tags realtime
// @Param token query string false "Operator token"
// @Success 101
// @Failure 401 {object} utils.APIResponse
// @Router /transfer/ws [get]
func (h *WSHandler) Serve(c *gin.Context) {
	operatorID := callerID(c)
	if operatorID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("failed to upgrade to websocket",
			"error", err,
			"operator_id", operatorID,
			"ip", c.ClientIP(),
		)
		return
	}

	session, err := h.hub.Open(c.ClientIP())
	if err != nil {
		h.logger.Warnw("rejecting operator websocket", "error", err, "operator_id", operatorID)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	h.logger.Infow("operator websocket connected",
		"session_id", session.ID,
		"operator_id", operatorID,
		"ip", c.ClientIP(),
	)

	go h.writePump(session, conn)
	h.readPump(session, conn, operatorID)
}

func (h *WSHandler) readPump(session *services.OperatorSession, conn *websocket.Conn, operatorID string) {
	defer func() {
		h.hub.Close(session.ID)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnw("operator websocket read error",
					"error", err,
					"session_id", session.ID,
				)
			}
			return
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.reply(session.ID, protocol.MsgError, map[string]string{"message": "malformed message"})
			continue
		}

		h.handle(session.ID, operatorID, &msg)
	}
}

func (h *WSHandler) handle(sessionID, operatorID string, msg *protocol.ClientMessage) {
	switch msg.Type {
	case protocol.MsgJoin:
		var data protocol.JoinData
		_ = json.Unmarshal(msg.Data, &data)
		if data.OperatorID != "" && data.OperatorID != operatorID {
			h.reply(sessionID, protocol.MsgError, map[string]string{"message": "cannot join another operator's channel"})
			return
		}
		if err := h.hub.Join(sessionID, operatorID); err != nil {
			h.reply(sessionID, protocol.MsgError, map[string]string{"message": err.Error()})
			return
		}
		h.reply(sessionID, protocol.MsgJoined, map[string]string{"channel": protocol.OperatorChannel(operatorID)})

	case protocol.MsgLeave:
		if err := h.hub.Leave(sessionID); err != nil {
			h.reply(sessionID, protocol.MsgError, map[string]string{"message": err.Error()})
			return
		}
		h.reply(sessionID, protocol.MsgLeft, nil)

	case protocol.MsgAvailability:
		var data protocol.AvailabilityData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			h.reply(sessionID, protocol.MsgError, map[string]string{"message": "invalid availability payload"})
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), directoryWait)
		defer cancel()
		if err := h.directory.SetOnline(ctx, operatorID, data.Online); err != nil {
			h.logger.Warnw("failed to update availability", "operator_id", operatorID, "error", err)
			h.reply(sessionID, protocol.MsgError, map[string]string{"message": "failed to update availability"})
			return
		}
		h.reply(sessionID, protocol.MsgAvailability, map[string]bool{"online": data.Online})

	case protocol.MsgAck:
		var data protocol.AckData
		_ = json.Unmarshal(msg.Data, &data)
		h.logger.Infow("transfer offer acknowledged",
			"operator_id", operatorID,
			"transfer_id", data.TransferID)
		h.reply(sessionID, protocol.MsgAckOK, map[string]string{"transfer_id": data.TransferID})

	default:
		h.reply(sessionID, protocol.MsgError, map[string]string{"message": "unknown message type: " + msg.Type})
	}
}

func (h *WSHandler) reply(sessionID, msgType string, data any) {
	err := h.hub.SendTo(sessionID, &protocol.ServerMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: biztime.NowUTC().UnixMilli(),
	})
	if err != nil {
		h.logger.Debugw("reply not delivered", "session_id", sessionID, "type", msgType, "error", err)
	}
}

// writePump is the only writer of conn. It exits when the hub closes the
// session's send channel.
func (h *WSHandler) writePump(session *services.OperatorSession, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-session.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Warnw("failed to write to operator websocket",
					"error", err,
					"session_id", session.ID,
				)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
