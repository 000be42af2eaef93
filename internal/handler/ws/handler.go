package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/moodlens/moodlens/backend/internal/model/emotion"
	statsservice "github.com/moodlens/moodlens/backend/internal/service/stats"
	"github.com/moodlens/moodlens/backend/pkg/logger"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

// inboundRecord is the one message shape clients send. Payloads failing
// validation are dropped without closing the connection.
type inboundRecord struct {
	Emotion    string   `json:"emotion" validate:"required,oneof=happy sad angry surprised neutral"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
	Timestamp  *int64   `json:"timestamp" validate:"required"`
}

// Handler upgrades connections and feeds inbound records to the aggregator.
type Handler struct {
	stats    *statsservice.Service
	validate *validator.Validate
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

// New creates the websocket ingest handler.
func New(stats *statsservice.Service) *Handler {
	return &Handler{
		stats:    stats,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logger.Component("websocket"),
	}
}

// RegisterRoutes registers the ingest socket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleSocket)
}

// handleSocket owns the connection lifecycle: one connection is one
// session, opened on upgrade and finalized when the read loop exits.
func (h *Handler) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	connID := uuid.NewString()
	sessionID := h.stats.OpenSession(ctx)

	connections, _ := h.stats.Health()
	h.log.WithFields(logger.Fields{
		"conn":        connID,
		"session":     sessionID,
		"connections": connections,
	}).Info("client connected")

	defer func() {
		session, err := h.stats.CloseSession(ctx, sessionID)
		if err != nil {
			h.log.WithField("session", sessionID).WithError(err).Error("close failed")
			return
		}
		h.log.WithFields(logger.Fields{
			"conn":     connID,
			"session":  sessionID,
			"duration": session.Duration,
		}).Info("session ended")
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, done)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.WithField("session", sessionID).WithError(err).Warn("read error")
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		h.handlePayload(ctx, sessionID, payload)
	}
}

// handlePayload parses and validates one inbound frame. Malformed or
// incomplete payloads are dropped, never fatal.
func (h *Handler) handlePayload(ctx context.Context, sessionID int64, payload []byte) {
	var msg inboundRecord
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.log.WithField("session", sessionID).Debug("dropping unparseable payload")
		return
	}
	if err := h.validate.Struct(msg); err != nil {
		h.log.WithField("session", sessionID).Debug("dropping invalid payload")
		return
	}

	h.stats.Ingest(ctx, sessionID, emotion.Record{
		Emotion:    emotion.Label(msg.Emotion),
		Confidence: *msg.Confidence,
		Timestamp:  *msg.Timestamp,
	})
}

// pingLoop keeps idle connections alive until the read loop exits.
func (h *Handler) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
