package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/ahameddd/food-review-app-real/internal/broadcast"
	"github.com/ahameddd/food-review-app-real/internal/domain"
	"github.com/ahameddd/food-review-app-real/internal/metrics"
	"github.com/ahameddd/food-review-app-real/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect from the static frontend origin
	},
}

// handleWebSocket runs one connection's session: attach (which replays the
// review backlog), then consume inbound envelopes until the connection closes.
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	sess, err := s.hub.Attach(conn)
	if err != nil {
		slog.Warn("Failed to attach client", "error", err)
		return nil
	}

	limiter := rate.NewLimiter(rate.Limit(s.config.MessageRateLimit), s.config.MessageRateBurst)
	ctx := c.Request().Context()

	// Read pump. A read error is the normal termination path, from either side.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		s.dispatch(sess, data)
	}

	s.hub.Detach(sess)
	return nil
}

func (s *Server) dispatch(sess *broadcast.Session, data []byte) {
	inbound, err := protocol.Decode(data)
	if err != nil {
		s.reportProtocolError(sess, err)
		return
	}

	switch inbound.Type {
	case protocol.TypeJoin:
		s.handleJoin(sess, inbound.Join)
	case protocol.TypeReview:
		s.handleReview(sess, inbound.Review)
	}
}

func (s *Server) handleJoin(sess *broadcast.Session, join *protocol.Join) {
	s.hub.SetName(sess, join.Username)

	notice, err := protocol.EncodeSystem(fmt.Sprintf("%s has joined the chat", join.Username), s.timestamp())
	if err != nil {
		slog.Error("Failed to encode join notice", "error", err)
		return
	}
	s.hub.Broadcast(notice, sess)
}

func (s *Server) handleReview(sess *broadcast.Session, rev *protocol.Review) {
	timestamp := rev.Timestamp
	if timestamp == "" {
		timestamp = s.timestamp()
	}

	record := domain.Review{
		Username:   rev.Username,
		Restaurant: rev.Restaurant,
		Text:       rev.Review,
		Ratings:    rev.Ratings,
		Sentiment:  s.classifier.Classify(rev.Review),
		Timestamp:  timestamp,
	}
	s.hub.PublishReview(record)
}

// reportProtocolError sends an error envelope to the offending connection only.
// The session stays open; other clients are unaffected.
func (s *Server) reportProtocolError(sess *broadcast.Session, decodeErr error) {
	reason := "malformed_payload"
	message := "Invalid JSON format"
	if errors.Is(decodeErr, protocol.ErrUnknownMessageType) {
		reason = "unknown_message_type"
		message = "Unknown message type"
	}
	metrics.ProtocolErrorsTotal.WithLabelValues(reason).Inc()
	slog.Debug("Protocol error", "reason", reason, "error", decodeErr)

	notice, err := protocol.EncodeError(message)
	if err != nil {
		slog.Error("Failed to encode error notice", "error", err)
		return
	}
	sess.Send(notice)
}

func (s *Server) timestamp() string {
	return s.clock.Now().UTC().Format(time.RFC3339)
}
