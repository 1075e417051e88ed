package broadcast

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/ahameddd/food-review-app-real/internal/domain"
	"github.com/ahameddd/food-review-app-real/internal/metrics"
	"github.com/ahameddd/food-review-app-real/internal/protocol"
	"github.com/ahameddd/food-review-app-real/internal/review"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

// Session is the opaque per-connection handle. Created by Attach, destroyed by
// Detach; a live Session always corresponds to an open connection.
type Session struct {
	ID     uuid.UUID
	conn   *websocket.Conn
	writer *clientWriter
}

// Send queues a message for this connection only, bypassing fan-out. Used for
// error envelopes addressed to the offending client. Returns false when the
// connection is already gone.
func (s *Session) Send(data []byte) bool {
	return s.writer.trySend(data)
}

// --- Command types ---

type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type attachResult struct {
	session *Session
	err     error
}

type attachCmd struct {
	baseHubCmd
	connection   *websocket.Conn
	replyChannel chan attachResult
}

type setNameCmd struct {
	baseHubCmd
	session *Session
	name    string
}

type detachCmd struct {
	baseHubCmd
	session *Session
}

type broadcastCmd struct {
	baseHubCmd
	data    []byte
	exclude *Session
}

type publishReviewCmd struct {
	baseHubCmd
	record domain.Review
}

type countCmd struct {
	baseHubCmd
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// Hub owns the client registry and the review log. A single goroutine consumes
// commands, so registry mutation, backlog replay, and fan-out never interleave.
type Hub struct {
	cmdCh      chan hubCmd
	clock      clockwork.Clock
	clients    map[*Session]string
	reviews    *review.Log
	maxClients int
	done       chan struct{}
}

// NewHub creates the hub and starts its actor goroutine. reviews may be
// pre-seeded; the hub takes ownership and it must not be touched afterwards.
func NewHub(reviews *review.Log, clock clockwork.Clock, maxClients int) *Hub {
	h := &Hub{
		cmdCh:      make(chan hubCmd, 256),
		clock:      clock,
		clients:    make(map[*Session]string),
		reviews:    reviews,
		maxClients: maxClients,
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

// Attach registers a new connection: it creates the write goroutine, replays
// the full review backlog to this connection only (oldest first), and inserts
// the session into the registry as one atomic command. The connection carries
// no display name until a join message arrives.
func (h *Hub) Attach(conn *websocket.Conn) (*Session, error) {
	replyCh := make(chan attachResult, 1)
	h.cmdCh <- attachCmd{connection: conn, replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case result := <-replyCh:
		return result.session, result.err
	case <-timer.Chan():
		return nil, fmt.Errorf("attach command timed out after %v", commandTimeout)
	}
}

// SetName inserts or overwrites the display name for a session. Announcing the
// join is the caller's responsibility; registry mutation has no side effects.
func (h *Hub) SetName(sess *Session, name string) {
	h.cmdCh <- setNameCmd{session: sess, name: name}
}

// Detach removes a session, stops its writer, and broadcasts a departure notice
// to the remaining clients if the session had joined. Safe to call more than
// once and safe to call for sessions that never joined.
func (h *Hub) Detach(sess *Session) {
	h.cmdCh <- detachCmd{session: sess}
}

// Broadcast delivers data to every attached session except exclude. Pass nil to
// reach everyone.
func (h *Hub) Broadcast(data []byte, exclude *Session) {
	h.cmdCh <- broadcastCmd{data: data, exclude: exclude}
}

// PublishReview appends the record to the review log and broadcasts it to every
// attached session, sender included. Append and fan-out execute as one command,
// so a concurrently attaching client sees the record exactly once: either in its
// backlog or in the broadcast, never both.
func (h *Hub) PublishReview(rec domain.Review) {
	h.cmdCh <- publishReviewCmd{record: rec}
}

// Count returns the number of attached sessions. Observability only; returns -1
// if the command times out.
func (h *Hub) Count() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- countCmd{replyChannel: replyCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("Count timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the hub, closing all client connections. Blocks until the
// actor goroutine has exited or the stop timeout is reached.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (h *Hub) run() {
	defer close(h.done)

	for cmd := range h.cmdCh {
		metrics.CommandChannelDepth.Set(float64(len(h.cmdCh)))

		switch c := cmd.(type) {
		case attachCmd:
			h.handleAttach(c)
		case setNameCmd:
			h.handleSetName(c)
		case detachCmd:
			h.remove(c.session)
		case broadcastCmd:
			h.broadcast(c.data, c.exclude)
		case publishReviewCmd:
			h.handlePublishReview(c)
		case countCmd:
			c.replyChannel <- len(h.clients)
		case stopCmd:
			h.handleStop()
			return
		default:
			slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (h *Hub) handleAttach(c attachCmd) {
	if h.maxClients > 0 && len(h.clients) >= h.maxClients {
		slog.Warn("Rejecting client: max clients reached", "max_clients", h.maxClients)
		_ = c.connection.Close()
		c.replyChannel <- attachResult{err: fmt.Errorf("max clients (%d) reached", h.maxClients)}
		return
	}

	backlog := h.reviews.Snapshot()
	writer := newClientWriter(c.connection, h.clock, len(backlog)+messageBufferSize)

	// Replay the backlog before the session becomes a broadcast recipient. The
	// writer queue is sized to hold all of it, so these sends cannot fail.
	for _, rec := range backlog {
		data, err := protocol.EncodeReview(rec)
		if err != nil {
			slog.Error("Failed to encode backlog record", "error", err)
			continue
		}
		writer.trySend(data)
	}

	sess := &Session{ID: uuid.New(), conn: c.connection, writer: writer}
	h.clients[sess] = ""

	metrics.ConnectionsTotal.Inc()
	metrics.ConnectedClients.Set(float64(len(h.clients)))
	metrics.BacklogReplaySize.Observe(float64(len(backlog)))

	slog.Debug("Client attached", "session_id", sess.ID.String(), "backlog", len(backlog), "total_clients", len(h.clients))
	c.replyChannel <- attachResult{session: sess}
}

func (h *Hub) handleSetName(c setNameCmd) {
	if _, ok := h.clients[c.session]; !ok {
		// Disconnect raced the join; nothing to register.
		return
	}
	h.clients[c.session] = c.name
	slog.Info("Client joined", "session_id", c.session.ID.String(), "username", c.name)
}

func (h *Hub) handlePublishReview(c publishReviewCmd) {
	data, err := protocol.EncodeReview(c.record)
	if err != nil {
		slog.Error("Failed to encode review", "error", err)
		return
	}

	h.reviews.Append(c.record)
	metrics.ReviewsTotal.WithLabelValues(string(c.record.Sentiment)).Inc()
	slog.Info("Review published",
		"username", c.record.Username,
		"restaurant", c.record.Restaurant,
		"sentiment", string(c.record.Sentiment),
	)

	h.broadcast(data, nil)
}

// broadcast fans data out to every session except exclude. Failures are
// collected during the loop and cleaned up afterwards, so a mid-broadcast
// eviction can never skip or double-visit another recipient.
func (h *Hub) broadcast(data []byte, exclude *Session) {
	metrics.BroadcastsTotal.Inc()

	var failed []*Session
	for sess := range h.clients {
		if sess == exclude {
			continue
		}
		if !sess.writer.trySend(data) {
			failed = append(failed, sess)
		}
	}

	for _, sess := range failed {
		slog.Warn("Delivery failed, disconnecting client", "session_id", sess.ID.String())
		metrics.DeliveryFailures.Inc()
		h.remove(sess)
	}
}

// remove is the single teardown path: writer stop, registry removal, and the
// departure notice if the session had joined. Presence check makes it
// idempotent, so a read-loop exit racing an eviction broadcasts at most once.
func (h *Hub) remove(sess *Session) {
	name, ok := h.clients[sess]
	if !ok {
		return
	}

	sess.writer.stop()
	delete(h.clients, sess)
	metrics.ConnectedClients.Set(float64(len(h.clients)))

	if name == "" {
		slog.Debug("Client detached before joining", "session_id", sess.ID.String())
		return
	}

	slog.Info("Client disconnected", "session_id", sess.ID.String(), "username", name)
	data, err := protocol.EncodeSystem(fmt.Sprintf("%s has left the chat", name), h.timestamp())
	if err != nil {
		slog.Error("Failed to encode departure notice", "error", err)
		return
	}
	h.broadcast(data, nil)
}

func (h *Hub) handleStop() {
	slog.Info("Hub shutting down", "clients", len(h.clients))
	for sess := range h.clients {
		sess.writer.stopGraceful("Server shutting down")
		delete(h.clients, sess)
	}
	metrics.ConnectedClients.Set(0)
}

func (h *Hub) timestamp() string {
	return h.clock.Now().UTC().Format(time.RFC3339)
}
