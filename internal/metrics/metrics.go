package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebSocket connection metrics
var (
	// ConnectionsTotal counts accepted WebSocket connections over the process lifetime
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total WebSocket connections accepted",
		},
	)

	// ConnectedClients tracks currently attached WebSocket clients
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Number of currently connected WebSocket clients",
		},
	)

	// MessageSendDuration tracks per-message WebSocket write latency in seconds
	MessageSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "websocket_message_send_duration_seconds",
			Help:    "WebSocket message send duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// PingFailures counts keepalive pings that failed to write
	PingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_ping_failures_total",
			Help: "Total WebSocket ping write failures",
		},
	)
)

// Hub metrics
var (
	// BroadcastsTotal counts fan-out operations issued by the hub
	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total broadcast fan-out operations",
		},
	)

	// DeliveryFailures counts per-recipient delivery failures during fan-out
	DeliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_delivery_failures_total",
			Help: "Total per-recipient delivery failures during broadcast",
		},
	)

	// CommandChannelDepth tracks the hub command channel backlog
	CommandChannelDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_command_channel_depth",
			Help: "Current depth of the hub command channel",
		},
	)
)

// Review processing metrics
var (
	// ReviewsTotal counts processed reviews by derived sentiment label
	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_processed_total",
			Help: "Total reviews processed by sentiment label",
		},
		[]string{"sentiment"},
	)

	// BacklogReplaySize tracks how many records each new connection received on replay
	BacklogReplaySize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backlog_replay_records",
			Help:    "Number of review records replayed to a new connection",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		},
	)

	// ProtocolErrorsTotal counts inbound protocol errors by reason
	ProtocolErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protocol_errors_total",
			Help: "Total inbound protocol errors by reason",
		},
		[]string{"reason"},
	)
)
