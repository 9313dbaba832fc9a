// Package ops exposes the operations surface: a /healthz endpoint
// reporting whether the simulation loop is ticking, and a /metrics endpoint
// in Prometheus exposition format. Metric cardinality is bounded — no
// per-client labels — so a large lobby churn can't blow up the exporter.
package ops

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rtype_tick_duration_seconds",
		Help:    "Wall-clock time spent running one simulation tick.",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033},
	})

	TicksRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtype_ticks_total",
		Help: "Total simulation ticks executed.",
	})

	CatchupTicksRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtype_catchup_ticks_total",
		Help: "Ticks executed beyond the first within a single Advance call.",
	})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtype_connected_clients",
		Help: "Currently connected clients, any state.",
	})

	ActiveLobbies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtype_active_lobbies",
		Help: "Currently open lobbies.",
	})

	EntityCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rtype_entities",
		Help: "Live entity count in the running simulation.",
	})

	// Bounded label set: "malformed", "protocol_violation", "rate_limited",
	// "timeout", "udp_silent", "closed" (a clean session close, e.g. a
	// client leaving before the game starts, or server shutdown).
	Disconnects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rtype_disconnects_total",
		Help: "Client disconnects by cause.",
	}, []string{"reason"})

	SnapshotBytesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rtype_snapshot_bytes_total",
		Help: "Total bytes sent across all EntityCreate/Update/Destroy and GameState frames.",
	})
)

func RecordTick(d time.Duration) { TickDuration.Observe(d.Seconds()) }

func RecordDisconnect(reason string) { Disconnects.WithLabelValues(reason).Inc() }
