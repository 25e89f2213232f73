// Package metrics holds the Prometheus counters for authentication and
// playlist access decisions.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for auth_attempts_total.
const (
	OutcomeSuccess          = "success"
	OutcomeUnknownUser      = "unknown_user"
	OutcomePasswordMismatch = "password_mismatch"
	OutcomeTokenInvalid     = "token_invalid"
	OutcomeNotRecognized    = "not_recognized"
	OutcomeError            = "error"
)

// Metrics is safe to use as a nil pointer, in which case nothing is recorded.
type Metrics struct {
	AuthAttempts    *prometheus.CounterVec
	AccessDecisions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openmusic_auth_attempts_total",
				Help: "Authentication operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		AccessDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "openmusic_playlist_access_decisions_total",
				Help: "Playlist access decisions by result",
			},
			[]string{"decision"},
		),
	}
}

// Register adds the counters to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.AuthAttempts, m.AccessDecisions} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "[Metrics.Register]")
		}
	}
	return nil
}

func (m *Metrics) RecordAuth(op, outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) RecordAccess(decision string) {
	if m == nil {
		return
	}
	m.AccessDecisions.WithLabelValues(decision).Inc()
}
