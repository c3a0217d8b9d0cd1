package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "roundtable"

// Collector counts the events the round core reports: malformed entries it
// dropped, guarded commands it rejected and timeout transitions it forced.
type Collector struct {
	dropped  *prometheus.CounterVec
	rejected *prometheus.CounterVec
	forced   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "dropped_entries_total",
				Help:      "Malformed entries dropped by the entity registry, by kind",
			},
			[]string{"kind"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sequencer",
				Name:      "rejected_commands_total",
				Help:      "Guarded entry points rejected because their preconditions failed",
			},
			[]string{"command"},
		),
		forced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "phase",
				Name:      "forced_transitions_total",
				Help:      "Timeout-driven escape transitions, by deadline kind",
			},
			[]string{"transition"},
		),
	}
	reg.MustRegister(c.dropped, c.rejected, c.forced)
	return c
}

func (c *Collector) Dropped(kind string) {
	c.dropped.WithLabelValues(kind).Inc()
}

func (c *Collector) Rejected(command string) {
	c.rejected.WithLabelValues(command).Inc()
}

func (c *Collector) Forced(transition string) {
	c.forced.WithLabelValues(transition).Inc()
}
