package workflow

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes engine counters. A nil *Metrics is valid and records
// nothing, so tests can run without a registry.
type Metrics struct {
	nodeExecutions *prometheus.CounterVec
	nodeFailures   *prometheus.CounterVec
	waits          prometheus.Counter
	invocations    prometheus.Counter
}

// NewMetrics registers the engine counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		nodeExecutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hireloop_node_executions_total",
				Help: "Total number of workflow node executions",
			},
			[]string{"node"},
		),
		nodeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hireloop_node_failures_total",
				Help: "Total number of workflow node failures",
			},
			[]string{"node"},
		),
		waits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hireloop_workflow_waits_total",
			Help: "Total number of pauses at human-approval gates",
		}),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hireloop_workflow_invocations_total",
			Help: "Total number of graph invocations",
		}),
	}
	reg.MustRegister(m.nodeExecutions, m.nodeFailures, m.waits, m.invocations)
	return m
}

func (m *Metrics) nodeExecuted(node NodeName) {
	if m == nil {
		return
	}
	m.nodeExecutions.WithLabelValues(string(node)).Inc()
}

func (m *Metrics) nodeFailed(node NodeName) {
	if m == nil {
		return
	}
	m.nodeFailures.WithLabelValues(string(node)).Inc()
}

func (m *Metrics) waited() {
	if m == nil {
		return
	}
	m.waits.Inc()
}

func (m *Metrics) invoked() {
	if m == nil {
		return
	}
	m.invocations.Inc()
}
