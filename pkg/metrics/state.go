package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateMetrics records activity of the shopper state containers.
type StateMetrics struct {
	mutations     *prometheus.CounterVec
	loadFailures  *prometheus.CounterVec
	saveFailures  *prometheus.CounterVec
	malformedData *prometheus.CounterVec
}

// NewStateMetrics registers the state metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStateMetrics(reg prometheus.Registerer) *StateMetrics {
	if reg == nil {
		return &StateMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_state_mutations_total",
		Help: "Mutations applied to shopper state containers.",
	}, []string{"container", "op"})
	loadFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_state_load_failures_total",
		Help: "Storage reads that failed while hydrating a container.",
	}, []string{"container"})
	saveFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_state_save_failures_total",
		Help: "Storage writes that failed after a mutation.",
	}, []string{"container"})
	malformed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_state_malformed_total",
		Help: "Stored values discarded because they did not match the expected shape.",
	}, []string{"container"})
	reg.MustRegister(mutations, loadFailures, saveFailures, malformed)
	return &StateMetrics{
		mutations:     mutations,
		loadFailures:  loadFailures,
		saveFailures:  saveFailures,
		malformedData: malformed,
	}
}

func (m *StateMetrics) IncMutation(container, op string) {
	if m == nil || m.mutations == nil {
		return
	}
	m.mutations.WithLabelValues(normalizeLabel(container), normalizeLabel(op)).Inc()
}

func (m *StateMetrics) IncLoadFailure(container string) {
	if m == nil || m.loadFailures == nil {
		return
	}
	m.loadFailures.WithLabelValues(normalizeLabel(container)).Inc()
}

func (m *StateMetrics) IncSaveFailure(container string) {
	if m == nil || m.saveFailures == nil {
		return
	}
	m.saveFailures.WithLabelValues(normalizeLabel(container)).Inc()
}

func (m *StateMetrics) IncMalformed(container string) {
	if m == nil || m.malformedData == nil {
		return
	}
	m.malformedData.WithLabelValues(normalizeLabel(container)).Inc()
}

// Handler exposes the gatherer over HTTP in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
