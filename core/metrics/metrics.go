package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "entity_store"

// Metrics holds the collectors.
type Metrics struct {
	ingested  *prometheus.CounterVec
	removed   *prometheus.CounterVec
	emissions *prometheus.CounterVec
	requests  *prometheus.HistogramVec
	gatherer  prometheus.Gatherer
}

// New creates the collectors and registers them on reg. A nil reg uses a
// fresh private registry.
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_ingested_total",
			Help:      "Records stored by ingestion, nested relations included.",
		}, []string{"type"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_removed_total",
			Help:      "Records deleted by id.",
		}, []string{"type"}),
		emissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_emissions_total",
			Help:      "Debounced change notifications emitted.",
		}, []string{"type"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_request_duration_seconds",
			Help:      "Outbound sync request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
		gatherer: reg,
	}
	for _, c := range []prometheus.Collector{m.ingested, m.removed, m.emissions, m.requests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordIngest counts records stored for typ.
func (m *Metrics) RecordIngest(typ string, records int) {
	if records > 0 {
		m.ingested.WithLabelValues(typ).Add(float64(records))
	}
}

// RecordRemove counts one removed record of typ.
func (m *Metrics) RecordRemove(typ string) {
	m.removed.WithLabelValues(typ).Inc()
}

// ObserveChange counts one change emission for typ.
func (m *Metrics) ObserveChange(typ string) {
	m.emissions.WithLabelValues(typ).Inc()
}

// ObserveRequest records an outbound request. Status 0 means no response.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, label).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
