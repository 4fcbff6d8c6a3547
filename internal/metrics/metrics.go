// Package metrics exposes journal and corpus activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"impuls/internal/impulse"
	"impuls/internal/logarchive"
)

const namespace = "impuls"

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	impulses      *prometheus.CounterVec
	deltaF        prometheus.Histogram
	corpusEntries prometheus.Gauge
	corpusSkipped prometheus.Gauge
	corpusErrors  prometheus.Gauge
	corpusLoads   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		impulses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "impulses_registered_total",
			Help:      "Impulses registered, by zone, archive room and chronicle level.",
		}, []string{"zone", "archiv_room", "chronik_level"}),
		deltaF: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "impulse_delta_f",
			Help:      "Distribution of ΔF over registered impulses.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		corpusEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_entries",
			Help:      "Valid log entries found by the last corpus load.",
		}),
		corpusSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_skipped_documents",
			Help:      "Documents skipped by the last corpus load because they failed validation.",
		}),
		corpusErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_read_errors",
			Help:      "Documents that could not be read during the last corpus load.",
		}),
		corpusLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corpus_loads_total",
			Help:      "Completed corpus loads.",
		}),
	}

	m.registry.MustRegister(
		m.impulses,
		m.deltaF,
		m.corpusEntries,
		m.corpusSkipped,
		m.corpusErrors,
		m.corpusLoads,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveImpulse implements journal.Observer.
func (m *Metrics) ObserveImpulse(e impulse.Enriched) {
	m.impulses.WithLabelValues(string(e.Zone), string(e.Meta.ArchivRoom), string(e.Meta.Chronik.Level)).Inc()
	m.deltaF.Observe(e.Meta.DeltaF)
}

func (m *Metrics) ObserveCorpus(r *logarchive.Result) {
	if r == nil {
		return
	}
	m.corpusEntries.Set(float64(len(r.Entries)))
	m.corpusSkipped.Set(float64(r.Skipped))
	m.corpusErrors.Set(float64(len(r.Errors)))
	m.corpusLoads.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
