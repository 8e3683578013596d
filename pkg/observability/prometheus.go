package observability

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics registers collectors lazily on first use. The label set
// of a metric is fixed by its first sample; later samples with different
// tag keys are dropped and logged.
type PrometheusMetrics struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

// NewPrometheusMetrics creates a registry preloaded with the Go runtime and
// process collectors.
func NewPrometheusMetrics(logger *slog.Logger) *PrometheusMetrics {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &PrometheusMetrics{
		registry:   reg,
		logger:     logger,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	keys, values := splitTags(tags)
	m.mu.Lock()
	if !m.sameLabels(name, keys) {
		m.mu.Unlock()
		m.logger.Debug("dropping sample with unexpected labels", "metric", name, "labels", keys)
		return
	}
	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: promName(name), Help: name}, keys)
		if !m.register(name, vec) {
			m.mu.Unlock()
			return
		}
		m.counters[name] = vec
	}
	m.mu.Unlock()

	c, err := vec.GetMetricWithLabelValues(values...)
	if err != nil {
		m.logger.Debug("dropping counter sample", "metric", name, "error", err)
		return
	}
	c.Add(float64(value))
}

func (m *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	keys, values := splitTags(tags)
	m.mu.Lock()
	if !m.sameLabels(name, keys) {
		m.mu.Unlock()
		m.logger.Debug("dropping sample with unexpected labels", "metric", name, "labels", keys)
		return
	}
	vec, ok := m.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: promName(name), Help: name}, keys)
		if !m.register(name, vec) {
			m.mu.Unlock()
			return
		}
		m.gauges[name] = vec
	}
	m.mu.Unlock()

	g, err := vec.GetMetricWithLabelValues(values...)
	if err != nil {
		m.logger.Debug("dropping gauge sample", "metric", name, "error", err)
		return
	}
	g.Set(value)
}

func (m *PrometheusMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.observe(name, value, prometheus.DefBuckets, tags)
}

// Timing records seconds, the Prometheus base unit.
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.observe(name, duration.Seconds(), prometheus.DefBuckets, tags)
}

func (m *PrometheusMetrics) observe(name string, value float64, buckets []float64, tags []Tag) {
	keys, values := splitTags(tags)
	m.mu.Lock()
	if !m.sameLabels(name, keys) {
		m.mu.Unlock()
		m.logger.Debug("dropping sample with unexpected labels", "metric", name, "labels", keys)
		return
	}
	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    promName(name),
			Help:    name,
			Buckets: buckets,
		}, keys)
		if !m.register(name, vec) {
			m.mu.Unlock()
			return
		}
		m.histograms[name] = vec
	}
	m.mu.Unlock()

	o, err := vec.GetMetricWithLabelValues(values...)
	if err != nil {
		m.logger.Debug("dropping histogram sample", "metric", name, "error", err)
		return
	}
	o.Observe(value)
}

func (m *PrometheusMetrics) register(name string, c prometheus.Collector) bool {
	if err := m.registry.Register(c); err != nil {
		m.logger.Warn("metric registration failed", "metric", name, "error", err)
		return false
	}
	return true
}

// sameLabels must be called with mu held.
func (m *PrometheusMetrics) sameLabels(name string, keys []string) bool {
	known, ok := m.labels[name]
	if !ok {
		m.labels[name] = keys
		return true
	}
	if len(known) != len(keys) {
		return false
	}
	for i := range known {
		if known[i] != keys[i] {
			return false
		}
	}
	return true
}

// splitTags sorts tags by key so label order is stable across call sites.
func splitTags(tags []Tag) ([]string, []string) {
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	keys := make([]string, len(sorted))
	values := make([]string, len(sorted))
	for i, t := range sorted {
		keys[i] = t.Key
		values[i] = t.Value
	}
	return keys, values
}

func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
