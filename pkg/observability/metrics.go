package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics is the sink for counters, gauges and latency samples. All
// implementations are safe for concurrent use.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is one metric label.
type Tag struct {
	Key   string
	Value string
}

func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards every sample.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Histogram(string, float64, ...Tag)    {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

type sampleKind uint8

const (
	kindCounter sampleKind = iota
	kindGauge
	kindHistogram
	kindTiming
)

type seriesKey struct {
	kind sampleKind
	id   string
}

// InMemoryMetrics keeps every series in one map keyed by kind, name and
// sorted tags. Used by tests and by the CLI when no exporter is configured.
type InMemoryMetrics struct {
	mu     sync.RWMutex
	series map[seriesKey][]float64
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{series: make(map[seriesKey][]float64)}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.record(kindCounter, name, tags, func(prev []float64) []float64 {
		if len(prev) == 0 {
			return []float64{float64(value)}
		}
		prev[0] += float64(value)
		return prev
	})
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.record(kindGauge, name, tags, func([]float64) []float64 { return []float64{value} })
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.record(kindHistogram, name, tags, func(prev []float64) []float64 { return append(prev, value) })
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.record(kindTiming, name, tags, func(prev []float64) []float64 { return append(prev, float64(duration)) })
}

func (m *InMemoryMetrics) record(kind sampleKind, name string, tags []Tag, update func([]float64) []float64) {
	key := seriesKey{kind: kind, id: seriesID(name, tags)}
	m.mu.Lock()
	m.series[key] = update(m.series[key])
	m.mu.Unlock()
}

func (m *InMemoryMetrics) samples(kind sampleKind, name string, tags []Tag) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.series[seriesKey{kind: kind, id: seriesID(name, tags)}])
}

// GetCounter returns the accumulated counter value, zero when never written.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	if v := m.samples(kindCounter, name, tags); len(v) > 0 {
		return int64(v[0])
	}
	return 0
}

func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	if v := m.samples(kindGauge, name, tags); len(v) > 0 {
		return v[0]
	}
	return 0
}

func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	return m.samples(kindHistogram, name, tags)
}

func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	raw := m.samples(kindTiming, name, tags)
	out := make([]time.Duration, len(raw))
	for i, v := range raw {
		out[i] = time.Duration(v)
	}
	return out
}

// Reset drops every recorded series.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	clear(m.series)
	m.mu.Unlock()
}

// seriesID renders name{k=v,...} with tags sorted by key so callers may pass
// tags in any order.
func seriesID(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Metric names recorded by garage.
const (
	MetricOperationTotal    = "garage.operation.total"
	MetricOperationDuration = "garage.operation.duration"
	MetricOperationErrors   = "garage.operation.errors"

	// Assignment validation
	MetricValidationDecisions = "garage.scheduling.decisions"
	MetricValidationDuration  = "garage.scheduling.validation_duration"
	MetricLockWait            = "garage.scheduling.lock_wait"
	MetricBreakerState        = "garage.scheduling.breaker_state"

	// Appointments
	MetricAppointmentsCreated = "garage.appointments.created"
	MetricSlotsAssigned       = "garage.appointments.slots_assigned"
	MetricArticleLinesSkipped = "garage.appointments.article_lines_skipped"
	MetricQuotesCreated       = "garage.quotes.created"

	// Outbox
	MetricEventsPublished = "garage.events.published"
	MetricOutboxFailures  = "garage.outbox.failures"
	MetricOutboxLag       = "garage.outbox.lag_seconds"
)
