package syntax

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsKey groups an EMA bucket by language, tier, task class, and
// injection policy.
type metricsKey struct {
	Language string
	Tier Tier
	TaskClass Lane
	InjectionPolicy string
}

const emaAlpha = 0.2

type emaBucket struct {
	elapsedMs float64
	timeoutRate float64
	errorRate float64
	installRate float64
	seeded bool
}

func (b *emaBucket) observe(elapsedMs float64, timedOut, errored, installed bool) {
	obs := func(cur, x float64) float64 {
		if !b.seeded {
			return x
		}
		return emaAlpha*x + (1-emaAlpha)*cur
	}
	b.elapsedMs = obs(b.elapsedMs, elapsedMs)
	b.timeoutRate = obs(b.timeoutRate, boolF(timedOut))
	b.errorRate = obs(b.errorRate, boolF(errored))
	b.installRate = obs(b.installRate, boolF(installed))
	b.seeded = true
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Metrics tracks per-bucket EMAs and exports them as Prometheus gauges,
// grounded on vjache-cie/pkg/ingestion and evalgo-org-inos's use of
// client_golang gauges for pipeline latency tracking.
type Metrics struct {
	mu sync.Mutex
	buckets map[metricsKey]*emaBucket

	elapsedGauge *prometheus.GaugeVec
	timeoutGauge *prometheus.GaugeVec
	errorGauge *prometheus.GaugeVec
	installGauge *prometheus.GaugeVec
}

// NewMetrics creates a Metrics registered against reg (pass
// prometheus.NewRegistry() in tests to avoid global-registry collisions
// across parallel test binaries).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	labels := []string{"language", "tier", "task_class", "injection_policy"}
	m := &Metrics{
		buckets: make(map[metricsKey]*emaBucket),
		elapsedGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "xeno", Subsystem: "syntax", Name: "parse_elapsed_ms_ema",
			Help: "EMA of parse task elapsed time in milliseconds.",
		}, labels),
		timeoutGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "xeno", Subsystem: "syntax", Name: "parse_timeout_rate_ema",
			Help: "EMA of the parse task timeout rate.",
		}, labels),
		errorGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "xeno", Subsystem: "syntax", Name: "parse_error_rate_ema",
			Help: "EMA of the parse task error rate.",
		}, labels),
		installGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "xeno", Subsystem: "syntax", Name: "parse_install_rate_ema",
			Help: "EMA of the parse task tree-install success rate.",
		}, labels),
	}
	if reg != nil {
		reg.MustRegister(m.elapsedGauge, m.timeoutGauge, m.errorGauge, m.installGauge)
	}
	return m
}

// Observe records one completed parse task's outcome.
func (m *Metrics) Observe(key metricsKey, elapsedMs float64, timedOut, errored, installed bool) {
	m.mu.Lock()
	b, ok := m.buckets[key]
	if !ok {
		b = &emaBucket{}
		m.buckets[key] = b
	}
	b.observe(elapsedMs, timedOut, errored, installed)
	elapsed, timeout, errRate, install := b.elapsedMs, b.timeoutRate, b.errorRate, b.installRate
	m.mu.Unlock()

	labels := prometheus.Labels{
		"language": key.Language, "tier": tierLabel(key.Tier),
		"task_class": laneLabel(key.TaskClass), "injection_policy": key.InjectionPolicy,
	}
	m.elapsedGauge.With(labels).Set(elapsed)
	m.timeoutGauge.With(labels).Set(timeout)
	m.errorGauge.With(labels).Set(errRate)
	m.installGauge.With(labels).Set(install)
}

// Timeout computes the adaptive parse timeout for a bucket:
// clamp(2.5 × EMA_ms × (1 + 2 × timeout_rate), min, max).
func (m *Metrics) Timeout(key metricsKey, min, max float64) float64 {
	m.mu.Lock()
	b, ok := m.buckets[key]
	m.mu.Unlock()
	if !ok {
		return min
	}
	t := 2.5 * b.elapsedMs * (1 + 2*b.timeoutRate)
	if t < min {
		return min
	}
	if t > max {
		return max
	}
	return t
}

// PredictedDuration returns the bucket's current elapsed-ms EMA, used to
// decide whether Stage B enrichment fits its budget.
func (m *Metrics) PredictedDuration(key metricsKey) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.buckets[key]; ok {
		return b.elapsedMs
	}
	return 0
}

func tierLabel(t Tier) string {
	switch t {
	case TierS:
		return "S"
	case TierM:
		return "M"
	default:
		return "L"
	}
}

func laneLabel(l Lane) string {
	switch l {
	case LaneViewportUrgent:
		return "viewport_urgent"
	case LaneViewportEnrich:
		return "viewport_enrich"
	default:
		return "background"
	}
}
