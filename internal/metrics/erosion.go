package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы прохода эрозии
const (
	OutcomeSkipped   = "skipped"   // закон эрозии выключен
	OutcomeEmpty     = "empty"     // ни одно правило не сработало
	OutcomeCommitted = "committed" // пакет применён к миру
)

// ErosionMetrics инкапсулирует Prometheus-метрики прохода эрозии.
// Все методы безопасны для nil-получателя, чтобы метрики были опциональны.
type ErosionMetrics struct {
	passes    *prometheus.CounterVec
	mutations *prometheus.CounterVec
	ruleHits  *prometheus.CounterVec
	batchSize prometheus.Histogram
	duration  prometheus.Histogram
}

// NewErosionMetrics создаёт метрики и регистрирует их в reg
// (nil означает глобальный регистр Prometheus).
func NewErosionMetrics(reg prometheus.Registerer) *ErosionMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &ErosionMetrics{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erosion",
			Name:      "passes_total",
			Help:      "Количество проходов эрозии по исходу.",
		}, []string{"outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erosion",
			Name:      "mutations_total",
			Help:      "Применённые изменения тайлов по виду.",
		}, []string{"kind"}),
		ruleHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erosion",
			Name:      "rule_hits_total",
			Help:      "Срабатывания правил каскада.",
		}, []string{"rule"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "erosion",
			Name:      "batch_size",
			Help:      "Размер применённого пакета изменений.",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 50},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "erosion",
			Name:      "pass_duration_seconds",
			Help:      "Длительность прохода эрозии.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}

	reg.MustRegister(m.passes, m.mutations, m.ruleHits, m.batchSize, m.duration)
	return m
}

// ObservePass фиксирует завершённый проход
func (m *ErosionMetrics) ObservePass(outcome string, d time.Duration, batchSize int) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSkipped {
		return
	}
	m.duration.Observe(d.Seconds())
	m.batchSize.Observe(float64(batchSize))
}

// ObserveRuleHits добавляет срабатывания правила
func (m *ErosionMetrics) ObserveRuleHits(rule string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ruleHits.WithLabelValues(rule).Add(float64(n))
}

// ObserveMutations добавляет применённые изменения вида kind
func (m *ErosionMetrics) ObserveMutations(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mutations.WithLabelValues(kind).Add(float64(n))
}
