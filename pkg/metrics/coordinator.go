package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CoordinatorMetrics records outcomes of the cross-collection write
// coordinators. Compensation failures get their own counter because each one
// is a permanent data-integrity defect needing manual remediation.
type CoordinatorMetrics struct {
	provisionOutcome     *prometheus.CounterVec
	compensationFailures prometheus.Counter
	allocationLines      *prometheus.CounterVec
	allocationDuration   prometheus.Histogram
}

// NewCoordinatorMetrics registers the coordinator metrics on the provided registerer.
func NewCoordinatorMetrics(reg prometheus.Registerer) *CoordinatorMetrics {
	if reg == nil {
		return &CoordinatorMetrics{}
	}
	provisionOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_provision_total",
		Help: "Identity provisioning attempts by outcome.",
	}, []string{"outcome"})
	compensationFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "compensation_failures_total",
		Help: "Rollback steps that themselves failed, leaving orphaned records.",
	})
	allocationLines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_lines_total",
		Help: "Per-line stock allocation outcomes.",
	}, []string{"outcome"})
	allocationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_duration_seconds",
		Help:    "Duration of parts allocation submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(provisionOutcome, compensationFailures, allocationLines, allocationDuration)
	return &CoordinatorMetrics{
		provisionOutcome:     provisionOutcome,
		compensationFailures: compensationFailures,
		allocationLines:      allocationLines,
		allocationDuration:   allocationDuration,
	}
}

// IncProvision counts a provisioning attempt with the given outcome.
func (c *CoordinatorMetrics) IncProvision(outcome string) {
	if c == nil || c.provisionOutcome == nil {
		return
	}
	c.provisionOutcome.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCompensationFailure counts an escalated rollback failure.
func (c *CoordinatorMetrics) IncCompensationFailure() {
	if c == nil || c.compensationFailures == nil {
		return
	}
	c.compensationFailures.Inc()
}

// IncAllocationLine counts a per-line allocation outcome.
func (c *CoordinatorMetrics) IncAllocationLine(outcome string) {
	if c == nil || c.allocationLines == nil {
		return
	}
	c.allocationLines.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveAllocationDuration records how long an allocation submission took.
func (c *CoordinatorMetrics) ObserveAllocationDuration(d time.Duration) {
	if c == nil || c.allocationDuration == nil {
		return
	}
	c.allocationDuration.Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
