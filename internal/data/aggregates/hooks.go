package aggregates

import (
	"time"

	domainagg "github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/observability"
)

// WriteOutcome describes one finished aggregate write. Code is empty on
// success.
type WriteOutcome struct {
	Op       string
	Code     domainagg.ErrorCode
	Duration time.Duration
}

// Status is the metric label for the outcome.
func (o WriteOutcome) Status() string {
	if o.Code == "" {
		return "success"
	}
	return string(o.Code)
}

// Hooks receives one outcome per aggregate write.
type Hooks interface {
	ObserveWrite(WriteOutcome)
}

type noopHooks struct{}

func (noopHooks) ObserveWrite(WriteOutcome) {}

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewMetricsHooks reports aggregate writes to the Prometheus collectors in m.
func NewMetricsHooks(m *observability.Metrics) Hooks {
	if m == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: m}
}

func (h metricsHooks) ObserveWrite(o WriteOutcome) {
	h.metrics.ObserveAggregateOperation(o.Op, o.Status(), o.Duration)
	switch o.Code {
	case domainagg.CodeConflict:
		h.metrics.IncAggregateConflict(o.Op)
	case domainagg.CodeRetryable:
		h.metrics.IncAggregateRetry(o.Op)
	}
}
