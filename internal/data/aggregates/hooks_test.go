package aggregates

import (
	"context"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/workstation-backend/internal/observability"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
)

func TestNewMetricsHooksNilFallsBackToNoop(t *testing.T) {
	if _, ok := NewMetricsHooks(nil).(noopHooks); !ok {
		t.Fatalf("expected noop hooks for nil metrics")
	}
}

func TestMetricsHooksSplitConflictsAndRetries(t *testing.T) {
	m := observability.NewMetrics()
	deps := BaseDeps{Runner: inlineRunner{}, Hooks: NewMetricsHooks(m)}
	write := func(err error) {
		_ = executeWrite(context.Background(), deps, "ContractStore.Commit", func(dbctx.Context) error { return err })
	}
	write(ConflictError("stale"))
	write(RetryableError("busy"))
	write(nil)

	for name, want := range map[string]int{
		"workstation_aggregate_conflicts_total":  1,
		"workstation_aggregate_retryable_total":  1,
		"workstation_aggregate_operations_total": 3,
	} {
		n, err := promtestutil.GatherAndCount(m.Registry(), name)
		if err != nil {
			t.Fatalf("gather %s: %v", name, err)
		}
		if n != want {
			t.Fatalf("%s series: want=%d got=%d", name, want, n)
		}
	}
}
