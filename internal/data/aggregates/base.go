package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

const defaultWriteOp = "aggregate.write"

var tracer = otel.Tracer("github.com/yungbote/workstation-backend/internal/data/aggregates")

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	// Now is the clock used for durations; defaults to time.Now.
	Now func() time.Time
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// executeWrite runs fn in one transaction, maps its error onto an aggregate
// code and reports the outcome to the hooks.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = defaultWriteOp
	}
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	start := deps.Now()
	err := MapError(op, deps.Runner.InTx(ctx, fn))
	outcome := WriteOutcome{Op: op, Code: outcomeCode(err), Duration: deps.Now().Sub(start)}
	deps.Hooks.ObserveWrite(outcome)

	span.SetAttributes(attribute.String("aggregate.outcome", outcome.Status()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome.Status())
	}
	return err
}

// outcomeCode is empty for nil and falls back to CodeInternal for errors that
// carry no code after mapping.
func outcomeCode(err error) domainagg.ErrorCode {
	if err == nil {
		return ""
	}
	if code := domainagg.CodeOf(err); code != "" {
		return code
	}
	return domainagg.CodeOf(MapError(defaultWriteOp, err))
}
