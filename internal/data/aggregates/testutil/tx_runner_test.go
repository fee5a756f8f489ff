package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/workstation-backend/internal/data/aggregates"
	repotestutil "github.com/yungbote/workstation-backend/internal/data/repos/testutil"
	"github.com/yungbote/workstation-backend/internal/domain/records"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
)

func TestInjectedTxRunnerCounters(t *testing.T) {
	bodyErr := errors.New("body failed")
	beginErr := errors.New("begin failed")
	commitErr := errors.New("commit failed")

	cases := []struct {
		name                     string
		runner                   *InjectedTxRunner
		body                     error
		want                     error
		ran                      bool
		commits, rollbacks, begs int
	}{
		{"commit", &InjectedTxRunner{}, nil, nil, true, 1, 0, 1},
		{"body error", &InjectedTxRunner{}, bodyErr, bodyErr, true, 0, 1, 1},
		{"begin error", &InjectedTxRunner{FailBegin: beginErr}, nil, beginErr, false, 0, 0, 1},
		{"before body", &InjectedTxRunner{FailBeforeBody: beginErr}, nil, beginErr, false, 0, 1, 1},
		{"commit error", &InjectedTxRunner{FailCommit: commitErr}, nil, commitErr, true, 0, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			err := tc.runner.InTx(context.Background(), func(dbctx.Context) error {
				ran = true
				return tc.body
			})
			if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
				t.Fatalf("err: want=%v got=%v", tc.want, err)
			}
			if ran != tc.ran {
				t.Fatalf("body ran: want=%v got=%v", tc.ran, ran)
			}
			r := tc.runner
			if r.BeginCalls != tc.begs || r.CommitCalls != tc.commits || r.RollbackCalls != tc.rollbacks {
				t.Fatalf("counters: begin=%d commit=%d rollback=%d", r.BeginCalls, r.CommitCalls, r.RollbackCalls)
			}
		})
	}
}

func TestInjectedTxRunnerRollsBackRealTransaction(t *testing.T) {
	db := repotestutil.DB(t)
	r := &InjectedTxRunner{
		Inner:      aggregates.NewGormTxRunner(db),
		FailCommit: errors.New("connection reset"),
	}
	ctx := context.Background()
	var id uuid.UUID
	err := r.InTx(ctx, func(dbc dbctx.Context) error {
		id = repotestutil.SeedContract(t, dbc.Ctx, dbc.Tx, uuid.New(), "draft").ID
		return nil
	})
	if err == nil {
		t.Fatalf("expected injected commit failure")
	}
	var n int64
	if err := db.WithContext(ctx).Model(&records.Contract{}).Where("id = ?", id).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("row survived rollback: count=%d", n)
	}
	if r.RollbackCalls != 1 || r.CommitCalls != 0 {
		t.Fatalf("counters: commit=%d rollback=%d", r.CommitCalls, r.RollbackCalls)
	}
}
