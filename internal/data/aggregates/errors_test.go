package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	domainagg "github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_InvalidState(t *testing.T) {
	err := MapError("op", InvalidStateError("contract is completed"))
	if !domainagg.IsCode(err, domainagg.CodeInvalidState) {
		t.Fatalf("expected invalid_state code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughWrappedAggregateError(t *testing.T) {
	in := domainagg.InvalidState("Contract.Activate", "cannot activate draft contract")
	out := MapError("other", fmt.Errorf("commit: %w", in))
	if !domainagg.IsCode(out, domainagg.CodeInvalidState) {
		t.Fatalf("expected invalid_state passthrough, got %q", domainagg.CodeOf(out))
	}
}

func TestMapError_StorageErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"gorm duplicated key", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, domainagg.CodePreconditionFailed},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, domainagg.CodePreconditionFailed},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: contract.office_id"), domainagg.CodeConflict},
		{"sqlite busy", errors.New("database is locked"), domainagg.CodeRetryable},
		{"canceled", context.Canceled, domainagg.CodeRetryable},
		{"unknown", errors.New("disk on fire"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domainagg.CodeOf(MapError("op", tc.err))
			if got != tc.want {
				t.Fatalf("code: want=%s got=%s", tc.want, got)
			}
		})
	}
}
