package aggregates

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
)

// CASGuard issues the conditional updates behind a commit. Each call either
// changes exactly the row it names or reports CodeConflict.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

// BumpVersion applies updates and advances the row to expected+1, provided the
// row is still at expected.
func (g CASGuard) BumpVersion(dbc dbctx.Context, table string, id uuid.UUID, expected int, updates map[string]any) error {
	if expected < 1 {
		return ValidationError(fmt.Sprintf("%s %s: expected version must be >= 1", table, id))
	}
	set := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		set[k] = v
	}
	set["version"] = expected + 1
	return g.guarded(dbc, table, id, "version = ?", expected, set,
		fmt.Sprintf("%s %s changed concurrently", table, id))
}

// TransitionStatus sets status to "to" while the row is still in one of from.
func (g CASGuard) TransitionStatus(dbc dbctx.Context, table string, id uuid.UUID, from []string, to string) error {
	if len(from) == 0 || strings.TrimSpace(to) == "" {
		return ValidationError(fmt.Sprintf("%s %s: from and to statuses are required", table, id))
	}
	return g.guarded(dbc, table, id, "status IN ?", from, map[string]any{"status": to},
		fmt.Sprintf("%s %s is no longer %s", table, id, strings.Join(from, "|")))
}

func (g CASGuard) guarded(dbc dbctx.Context, table string, id uuid.UUID, cond string, arg any, set map[string]any, conflict string) error {
	table = strings.TrimSpace(table)
	if table == "" || id == uuid.Nil {
		return ValidationError("table and id are required")
	}
	db := dbc.Conn(g.db)
	if db == nil {
		return ValidationError("missing db transaction context")
	}
	res := db.Table(table).Where("id = ?", id).Where(cond, arg).Updates(set)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ConflictError(conflict)
	}
	return nil
}
