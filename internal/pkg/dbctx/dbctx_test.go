package dbctx

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConnPrefersTransaction(t *testing.T) {
	if got := (Context{}).Conn(nil); got != nil {
		t.Fatalf("no db: want nil got=%v", got)
	}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	tx := db.Begin()
	defer tx.Rollback()

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	got := Context{Ctx: ctx, Tx: tx}.Conn(db)
	if got == nil || got.Statement.Context.Value(key{}) != "v" {
		t.Fatalf("tx conn should carry the request context")
	}
	if got.Statement.ConnPool != tx.Statement.ConnPool {
		t.Fatalf("conn should join the open transaction")
	}
	if got := Background().Conn(db); got == nil || got.Statement.ConnPool != db.Statement.ConnPool {
		t.Fatalf("fallback conn should use the base db")
	}
}
