package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries a request context and, inside a unit of work, the open
// transaction every repo call must join.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func Background() Context { return Context{Ctx: context.Background()} }

// Conn returns the transaction when one is open, else fallback, bound to Ctx.
// It returns nil only when both are nil.
func (c Context) Conn(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	if db == nil {
		return nil
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx)
}
