package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is the shared foundation every feature repository embeds. It owns the
// GORM handle and binds request contexts to queries so cancellation and
// deadlines propagate to the database.
type Base struct {
	conn *gorm.DB
}

// NewBase wraps a GORM connection (or an open transaction) for embedding.
func NewBase(conn *gorm.DB) Base {
	return Base{conn: conn}
}

// DB returns the connection bound to ctx. A nil ctx yields the raw handle,
// which test helpers use for fixture setup.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.conn
	}
	return b.conn.WithContext(ctx)
}
