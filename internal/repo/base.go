// Package repo carries the pieces every gorm-backed repository shares.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/cafeteria-labs/coffeeshop-backend/pkg/pagination"
)

// Base is embedded by repositories. Rebinding it to a *gorm.DB obtained from
// db.Client.WithTx makes every query run inside that transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection scoped to ctx.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// First loads the first row of T matching query. A miss surfaces as
// gorm.ErrRecordNotFound so callers can use db.IsNotFound.
func First[T any](ctx context.Context, b Base, query string, args ...any) (*T, error) {
	var out T
	if err := b.DB(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Paginate applies normalized limit/offset to a query.
func Paginate(params pagination.Params) func(*gorm.DB) *gorm.DB {
	p := params.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(p.Limit).Offset(p.Offset)
	}
}
