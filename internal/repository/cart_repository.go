package repository

import (
	"context"

	"cardstash/internal/domain/model"
)

type CartRepository interface {
	// 顧客の最初のカート（cart_idが最小）。無ければErrNotFound
	FindFirstByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	// FindFirstByCustomerIDと同じだが行ロック(FOR UPDATE)を取る
	LockFirstByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	// 無ければ作る
	GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	// last_updatedを現在時刻に
	Touch(ctx context.Context, cartID int64) error
	// 表示用の明細（added_at DESC）
	ListLines(ctx context.Context, cartID int64) ([]model.CartLine, error)
}
