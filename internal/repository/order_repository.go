package repository

import (
	"context"

	"cardstash/internal/domain/model"
)

type OrderRepository interface {
	// order_id が埋まる
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 新しい順
	ListByCustomerID(ctx context.Context, customerID int64, limit int) ([]model.Order, error)
}
