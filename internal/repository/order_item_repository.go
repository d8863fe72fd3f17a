package repository

import (
	"context"

	"cardstash/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// 倉庫連携用（カード・セットの属性つき）
	ListDetails(ctx context.Context, orderID int64) ([]model.OrderLineDetail, error)
}
