package repository

import (
	"context"

	"cardstash/internal/domain/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return errors.Wrap(classify(err), "create order items")
	}
	return nil
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("order_item_id asc").
		Find(&items).Error
	if err != nil {
		return []model.OrderItem{}, errors.Wrap(err, "list order items")
	}
	return items, nil
}

const orderLineDetailsSQL = `
SELECT
	oi.product_id,
	c.card_name,
	s.set_name,
	COALESCE(s.series, '') AS series,
	COALESCE(c.rarity, '') AS rarity,
	p.condition,
	oi.quantity,
	oi.price_at_sale,
	p.price AS current_price
FROM order_items oi
JOIN products p ON p.product_id = oi.product_id
JOIN cards c ON c.card_id = p.card_id
JOIN card_sets s ON s.set_id = c.set_id
WHERE oi.order_id = ?
ORDER BY oi.order_item_id`

func (r *OrderItemGormRepository) ListDetails(ctx context.Context, orderID int64) ([]model.OrderLineDetail, error) {
	lines := []model.OrderLineDetail{}
	if err := r.db.WithContext(ctx).Raw(orderLineDetailsSQL, orderID).Scan(&lines).Error; err != nil {
		return []model.OrderLineDetail{}, errors.Wrap(err, "list order line details")
	}
	return lines, nil
}
