package repository

import (
	"context"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// (cart_id, product_id) の一意制約に乗せて1文で追加or加算
const addCartItemSQL = `
INSERT INTO cart_items (cart_id, product_id, quantity, added_at)
VALUES (?, ?, ?, now())
ON CONFLICT (cart_id, product_id)
DO UPDATE SET
	quantity = cart_items.quantity + EXCLUDED.quantity,
	added_at = now()
RETURNING cart_item_id, cart_id, product_id, quantity, added_at`

// 同一商品は数量加算
func (r *CartItemGormRepository) AddQuantity(ctx context.Context, cartID int64, productID int64, qty int64) (model.CartItem, error) {
	if qty <= 0 {
		return model.CartItem{}, errors.New("invalid quantity")
	}

	var item model.CartItem
	err := r.db.WithContext(ctx).Raw(addCartItemSQL, cartID, productID, qty).Scan(&item).Error
	if err != nil {
		if c := classify(err); errors.Is(c, repo.ErrUnknownProduct) || errors.Is(c, repo.ErrQuantityOutOfRange) {
			return model.CartItem{}, c
		}
		return model.CartItem{}, errors.Wrap(err, "upsert cart item")
	}
	return item, nil
}

// 価格つき明細。ロック順をそろえるためproduct_id順
func (r *CartItemGormRepository) ListPriced(ctx context.Context, cartID int64) ([]model.PricedCartItem, error) {
	items := []model.PricedCartItem{}
	err := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.cart_item_id, ci.product_id, ci.quantity, p.price").
		Joins("JOIN products p ON p.product_id = ci.product_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.product_id asc").
		Scan(&items).Error
	if err != nil {
		return []model.PricedCartItem{}, errors.Wrap(err, "list priced cart items")
	}
	return items, nil
}

// 指定カートの明細を全削除
func (r *CartItemGormRepository) DeleteByCartID(ctx context.Context, cartID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "clear cart")
	}
	return res.RowsAffected, nil
}
