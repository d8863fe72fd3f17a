package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// (cart_id, product_id) で一意。同じ商品の追加は数量加算。
type CartItem struct {
	CartItemID int64     `gorm:"column:cart_item_id;primaryKey;autoIncrement" json:"cart_item_id"`
	CartID     int64     `gorm:"column:cart_id;not null;uniqueIndex:cart_items_cart_id_product_id_key" json:"cart_id"`
	ProductID  int64     `gorm:"column:product_id;not null;uniqueIndex:cart_items_cart_id_product_id_key" json:"product_id"`
	Quantity   int64     `gorm:"column:quantity;not null" json:"quantity"`
	AddedAt    time.Time `gorm:"column:added_at;not null" json:"added_at"`
}

func (CartItem) TableName() string { return "cart_items" }

// チェックアウト用：明細＋その時点の商品価格
type PricedCartItem struct {
	CartItemID int64
	ProductID  int64
	Quantity   int64
	Price      decimal.Decimal
}

func (p PricedCartItem) LineTotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Quantity))
}
