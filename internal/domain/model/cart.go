package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1顧客につき有効なカートは1つ（最初に見つかったものを使う）
type Cart struct {
	CartID      int64     `gorm:"column:cart_id;primaryKey;autoIncrement" json:"cart_id"`
	CustomerID  int64     `gorm:"column:customer_id;not null;index" json:"customer_id"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	LastUpdated time.Time `gorm:"column:last_updated;not null" json:"last_updated"`
}

func (Cart) TableName() string { return "carts" }

// GET /api/cart の1行（カード・セット・価格をJOINしたもの）
type CartLine struct {
	CartItemID int64           `json:"cart_item_id"`
	CardID     int64           `json:"card_id"`
	CardName   string          `json:"card_name"`
	ImageURL   string          `json:"image_url"`
	SetName    string          `json:"set_name"`
	Series     string          `json:"series"`
	Condition  string          `json:"condition"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}
