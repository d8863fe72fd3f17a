package model

import "github.com/shopspring/decimal"

// 注文明細。price_at_sale はチェックアウト時点の価格
type OrderItem struct {
	OrderItemID int64           `gorm:"column:order_item_id;primaryKey;autoIncrement" json:"order_item_id"`
	OrderID     int64           `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID   int64           `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity    int64           `gorm:"column:quantity;not null" json:"quantity"`
	PriceAtSale decimal.Decimal `gorm:"column:price_at_sale;type:numeric(10,2);not null" json:"price_at_sale"`
}

func (OrderItem) TableName() string { return "order_items" }

// 倉庫連携用：明細＋商品ディメンションの属性
type OrderLineDetail struct {
	ProductID    int64           `json:"product_id"`
	CardName     string          `json:"card_name"`
	SetName      string          `json:"set_name"`
	Series       string          `json:"series"`
	Rarity       string          `json:"rarity"`
	Condition    string          `json:"condition"`
	Quantity     int64           `json:"quantity"`
	PriceAtSale  decimal.Decimal `json:"price_at_sale"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}
