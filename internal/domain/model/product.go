package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 販売単位（カード×状態×価格）
type Product struct {
	ProductID int64           `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	CardID    int64           `gorm:"column:card_id;not null;index" json:"card_id"`
	Condition string          `gorm:"column:condition;type:varchar(50);not null" json:"condition"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
}

func (Product) TableName() string { return "products" }

// 在庫。quantity は inventory_quantity_check で 0 以上が保証される
type Inventory struct {
	ProductID   int64     `gorm:"column:product_id;primaryKey" json:"product_id"`
	Quantity    int64     `gorm:"column:quantity;not null" json:"quantity"`
	LastUpdated time.Time `gorm:"column:last_updated;not null" json:"last_updated"`
}

func (Inventory) TableName() string { return "inventory" }

// GET /api/inventory の1行
type InventoryRow struct {
	ProductID   int64           `json:"product_id"`
	CardID      int64           `json:"card_id"`
	CardName    string          `json:"card_name"`
	ImageURL    string          `json:"image_url"`
	SetName     string          `json:"set_name"`
	Rarity      string          `json:"rarity"`
	Types       []string        `json:"types"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	LastUpdated time.Time       `json:"last_updated"`
}

// 一括アップロードの1件（検証済み）
type StockLevel struct {
	ProductID   int64
	Quantity    int64
	LastUpdated *time.Time
}

// 在庫一覧の絞り込み候補
type InventoryFilterOptions struct {
	Sets       []string `json:"sets"`
	Rarities   []string `json:"rarities"`
	Conditions []string `json:"conditions"`
	Types      []string `json:"types"`
}
