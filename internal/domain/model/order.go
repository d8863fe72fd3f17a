package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced   OrderStatus = "PLACED"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

type Order struct {
	OrderID     int64           `gorm:"column:order_id;primaryKey;autoIncrement" json:"order_id"`
	Reference   string          `gorm:"column:reference;type:uuid;not null;uniqueIndex" json:"reference"`
	CustomerID  int64           `gorm:"column:customer_id;not null;index" json:"customer_id"`
	OrderDate   time.Time       `gorm:"column:order_date;not null" json:"order_date"`
	Status      OrderStatus     `gorm:"column:status;type:varchar(20);not null" json:"status"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null" json:"total_amount"`
}

func (Order) TableName() string { return "orders" }

// 注文＋明細（GET /api/orders 用）
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}
