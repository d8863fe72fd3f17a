package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 売上サマリー
type SalesSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int64           `json:"total_orders"`
	UnitsSold         int64           `json:"units_sold"`
	AvgOrderValue     decimal.Decimal `json:"avg_order_value"`
	DistinctCustomers int64           `json:"distinct_customers"`
}

type RevenuePoint struct {
	FullDate     time.Time       `json:"full_date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type ProductQuantity struct {
	CardName     string `json:"card_name"`
	QuantitySold int64  `json:"quantity_sold"`
}

type SetRevenue struct {
	SetName      string          `json:"set_name"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type SalesFilterOptions struct {
	Years    []int    `json:"years"`
	Months   []int    `json:"months"`
	Sets     []string `json:"sets"`
	Rarities []string `json:"rarities"`
}
