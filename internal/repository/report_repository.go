package repository

import (
	"context"

	"cardstash/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 売上レポートの絞り込み。nil／空文字は条件なし
type SalesFilter struct {
	Year   *int
	Month  *int
	Set    string
	Rarity string
}

// fact_sales を中心にした集計
type SalesReportRepository interface {
	TotalRevenue(ctx context.Context, f SalesFilter) (decimal.Decimal, error)
	OrderCount(ctx context.Context, f SalesFilter) (int64, error)
	UnitsSold(ctx context.Context, f SalesFilter) (int64, error)
	DistinctCustomers(ctx context.Context, f SalesFilter) (int64, error)

	RevenueTrend(ctx context.Context, f SalesFilter) ([]model.RevenuePoint, error)
	TopProducts(ctx context.Context, f SalesFilter, limit int) ([]model.ProductQuantity, error)
	SalesBySet(ctx context.Context, f SalesFilter) ([]model.SetRevenue, error)
	FilterOptions(ctx context.Context) (model.SalesFilterOptions, error)
}

// fact_energy / fact_weather の読み出し
type EnergyRepository interface {
	Countries(ctx context.Context) ([]string, error)
	YearRange(ctx context.Context) (minYear int, maxYear int, err error)
	// countriesが空なら全ての国
	Yearly(ctx context.Context, startYear, endYear int, countries []string) ([]model.EnergyYear, error)
	Temperatures(ctx context.Context, startYear, endYear int) ([]model.YearTemperature, error)
}

// 注文イベントを倉庫に取り込む
type SalesWarehouseRepository interface {
	RecordOrder(ctx context.Context, ev model.OrderPlaced) error
}
