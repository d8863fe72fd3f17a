package warehouse

import (
	"context"
	"strconv"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// 注文イベントをディメンション＋ファクトに反映する
type SalesSyncRepository struct {
	pool *pgxpool.Pool
}

func NewSalesSyncRepository(pool *pgxpool.Pool) *SalesSyncRepository {
	return &SalesSyncRepository{pool: pool}
}

var _ repo.SalesWarehouseRepository = (*SalesSyncRepository)(nil)

const (
	upsertDimDateSQL = `
INSERT INTO dim_date (date_key, full_date, day_of_week, day_name, month, month_name, quarter, year, is_weekend)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (date_key) DO NOTHING`

	upsertDimProductSQL = `
INSERT INTO dim_product (product_id_oltp, card_name, set_name, series_name, rarity, condition, current_price)
VALUES ($1, $2, $3, $4, $5, $6, $7::text::numeric)
ON CONFLICT (product_id_oltp) DO UPDATE SET
	card_name = EXCLUDED.card_name,
	set_name = EXCLUDED.set_name,
	series_name = EXCLUDED.series_name,
	rarity = EXCLUDED.rarity,
	condition = EXCLUDED.condition,
	current_price = EXCLUDED.current_price
RETURNING product_key`

	upsertDimCustomerSQL = `
INSERT INTO dim_customer (customer_id_oltp, user_name, full_name)
VALUES ($1, $2, $3)
ON CONFLICT (customer_id_oltp) DO UPDATE SET
	user_name = EXCLUDED.user_name,
	full_name = EXCLUDED.full_name
RETURNING customer_key`

	upsertFactSalesSQL = `
INSERT INTO fact_sales (date_key, product_key, customer_key, order_id, quantity_sold, unit_price, total_revenue)
VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7::text::numeric)
ON CONFLICT (order_id, product_key) DO UPDATE SET
	date_key = EXCLUDED.date_key,
	customer_key = EXCLUDED.customer_key,
	quantity_sold = EXCLUDED.quantity_sold,
	unit_price = EXCLUDED.unit_price,
	total_revenue = EXCLUDED.total_revenue`
)

// 1注文＝1トランザクション。同じイベントを何度流しても結果は同じ
func (r *SalesSyncRepository) RecordOrder(ctx context.Context, ev model.OrderPlaced) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return recordOrder(ctx, tx, ev)
	})
}

func recordOrder(ctx context.Context, db querier, ev model.OrderPlaced) error {
	dd := NewDateDim(ev.OrderDate)
	if _, err := db.Exec(ctx, upsertDimDateSQL,
		dd.DateKey, dd.FullDate, dd.DayOfWeek, dd.DayName, dd.Month, dd.MonthName, dd.Quarter, dd.Year, dd.IsWeekend,
	); err != nil {
		return errors.Wrap(err, "upsert dim_date")
	}

	var customerKey int64
	if err := db.QueryRow(ctx, upsertDimCustomerSQL, ev.CustomerID, ev.UserName, ev.FullName).Scan(&customerKey); err != nil {
		return errors.Wrap(err, "upsert dim_customer")
	}

	for _, line := range ev.Lines {
		var productKey int64
		err := db.QueryRow(ctx, upsertDimProductSQL,
			line.ProductID, line.CardName, line.SetName, line.Series, line.Rarity, line.Condition, line.CurrentPrice.String(),
		).Scan(&productKey)
		if err != nil {
			return errors.Wrapf(err, "upsert dim_product %d", line.ProductID)
		}

		revenue := line.PriceAtSale.Mul(decimal.NewFromInt(line.Quantity))
		if _, err := db.Exec(ctx, upsertFactSalesSQL,
			dd.DateKey, productKey, customerKey, ev.OrderID, line.Quantity, line.PriceAtSale.String(), revenue.String(),
		); err != nil {
			return errors.Wrapf(err, "upsert fact_sales order=%d product=%d", ev.OrderID, line.ProductID)
		}
	}
	return nil
}

// dim_date の1行
type DateDim struct {
	DateKey   int
	FullDate  time.Time
	DayOfWeek int
	DayName   string
	Month     int
	MonthName string
	Quarter   int
	Year      int
	IsWeekend bool
}

// 曜日は月曜=1..日曜=7
func NewDateDim(t time.Time) DateDim {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	dow := int(day.Weekday())
	if dow == 0 {
		dow = 7
	}
	key, _ := strconv.Atoi(day.Format("20060102"))
	return DateDim{
		DateKey:   key,
		FullDate:  day,
		DayOfWeek: dow,
		DayName:   day.Weekday().String(),
		Month:     int(day.Month()),
		MonthName: day.Month().String(),
		Quarter:   (int(day.Month())-1)/3 + 1,
		Year:      day.Year(),
		IsWeekend: dow >= 6,
	}
}
