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

type SalesReportRepository struct {
	db querier
}

func NewSalesReportRepository(pool *pgxpool.Pool) *SalesReportRepository {
	return &SalesReportRepository{db: pool}
}

var _ repo.SalesReportRepository = (*SalesReportRepository)(nil)

// NUMERICはtextで受けてdecimalに戻す
func (r *SalesReportRepository) TotalRevenue(ctx context.Context, f repo.SalesFilter) (decimal.Decimal, error) {
	where, args := salesWhere(f)
	var s string
	err := r.db.QueryRow(ctx, "SELECT COALESCE(SUM(f.total_revenue), 0)::text"+salesFrom+where, args...).Scan(&s)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "total revenue")
	}
	return decimal.NewFromString(s)
}

func (r *SalesReportRepository) OrderCount(ctx context.Context, f repo.SalesFilter) (int64, error) {
	return r.count(ctx, "COUNT(DISTINCT f.order_id)", f)
}

func (r *SalesReportRepository) UnitsSold(ctx context.Context, f repo.SalesFilter) (int64, error) {
	return r.count(ctx, "COALESCE(SUM(f.quantity_sold), 0)", f)
}

func (r *SalesReportRepository) DistinctCustomers(ctx context.Context, f repo.SalesFilter) (int64, error) {
	return r.count(ctx, "COUNT(DISTINCT f.customer_key)", f)
}

func (r *SalesReportRepository) count(ctx context.Context, expr string, f repo.SalesFilter) (int64, error) {
	where, args := salesWhere(f)
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT ("+expr+")::bigint"+salesFrom+where, args...).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "aggregate %s", expr)
	}
	return n, nil
}

func (r *SalesReportRepository) RevenueTrend(ctx context.Context, f repo.SalesFilter) ([]model.RevenuePoint, error) {
	where, args := salesWhere(f)
	sql := "SELECT d.full_date, SUM(f.total_revenue)::text" + salesFrom + where +
		"\nGROUP BY d.full_date\nORDER BY d.full_date ASC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "revenue trend")
	}
	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.RevenuePoint, error) {
		var (
			day time.Time
			rev string
		)
		if err := row.Scan(&day, &rev); err != nil {
			return model.RevenuePoint{}, err
		}
		d, err := decimal.NewFromString(rev)
		return model.RevenuePoint{FullDate: day, TotalRevenue: d}, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan revenue trend")
	}
	return points, nil
}

func (r *SalesReportRepository) TopProducts(ctx context.Context, f repo.SalesFilter, limit int) ([]model.ProductQuantity, error) {
	where, args := salesWhere(f)
	args = append(args, limit)
	sql := "SELECT p.card_name, SUM(f.quantity_sold)::bigint AS quantity_sold" + salesFrom + where +
		"\nGROUP BY p.card_name\nORDER BY quantity_sold DESC, p.card_name ASC\nLIMIT $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "top products")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ProductQuantity, error) {
		var pq model.ProductQuantity
		err := row.Scan(&pq.CardName, &pq.QuantitySold)
		return pq, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan top products")
	}
	return out, nil
}

func (r *SalesReportRepository) SalesBySet(ctx context.Context, f repo.SalesFilter) ([]model.SetRevenue, error) {
	where, args := salesWhere(f)
	sql := "SELECT COALESCE(p.set_name, 'Unknown') AS set_name, SUM(f.total_revenue)::text" + salesFrom + where +
		"\nGROUP BY 1\nORDER BY SUM(f.total_revenue) DESC, 1 ASC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "sales by set")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SetRevenue, error) {
		var (
			name string
			rev  string
		)
		if err := row.Scan(&name, &rev); err != nil {
			return model.SetRevenue{}, err
		}
		d, err := decimal.NewFromString(rev)
		return model.SetRevenue{SetName: name, TotalRevenue: d}, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan sales by set")
	}
	return out, nil
}

// ダッシュボードのプルダウン候補
func (r *SalesReportRepository) FilterOptions(ctx context.Context) (model.SalesFilterOptions, error) {
	var (
		opts model.SalesFilterOptions
		err  error
	)
	if opts.Years, err = collectInts(ctx, r.db, "SELECT DISTINCT d.year::int"+salesFrom+"\nORDER BY 1"); err != nil {
		return opts, errors.Wrap(err, "filter years")
	}
	if opts.Months, err = collectInts(ctx, r.db, "SELECT DISTINCT d.month::int"+salesFrom+"\nORDER BY 1"); err != nil {
		return opts, errors.Wrap(err, "filter months")
	}
	if opts.Sets, err = collectStrings(ctx, r.db, "SELECT DISTINCT p.set_name"+salesFrom+"\nWHERE p.set_name IS NOT NULL ORDER BY 1"); err != nil {
		return opts, errors.Wrap(err, "filter sets")
	}
	if opts.Rarities, err = collectStrings(ctx, r.db, "SELECT DISTINCT p.rarity"+salesFrom+"\nWHERE p.rarity IS NOT NULL ORDER BY 1"); err != nil {
		return opts, errors.Wrap(err, "filter rarities")
	}
	return opts, nil
}

func collectInts(ctx context.Context, db querier, sql string, args ...any) ([]int, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if out == nil {
		out = []int{}
	}
	return out, err
}

func collectStrings(ctx context.Context, db querier, sql string, args ...any) ([]string, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if out == nil {
		out = []string{}
	}
	return out, err
}
