package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTopProducts = 5
	maxTopProducts     = 50
)

// レポート応答のキャッシュ。未設定ならnil
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// クエリ文字列そのまま（空は条件なし）
type SalesParams struct {
	Year   string
	Month  string
	Set    string
	Rarity string
}

type ReportUsecase struct {
	sales repo.SalesReportRepository
	cache ReportCache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewReportUsecase(sales repo.SalesReportRepository, cache ReportCache, ttl time.Duration, log logrus.FieldLogger) *ReportUsecase {
	return &ReportUsecase{sales: sales, cache: cache, ttl: ttl, log: log}
}

// ParseSalesFilter は year / month を数値に直す。範囲外は400
func ParseSalesFilter(p SalesParams) (repo.SalesFilter, error) {
	f := repo.SalesFilter{
		Set:    strings.TrimSpace(p.Set),
		Rarity: strings.TrimSpace(p.Rarity),
	}
	if s := strings.TrimSpace(p.Year); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y <= 0 {
			return repo.SalesFilter{}, NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		f.Year = &y
	}
	if s := strings.TrimSpace(p.Month); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return repo.SalesFilter{}, NewHTTPError(http.StatusBadRequest, "invalid month")
		}
		f.Month = &m
	}
	return f, nil
}

// 4つの集計は独立しているので並列で投げる
func (u *ReportUsecase) Summary(ctx context.Context, p SalesParams) (model.SalesSummary, error) {
	f, err := ParseSalesFilter(p)
	if err != nil {
		return model.SalesSummary{}, err
	}

	return cached(ctx, u, "summary", f, func(ctx context.Context) (model.SalesSummary, error) {
		var s model.SalesSummary
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			s.TotalRevenue, err = u.sales.TotalRevenue(gctx, f)
			return err
		})
		g.Go(func() (err error) {
			s.TotalOrders, err = u.sales.OrderCount(gctx, f)
			return err
		})
		g.Go(func() (err error) {
			s.UnitsSold, err = u.sales.UnitsSold(gctx, f)
			return err
		})
		g.Go(func() (err error) {
			s.DistinctCustomers, err = u.sales.DistinctCustomers(gctx, f)
			return err
		})
		if err := g.Wait(); err != nil {
			return model.SalesSummary{}, err
		}

		s.AvgOrderValue = decimal.Zero
		if s.TotalOrders > 0 {
			s.AvgOrderValue = s.TotalRevenue.DivRound(decimal.NewFromInt(s.TotalOrders), 2)
		}
		return s, nil
	})
}

func (u *ReportUsecase) RevenueTrends(ctx context.Context, p SalesParams) ([]model.RevenuePoint, error) {
	f, err := ParseSalesFilter(p)
	if err != nil {
		return nil, err
	}
	return cached(ctx, u, "revenue-trends", f, func(ctx context.Context) ([]model.RevenuePoint, error) {
		return u.sales.RevenueTrend(ctx, f)
	})
}

// limitは1..50。空なら5
func (u *ReportUsecase) TopProducts(ctx context.Context, p SalesParams, limitRaw string) ([]model.ProductQuantity, error) {
	f, err := ParseSalesFilter(p)
	if err != nil {
		return nil, err
	}

	limit := defaultTopProducts
	if s := strings.TrimSpace(limitRaw); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 || limit > maxTopProducts {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
	}

	key := fmt.Sprintf("top-products:%d", limit)
	return cached(ctx, u, key, f, func(ctx context.Context) ([]model.ProductQuantity, error) {
		return u.sales.TopProducts(ctx, f, limit)
	})
}

func (u *ReportUsecase) SalesBySet(ctx context.Context, p SalesParams) ([]model.SetRevenue, error) {
	f, err := ParseSalesFilter(p)
	if err != nil {
		return nil, err
	}
	return cached(ctx, u, "sales-by-set", f, func(ctx context.Context) ([]model.SetRevenue, error) {
		return u.sales.SalesBySet(ctx, f)
	})
}

func (u *ReportUsecase) Filters(ctx context.Context) (model.SalesFilterOptions, error) {
	return cached(ctx, u, "filters", repo.SalesFilter{}, func(ctx context.Context) (model.SalesFilterOptions, error) {
		return u.sales.FilterOptions(ctx)
	})
}

// cached はキャッシュを見て、無ければ集計して書き戻す。
// キャッシュ側のエラーはログだけ出して素通しする
func cached[T any](ctx context.Context, u *ReportUsecase, name string, f repo.SalesFilter, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if u.cache == nil {
		v, err := load(ctx)
		if err != nil {
			return zero, internalError(err)
		}
		return v, nil
	}

	key := CacheKey(name, f)
	if b, ok, err := u.cache.Get(ctx, key); err != nil {
		u.log.WithError(err).WithField("key", key).Warn("report cache get failed")
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return zero, internalError(err)
	}

	if b, err := json.Marshal(v); err == nil {
		if err := u.cache.Set(ctx, key, b, u.ttl); err != nil {
			u.log.WithError(err).WithField("key", key).Warn("report cache set failed")
		}
	}
	return v, nil
}

// CacheKey は "summary?year=2024&month=&set=Base&rarity=" の形
func CacheKey(name string, f repo.SalesFilter) string {
	year, month := "", ""
	if f.Year != nil {
		year = strconv.Itoa(*f.Year)
	}
	if f.Month != nil {
		month = strconv.Itoa(*f.Month)
	}
	return fmt.Sprintf("%s?year=%s&month=%s&set=%s&rarity=%s",
		name, year, month, url.QueryEscape(f.Set), url.QueryEscape(f.Rarity))
}
