package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"
	"cardstash/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type SalesReportRepoMock struct{ mock.Mock }

func (m *SalesReportRepoMock) TotalRevenue(ctx context.Context, f repo.SalesFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *SalesReportRepoMock) OrderCount(ctx context.Context, f repo.SalesFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SalesReportRepoMock) UnitsSold(ctx context.Context, f repo.SalesFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SalesReportRepoMock) DistinctCustomers(ctx context.Context, f repo.SalesFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SalesReportRepoMock) RevenueTrend(ctx context.Context, f repo.SalesFilter) ([]model.RevenuePoint, error) {
	args := m.Called(ctx, f)
	pts, _ := args.Get(0).([]model.RevenuePoint)
	return pts, args.Error(1)
}

func (m *SalesReportRepoMock) TopProducts(ctx context.Context, f repo.SalesFilter, limit int) ([]model.ProductQuantity, error) {
	args := m.Called(ctx, f, limit)
	out, _ := args.Get(0).([]model.ProductQuantity)
	return out, args.Error(1)
}

func (m *SalesReportRepoMock) SalesBySet(ctx context.Context, f repo.SalesFilter) ([]model.SetRevenue, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]model.SetRevenue)
	return out, args.Error(1)
}

func (m *SalesReportRepoMock) FilterOptions(ctx context.Context) (model.SalesFilterOptions, error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).(model.SalesFilterOptions)
	return o, args.Error(1)
}

var _ repo.SalesReportRepository = (*SalesReportRepoMock)(nil)

// メモリ上のキャッシュ
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	b, ok := c.data[key]
	return b, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
	return nil
}

func intPtr(v int) *int { return &v }

func TestParseSalesFilter(t *testing.T) {
	f, err := usecase.ParseSalesFilter(usecase.SalesParams{Year: "2024", Month: " 3 ", Set: "Base", Rarity: ""})
	require.NoError(t, err)
	assert.Equal(t, repo.SalesFilter{Year: intPtr(2024), Month: intPtr(3), Set: "Base"}, f)

	f, err = usecase.ParseSalesFilter(usecase.SalesParams{})
	require.NoError(t, err)
	assert.Nil(t, f.Year)
	assert.Nil(t, f.Month)

	for name, p := range map[string]usecase.SalesParams{
		"year text":  {Year: "abc"},
		"month 0":    {Month: "0"},
		"month 13":   {Month: "13"},
		"month text": {Month: "march"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := usecase.ParseSalesFilter(p)
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
		})
	}
}

func TestReportUsecase_Summary(t *testing.T) {
	sales := new(SalesReportRepoMock)
	f := repo.SalesFilter{Year: intPtr(2024)}
	sales.On("TotalRevenue", mock.Anything, f).Return(dec("100.00"), nil)
	sales.On("OrderCount", mock.Anything, f).Return(int64(3), nil)
	sales.On("UnitsSold", mock.Anything, f).Return(int64(7), nil)
	sales.On("DistinctCustomers", mock.Anything, f).Return(int64(2), nil)

	log, _ := test.NewNullLogger()
	uc := usecase.NewReportUsecase(sales, nil, time.Minute, log)

	s, err := uc.Summary(context.Background(), usecase.SalesParams{Year: "2024"})
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(s.TotalRevenue))
	assert.Equal(t, int64(3), s.TotalOrders)
	assert.Equal(t, int64(7), s.UnitsSold)
	assert.Equal(t, int64(2), s.DistinctCustomers)
	assert.True(t, dec("33.33").Equal(s.AvgOrderValue), "avg=%s", s.AvgOrderValue)
}

func TestReportUsecase_Summary_NoOrders(t *testing.T) {
	sales := new(SalesReportRepoMock)
	sales.On("TotalRevenue", mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	sales.On("OrderCount", mock.Anything, mock.Anything).Return(int64(0), nil)
	sales.On("UnitsSold", mock.Anything, mock.Anything).Return(int64(0), nil)
	sales.On("DistinctCustomers", mock.Anything, mock.Anything).Return(int64(0), nil)

	log, _ := test.NewNullLogger()
	s, err := usecase.NewReportUsecase(sales, nil, time.Minute, log).Summary(context.Background(), usecase.SalesParams{})
	require.NoError(t, err)
	assert.True(t, s.AvgOrderValue.IsZero())
}

func TestReportUsecase_Summary_ErrorIs500(t *testing.T) {
	sales := new(SalesReportRepoMock)
	sales.On("TotalRevenue", mock.Anything, mock.Anything).Return(decimal.Zero, errors.New("timeout"))
	sales.On("OrderCount", mock.Anything, mock.Anything).Return(int64(0), nil)
	sales.On("UnitsSold", mock.Anything, mock.Anything).Return(int64(0), nil)
	sales.On("DistinctCustomers", mock.Anything, mock.Anything).Return(int64(0), nil)

	log, _ := test.NewNullLogger()
	_, err := usecase.NewReportUsecase(sales, nil, time.Minute, log).Summary(context.Background(), usecase.SalesParams{})
	assertHTTPStatus(t, err, http.StatusInternalServerError, "internal error")
}

func TestReportUsecase_TopProducts_Limit(t *testing.T) {
	log, _ := test.NewNullLogger()

	t.Run("default 5", func(t *testing.T) {
		sales := new(SalesReportRepoMock)
		sales.On("TopProducts", mock.Anything, repo.SalesFilter{}, 5).Return([]model.ProductQuantity{{CardName: "Mew", QuantitySold: 9}}, nil)
		out, err := usecase.NewReportUsecase(sales, nil, time.Minute, log).TopProducts(context.Background(), usecase.SalesParams{}, "")
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	for _, bad := range []string{"0", "51", "x"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			sales := new(SalesReportRepoMock)
			_, err := usecase.NewReportUsecase(sales, nil, time.Minute, log).TopProducts(context.Background(), usecase.SalesParams{}, bad)
			assertHTTPStatus(t, err, http.StatusBadRequest, "invalid limit")
			sales.AssertNotCalled(t, "TopProducts", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReportUsecase_CachesResponses(t *testing.T) {
	sales := new(SalesReportRepoMock)
	sales.On("SalesBySet", mock.Anything, repo.SalesFilter{Set: "Jungle"}).
		Return([]model.SetRevenue{{SetName: "Jungle", TotalRevenue: dec("12.5")}}, nil).Once()

	log, _ := test.NewNullLogger()
	cache := newMemCache()
	uc := usecase.NewReportUsecase(sales, cache, time.Minute, log)

	first, err := uc.SalesBySet(context.Background(), usecase.SalesParams{Set: "Jungle"})
	require.NoError(t, err)
	second, err := uc.SalesBySet(context.Background(), usecase.SalesParams{Set: "Jungle"})
	require.NoError(t, err)

	assert.Equal(t, first[0].SetName, second[0].SetName)
	assert.True(t, first[0].TotalRevenue.Equal(second[0].TotalRevenue))
	sales.AssertNumberOfCalls(t, "SalesBySet", 1)
	assert.Contains(t, cache.data, "sales-by-set?year=&month=&set=Jungle&rarity=")
}

func TestReportUsecase_CacheErrorFallsBack(t *testing.T) {
	sales := new(SalesReportRepoMock)
	sales.On("FilterOptions", mock.Anything).Return(model.SalesFilterOptions{Years: []int{2024}}, nil)

	log, hook := test.NewNullLogger()
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	uc := usecase.NewReportUsecase(sales, cache, time.Minute, log)

	out, err := uc.Filters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2024}, out.Years)
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, "report cache get failed", hook.Entries[0].Message)
}

func TestCacheKey(t *testing.T) {
	f := repo.SalesFilter{Year: intPtr(2024), Month: intPtr(12), Set: "Base Set", Rarity: "Rare Holo"}
	assert.Equal(t, "summary?year=2024&month=12&set=Base+Set&rarity=Rare+Holo", usecase.CacheKey("summary", f))
	assert.Equal(t, "filters?year=&month=&set=&rarity=", usecase.CacheKey("filters", repo.SalesFilter{}))
}
