package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"
	"cardstash/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	inventory  repo.InventoryRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	audits     repo.InventoryAuditRepository
}

func (r *TxReposMock) Carts() repo.CartRepository            { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository    { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository   { return r.inventory }
func (r *TxReposMock) Orders() repo.OrderRepository          { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository  { return r.orderItems }
func (r *TxReposMock) Audits() repo.InventoryAuditRepository { return r.audits }

var (
	_ repo.TransactionManager = (*TxManagerMock)(nil)
	_ repo.TxRepos            = (*TxReposMock)(nil)
)

// =====================
// Repository mocks
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) FindFirstByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) LockFirstByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Touch(ctx context.Context, cartID int64) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *CartRepoMock) ListLines(ctx context.Context, cartID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, cartID)
	lines, _ := args.Get(0).([]model.CartLine)
	return lines, args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) AddQuantity(ctx context.Context, cartID int64, productID int64, qty int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID, qty)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) ListPriced(ctx context.Context, cartID int64) ([]model.PricedCartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.PricedCartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) DeleteByCartID(ctx context.Context, cartID int64) (int64, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(int64), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) LockByProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, productIDs)
	stock, _ := args.Get(0).(map[int64]int64)
	return stock, args.Error(1)
}

func (m *InventoryRepoMock) Decrement(ctx context.Context, productID int64, qty int64) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *InventoryRepoMock) Upsert(ctx context.Context, level model.StockLevel) (bool, error) {
	args := m.Called(ctx, level)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) BulkUpsert(ctx context.Context, levels []model.StockLevel) (int64, error) {
	args := m.Called(ctx, levels)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InventoryRepoMock) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InventoryRepoMock) List(ctx context.Context, q repo.InventoryQuery) ([]model.InventoryRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]model.InventoryRow)
	return rows, args.Error(1)
}

func (m *InventoryRepoMock) FilterOptions(ctx context.Context) (model.InventoryFilterOptions, error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).(model.InventoryFilterOptions)
	return o, args.Error(1)
}

func (m *InventoryRepoMock) Restock(ctx context.Context, fromProductID, toProductID, add int64) (int64, error) {
	args := m.Called(ctx, fromProductID, toProductID, add)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InventoryRepoMock) Sleep(ctx context.Context, d time.Duration) error {
	return m.Called(ctx, d).Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, audit model.InventoryAudit) error {
	return m.Called(ctx, audit).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.InventoryAuditFilter) ([]model.InventoryAudit, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.InventoryAudit)
	return logs, args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, limit int) ([]model.Order, error) {
	args := m.Called(ctx, customerID, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) ListDetails(ctx context.Context, orderID int64) ([]model.OrderLineDetail, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLineDetail)
	return lines, args.Error(1)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FindByUserName(ctx context.Context, userName string) (model.Customer, error) {
	args := m.Called(ctx, userName)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) CreateIfAbsent(ctx context.Context, c model.Customer) (model.Customer, bool, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Customer)
	return created, args.Bool(1), args.Error(2)
}

var (
	_ repo.CartRepository           = (*CartRepoMock)(nil)
	_ repo.CartItemRepository       = (*CartItemRepoMock)(nil)
	_ repo.InventoryRepository      = (*InventoryRepoMock)(nil)
	_ repo.InventoryAuditRepository = (*AuditRepoMock)(nil)
	_ repo.OrderRepository          = (*OrderRepoMock)(nil)
	_ repo.OrderItemRepository      = (*OrderItemRepoMock)(nil)
	_ repo.CustomerRepository       = (*CustomerRepoMock)(nil)
)

// =====================
// helpers
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertHTTPStatus(t *testing.T, err error, status int, msg string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "want *HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
		assert.Equal(t, msg, he.Message)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
