package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"
	"cardstash/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newInventoryUsecase() (*usecase.InventoryUsecase, *InventoryRepoMock, *AuditRepoMock, *TxManagerMock) {
	inv := new(InventoryRepoMock)
	audits := new(AuditRepoMock)
	tx := new(TxManagerMock)
	tx.Repos = &TxReposMock{inventory: inv, audits: audits}
	tx.On("WithinTx", mock.Anything).Return(nil)
	return usecase.NewInventoryUsecase(inv, audits, tx), inv, audits, tx
}

func TestInventoryUsecase_List_InvalidSort(t *testing.T) {
	uc, inv, _, _ := newInventoryUsecase()
	q := repo.InventoryQuery{Sort: "random"}
	inv.On("List", mock.Anything, q).Return(nil, repo.ErrInvalidSort)

	_, err := uc.List(context.Background(), q)
	assertHTTPStatus(t, err, http.StatusBadRequest, "invalid sort")
}

func TestInventoryUsecase_List_PassesQuery(t *testing.T) {
	uc, inv, _, _ := newInventoryUsecase()
	q := repo.InventoryQuery{Search: "char", Set: "Base", Sort: "price_desc"}
	inv.On("List", mock.Anything, q).Return([]model.InventoryRow{{ProductID: 4}}, nil)

	rows, err := uc.List(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInventoryUsecase_Upload_NotArray(t *testing.T) {
	for name, body := range map[string]string{
		"object": `{"product_id":1,"quantity":2}`,
		"empty":  `[]`,
		"broken": `[{"product_id":`,
	} {
		t.Run(name, func(t *testing.T) {
			uc, _, _, tx := newInventoryUsecase()
			_, err := uc.Upload(context.Background(), 1, []byte(body))
			assertHTTPStatus(t, err, http.StatusBadRequest, "Invalid data format. Expected an array.")
			tx.AssertNotCalled(t, "WithinTx", mock.Anything)
		})
	}
}

func TestInventoryUsecase_Upload_AppliesInOrderAndCountsSkipped(t *testing.T) {
	uc, inv, audits, _ := newInventoryUsecase()

	var order []model.StockLevel
	record := func(args mock.Arguments) { order = append(order, args.Get(1).(model.StockLevel)) }
	inv.On("Upsert", mock.Anything, model.StockLevel{ProductID: 5, Quantity: 3}).Run(record).Return(true, nil).Once()
	// 存在しない商品は書かれない
	inv.On("Upsert", mock.Anything, model.StockLevel{ProductID: 404, Quantity: 1}).Run(record).Return(false, nil).Once()
	inv.On("Upsert", mock.Anything, model.StockLevel{ProductID: 5, Quantity: 8}).Run(record).Return(true, nil).Once()
	audits.On("Create", mock.Anything, mock.MatchedBy(func(a model.InventoryAudit) bool {
		return a.Action == model.InventoryAuditUpload && a.AffectedRows == 2 && a.ActorCustomerID == 1 &&
			a.DetailJSON == `{"invalid":1,"received":4}`
	})).Return(nil)

	body := `[
		{"product_id": "5", "quantity": "3"},
		{"id": 404, "quantity": 1},
		{"product_id": 5, "quantity": 8},
		{"product_id": 6, "quantity": -1}
	]`

	out, err := uc.Upload(context.Background(), 1, []byte(body))
	require.NoError(t, err)
	assert.Equal(t, 4, out.Received)
	assert.Equal(t, 2, out.Applied)
	assert.Equal(t, 2, out.Skipped)
	// 同じIDは送られた順に適用（最後が残る）
	require.Len(t, order, 3)
	assert.Equal(t, int64(3), order[0].Quantity)
	assert.Equal(t, int64(404), order[1].ProductID)
	assert.Equal(t, int64(8), order[2].Quantity)
	inv.AssertExpectations(t)
	audits.AssertExpectations(t)
}

func TestInventoryUsecase_Upload_SkipsQuantityBeyondInteger(t *testing.T) {
	uc, inv, audits, _ := newInventoryUsecase()
	inv.On("Upsert", mock.Anything, model.StockLevel{ProductID: 1, Quantity: 5}).Return(true, nil).Once()
	audits.On("Create", mock.Anything, mock.MatchedBy(func(a model.InventoryAudit) bool {
		return a.AffectedRows == 1 && a.DetailJSON == `{"invalid":1,"received":2}`
	})).Return(nil)

	out, err := uc.Upload(context.Background(), 1, []byte(`[{"product_id":1,"quantity":5},{"product_id":2,"quantity":3000000000}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Applied)
	assert.Equal(t, 1, out.Skipped)
	inv.AssertExpectations(t)
}

func TestInventoryUsecase_Upload_DBErrorRollsBack(t *testing.T) {
	uc, inv, audits, _ := newInventoryUsecase()
	inv.On("Upsert", mock.Anything, mock.Anything).Return(false, errors.New("deadlock detected"))

	_, err := uc.Upload(context.Background(), 1, []byte(`[{"product_id":1,"quantity":2},{"product_id":2,"quantity":2}]`))
	assertHTTPStatus(t, err, http.StatusInternalServerError, "Failed to upload inventory")
	inv.AssertNumberOfCalls(t, "Upsert", 1)
	audits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryUsecase_Clear(t *testing.T) {
	uc, inv, audits, _ := newInventoryUsecase()
	inv.On("DeleteAll", mock.Anything).Return(int64(12), nil)
	audits.On("Create", mock.Anything, mock.MatchedBy(func(a model.InventoryAudit) bool {
		return a.Action == model.InventoryAuditClear && a.AffectedRows == 12 && a.DetailJSON == ""
	})).Return(nil)

	out, err := uc.Clear(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(12), out.Deleted)
	audits.AssertExpectations(t)
}

func TestInventoryUsecase_Seed(t *testing.T) {
	uc, inv, audits, _ := newInventoryUsecase()
	levels := []model.StockLevel{{ProductID: 1, Quantity: 4}, {ProductID: 2, Quantity: 0}}
	inv.On("BulkUpsert", mock.Anything, levels).Return(int64(2), nil)
	audits.On("Create", mock.Anything, mock.MatchedBy(func(a model.InventoryAudit) bool {
		return a.Action == model.InventoryAuditSeed && a.AffectedRows == 2
	})).Return(nil)

	n, err := uc.Seed(context.Background(), levels)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestInventoryUsecase_AuditLog(t *testing.T) {
	t.Run("invalid action", func(t *testing.T) {
		uc, _, _, _ := newInventoryUsecase()
		_, err := uc.AuditLog(context.Background(), "DROP", 10)
		assertHTTPStatus(t, err, http.StatusBadRequest, "invalid action")
	})

	t.Run("filters by action", func(t *testing.T) {
		uc, _, audits, _ := newInventoryUsecase()
		audits.On("List", mock.Anything, mock.MatchedBy(func(f repo.InventoryAuditFilter) bool {
			return f.Action != nil && *f.Action == model.InventoryAuditClear && f.Limit == 10
		})).Return([]model.InventoryAudit{{AuditID: 1}}, nil)

		logs, err := uc.AuditLog(context.Background(), "INVENTORY_CLEAR", 10)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})
}

func TestInventoryUsecase_RestockLock(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		uc, _, _, tx := newInventoryUsecase()
		_, err := uc.RestockLock(context.Background(), 2*time.Minute)
		assertHTTPStatus(t, err, http.StatusBadRequest, "invalid seconds")
		tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	})

	t.Run("holds lock", func(t *testing.T) {
		uc, inv, _, _ := newInventoryUsecase()
		inv.On("Restock", mock.Anything, int64(1), int64(100), int64(10)).Return(int64(100), nil)
		inv.On("Sleep", mock.Anything, 5*time.Second).Return(nil)

		out, err := uc.RestockLock(context.Background(), 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, int64(100), out.Restocked)
		assert.Equal(t, 5.0, out.HeldFor)
		inv.AssertExpectations(t)
	})
}
