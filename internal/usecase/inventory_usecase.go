package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"
	"cardstash/internal/stockupload"
)

const (
	restockFromProductID = 1
	restockToProductID   = 100
	restockAmount        = 10
	maxRestockHold       = 60 * time.Second
)

type InventoryUsecase struct {
	inventory repo.InventoryRepository
	audits    repo.InventoryAuditRepository
	tx        repo.TransactionManager
	now       func() time.Time
}

func NewInventoryUsecase(inventory repo.InventoryRepository, audits repo.InventoryAuditRepository, tx repo.TransactionManager) *InventoryUsecase {
	return &InventoryUsecase{inventory: inventory, audits: audits, tx: tx, now: time.Now}
}

type UploadOutput struct {
	Message  string `json:"message"`
	Received int    `json:"received"`
	Applied  int    `json:"applied"`
	Skipped  int    `json:"skipped"`
}

type ClearOutput struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type RestockOutput struct {
	Message   string  `json:"message"`
	Restocked int64   `json:"restocked"`
	HeldFor   float64 `json:"held_seconds"`
}

func (u *InventoryUsecase) List(ctx context.Context, q repo.InventoryQuery) ([]model.InventoryRow, error) {
	rows, err := u.inventory.List(ctx, q)
	if errors.Is(err, repo.ErrInvalidSort) {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}
	if err != nil {
		return nil, internalError(err)
	}
	return rows, nil
}

func (u *InventoryUsecase) Filters(ctx context.Context) (model.InventoryFilterOptions, error) {
	opts, err := u.inventory.FilterOptions(ctx)
	if err != nil {
		return model.InventoryFilterOptions{}, internalError(err)
	}
	return opts, nil
}

// Upload は在庫の一括置き換え。
// 送られた順に1件ずつupsertするので、同じproduct_idは最後の値が残る。
// 存在しない商品は書かずにスキップ。DBエラーなら全件ROLLBACK。
func (u *InventoryUsecase) Upload(ctx context.Context, actorID int64, body []byte) (UploadOutput, error) {
	up, err := stockupload.Parse(body)
	if err != nil {
		return UploadOutput{}, NewHTTPError(http.StatusBadRequest, "Invalid data format. Expected an array.")
	}

	applied := 0
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		for _, level := range up.Levels {
			ok, err := r.Inventory().Upsert(ctx, level)
			if err != nil {
				return err
			}
			if ok {
				applied++
			}
		}

		return r.Audits().Create(ctx, u.audit(actorID, model.InventoryAuditUpload, int64(applied), map[string]int{
			"received": up.Received,
			"invalid":  up.Invalid,
		}))
	})
	if err != nil {
		return UploadOutput{}, WrapHTTPError(http.StatusInternalServerError, "Failed to upload inventory", err)
	}

	skipped := up.Received - applied
	return UploadOutput{
		Message:  fmt.Sprintf("Processed %d items: %d applied, %d skipped.", up.Received, applied, skipped),
		Received: up.Received,
		Applied:  applied,
		Skipped:  skipped,
	}, nil
}

// Clear は在庫を全削除する。
func (u *InventoryUsecase) Clear(ctx context.Context, actorID int64) (ClearOutput, error) {
	var deleted int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		n, err := r.Inventory().DeleteAll(ctx)
		if err != nil {
			return err
		}
		deleted = n
		return r.Audits().Create(ctx, u.audit(actorID, model.InventoryAuditClear, n, nil))
	})
	if err != nil {
		return ClearOutput{}, WrapHTTPError(http.StatusInternalServerError, "Failed to clear inventory", err)
	}
	return ClearOutput{Message: "Inventory cleared.", Deleted: deleted}, nil
}

// Seed はCLIからの初期投入（UNNESTで1文）。
func (u *InventoryUsecase) Seed(ctx context.Context, levels []model.StockLevel) (int64, error) {
	var written int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		n, err := r.Inventory().BulkUpsert(ctx, levels)
		if err != nil {
			return err
		}
		written = n
		return r.Audits().Create(ctx, u.audit(0, model.InventoryAuditSeed, n, map[string]int{"rows": len(levels)}))
	})
	return written, err
}

// 監査ログ一覧
func (u *InventoryUsecase) AuditLog(ctx context.Context, action string, limit int) ([]model.InventoryAudit, error) {
	f := repo.InventoryAuditFilter{Limit: limit}
	if action != "" {
		a := model.InventoryAuditAction(action)
		switch a {
		case model.InventoryAuditUpload, model.InventoryAuditClear, model.InventoryAuditSeed:
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		f.Action = &a
	}

	logs, err := u.audits.List(ctx, f)
	if err != nil {
		return nil, internalError(err)
	}
	return logs, nil
}

// RestockLock は負荷試験用。在庫を増やしたままロックを握り続ける
func (u *InventoryUsecase) RestockLock(ctx context.Context, hold time.Duration) (RestockOutput, error) {
	if hold <= 0 || hold > maxRestockHold {
		return RestockOutput{}, NewHTTPError(http.StatusBadRequest, "invalid seconds")
	}

	var n int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		n, err = r.Inventory().Restock(ctx, restockFromProductID, restockToProductID, restockAmount)
		if err != nil {
			return err
		}
		return r.Inventory().Sleep(ctx, hold)
	})
	if err != nil {
		return RestockOutput{}, WrapHTTPError(http.StatusInternalServerError, "Restock failed", err)
	}
	return RestockOutput{
		Message:   fmt.Sprintf("Restocked products %d-%d", restockFromProductID, restockToProductID),
		Restocked: n,
		HeldFor:   hold.Seconds(),
	}, nil
}

func (u *InventoryUsecase) audit(actorID int64, action model.InventoryAuditAction, affected int64, detail any) model.InventoryAudit {
	a := model.InventoryAudit{
		ActorCustomerID: actorID,
		Action:          action,
		AffectedRows:    affected,
		CreatedAt:       u.now(),
	}
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			a.DetailJSON = string(b)
		}
	}
	return a
}
