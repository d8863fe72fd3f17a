package repository

import (
	"context"

	"cardstash/internal/domain/model"
)

// 監査ログ一覧の件数（既定と上限）
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// 在庫監査ログの絞り込み条件。
type InventoryAuditFilter struct {
	Action *model.InventoryAuditAction
	// 0なら既定、上限を超えたら上限まで
	Limit int
}

type InventoryAuditRepository interface {
	Create(ctx context.Context, audit model.InventoryAudit) error
	// 新しい順
	List(ctx context.Context, filter InventoryAuditFilter) ([]model.InventoryAudit, error)
}
