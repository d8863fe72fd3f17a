package model

import "time"

// 在庫の一括操作の種類
type InventoryAuditAction string

const (
	//CSVアップロードによる一括更新
	InventoryAuditUpload InventoryAuditAction = "INVENTORY_UPLOAD"
	//在庫の全削除
	InventoryAuditClear InventoryAuditAction = "INVENTORY_CLEAR"
	//CLIからの初期投入
	InventoryAuditSeed InventoryAuditAction = "INVENTORY_SEED"
)

// 在庫の一括操作ログ。
// 「誰が」「何を」「何件」変えたかを残す。
type InventoryAudit struct {
	AuditID         int64                `gorm:"column:audit_id;primaryKey;autoIncrement" json:"audit_id"`
	ActorCustomerID int64                `gorm:"column:actor_customer_id;not null;index" json:"actor_customer_id"`
	Action          InventoryAuditAction `gorm:"column:action;type:varchar(50);not null;index" json:"action"`
	AffectedRows    int64                `gorm:"column:affected_rows;not null" json:"affected_rows"`
	//JSON文字列で保存する。
	DetailJSON string    `gorm:"column:detail_json;type:text" json:"detail_json"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (InventoryAudit) TableName() string { return "inventory_audit" }
