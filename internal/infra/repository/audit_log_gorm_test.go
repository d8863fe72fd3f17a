package repository

import (
	"testing"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// 接続しないgorm（SQLの組み立てだけ見る）
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return gdb
}

func TestAuditLimit(t *testing.T) {
	assert.Equal(t, repo.DefaultAuditLimit, auditLimit(0))
	assert.Equal(t, repo.DefaultAuditLimit, auditLimit(-3))
	assert.Equal(t, 1, auditLimit(1))
	assert.Equal(t, 300, auditLimit(300))
	assert.Equal(t, repo.MaxAuditLimit, auditLimit(500))
	assert.Equal(t, repo.MaxAuditLimit, auditLimit(501))
}

func TestAuditListQuery(t *testing.T) {
	gdb := dryRunDB(t)
	action := model.InventoryAuditClear

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return auditListQuery(tx, repo.InventoryAuditFilter{Limit: 300}).Find(&[]model.InventoryAudit{})
	})
	assert.Contains(t, sql, `ORDER BY audit_id DESC LIMIT 300`)
	assert.NotContains(t, sql, "WHERE")

	sql = gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return auditListQuery(tx, repo.InventoryAuditFilter{Action: &action}).Find(&[]model.InventoryAudit{})
	})
	assert.Contains(t, sql, `action = 'INVENTORY_CLEAR'`)
	assert.Contains(t, sql, `LIMIT 50`)
}
