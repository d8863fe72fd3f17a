package repository

import (
	"context"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type inventoryAuditGormRepository struct {
	db *gorm.DB
}

func NewInventoryAuditGormRepository(db *gorm.DB) repo.InventoryAuditRepository {
	return &inventoryAuditGormRepository{db: db}
}

func (r *inventoryAuditGormRepository) Create(ctx context.Context, audit model.InventoryAudit) error {
	if err := r.db.WithContext(ctx).Create(&audit).Error; err != nil {
		return errors.Wrap(err, "create inventory audit")
	}
	return nil
}

func (r *inventoryAuditGormRepository) List(ctx context.Context, filter repo.InventoryAuditFilter) ([]model.InventoryAudit, error) {
	logs := []model.InventoryAudit{}
	if err := auditListQuery(r.db.WithContext(ctx), filter).Find(&logs).Error; err != nil {
		return nil, errors.Wrap(err, "list inventory audit")
	}
	return logs, nil
}

// 新しい順
func auditListQuery(db *gorm.DB, filter repo.InventoryAuditFilter) *gorm.DB {
	q := db.Model(&model.InventoryAudit{})
	if filter.Action != nil {
		q = q.Where("action = ?", *filter.Action)
	}
	return q.Order("audit_id DESC").Limit(auditLimit(filter.Limit))
}

func auditLimit(n int) int {
	switch {
	case n <= 0:
		return repo.DefaultAuditLimit
	case n > repo.MaxAuditLimit:
		return repo.MaxAuditLimit
	}
	return n
}
