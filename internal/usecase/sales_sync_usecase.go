package usecase

import (
	"context"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/sirupsen/logrus"
)

// 注文確定イベントを倉庫に取り込む（検証はqueue側で済んでいる）
type SalesSyncUsecase struct {
	warehouse repo.SalesWarehouseRepository
	log       logrus.FieldLogger
}

func NewSalesSyncUsecase(warehouse repo.SalesWarehouseRepository, log logrus.FieldLogger) *SalesSyncUsecase {
	return &SalesSyncUsecase{warehouse: warehouse, log: log}
}

func (u *SalesSyncUsecase) HandleOrderPlaced(ctx context.Context, ev model.OrderPlaced) error {
	if err := u.warehouse.RecordOrder(ctx, ev); err != nil {
		return err
	}
	u.log.WithFields(logrus.Fields{
		"order_id": ev.OrderID,
		"lines":    len(ev.Lines),
	}).Info("order synced to warehouse")
	return nil
}
