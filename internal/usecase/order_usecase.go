package usecase

import (
	"context"
	"errors"
	"net/http"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"
)

const orderListLimit = 50

type OrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func NewOrderUsecase(orders repo.OrderRepository, orderItems repo.OrderItemRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders, orderItems: orderItems}
}

// 直近の注文（明細つき）
func (u *OrderUsecase) ListOrders(ctx context.Context, customerID int64) ([]model.OrderWithItems, error) {
	orders, err := u.orders.ListByCustomerID(ctx, customerID, orderListLimit)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]model.OrderWithItems, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.OrderID)
		if err != nil {
			return nil, internalError(err)
		}
		out = append(out, model.OrderWithItems{Order: o, Items: items})
	}
	return out, nil
}

// 他人の注文は存在しないものとして404
func (u *OrderUsecase) GetOrder(ctx context.Context, customerID int64, orderID int64) (model.OrderWithItems, error) {
	if orderID <= 0 {
		return model.OrderWithItems{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && o.CustomerID != customerID) {
		return model.OrderWithItems{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return model.OrderWithItems{}, internalError(err)
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.OrderID)
	if err != nil {
		return model.OrderWithItems{}, internalError(err)
	}
	return model.OrderWithItems{Order: o, Items: items}, nil
}
