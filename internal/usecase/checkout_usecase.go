package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	msgCartEmpty      = "Your cart is empty."
	msgOutOfStock     = "One or more items in your cart are out of stock."
	msgCheckoutFailed = "Checkout failed. Please try again."
)

// 注文確定イベントの送り先（未設定ならnil）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev model.OrderPlaced) error
}

type CheckoutUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	events    OrderEventPublisher
	log       logrus.FieldLogger

	now    func() time.Time
	newRef func() string
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	events OrderEventPublisher,
	log logrus.FieldLogger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		customers: customers,
		events:    events,
		log:       log,
		now:       time.Now,
		newRef:    uuid.NewString,
	}
}

type CheckoutOutput struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	OrderID   int64           `json:"order_id"`
	Reference string          `json:"reference"`
	Total     decimal.Decimal `json:"total"`
}

// Checkout はカートを注文に変える。
//
//	BEGIN → カート行ロック → 在庫行ロック(product_id順) → 在庫確認
//	→ 在庫減算 → 注文・明細作成 → カート明細削除 → COMMIT
//
// 途中で失敗したら全部ROLLBACK。リトライはしない。
func (u *CheckoutUsecase) Checkout(ctx context.Context, customerID int64) (CheckoutOutput, error) {
	var (
		order model.Order
		lines []model.OrderLineDetail
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().LockFirstByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return repo.ErrCartEmpty
		}
		if err != nil {
			return err
		}

		items, err := r.CartItems().ListPriced(ctx, cart.CartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return repo.ErrCartEmpty
		}

		// 明細はproduct_id順なので、ロックも同じ順で取れる
		ids := make([]int64, len(items))
		for i, it := range items {
			ids[i] = it.ProductID
		}
		stock, err := r.Inventory().LockByProductIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, it := range items {
			// 在庫行が無い商品は0扱い
			if stock[it.ProductID] < it.Quantity {
				return repo.ErrOutOfStock
			}
		}

		total := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(items))
		for _, it := range items {
			if err := r.Inventory().Decrement(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			total = total.Add(it.LineTotal())
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				PriceAtSale: it.Price,
			})
		}

		order = model.Order{
			Reference:   u.newRef(),
			CustomerID:  customerID,
			OrderDate:   u.now(),
			Status:      model.OrderStatusPlaced,
			TotalAmount: total,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, order.OrderID, orderItems); err != nil {
			return err
		}

		if _, err := r.CartItems().DeleteByCartID(ctx, cart.CartID); err != nil {
			return err
		}
		if err := r.Carts().Touch(ctx, cart.CartID); err != nil {
			return err
		}

		if u.events != nil {
			// イベント用の明細はTx内で読んでおく
			lines, err = r.OrderItems().ListDetails(ctx, order.OrderID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrCartEmpty):
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, msgCartEmpty)
		case errors.Is(err, repo.ErrOutOfStock):
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, msgOutOfStock)
		}
		return CheckoutOutput{}, WrapHTTPError(http.StatusInternalServerError, msgCheckoutFailed, err)
	}

	u.publish(ctx, order, lines)

	return CheckoutOutput{
		Success:   true,
		Message:   "Checkout successful! Your order has been placed.",
		OrderID:   order.OrderID,
		Reference: order.Reference,
		Total:     order.TotalAmount,
	}, nil
}

// COMMIT後に送る。失敗してもチェックアウトは成功のまま
func (u *CheckoutUsecase) publish(ctx context.Context, order model.Order, lines []model.OrderLineDetail) {
	if u.events == nil {
		return
	}

	ev := model.OrderPlaced{
		OrderID:    order.OrderID,
		Reference:  order.Reference,
		CustomerID: order.CustomerID,
		OrderDate:  order.OrderDate,
		Total:      order.TotalAmount,
		Lines:      lines,
	}
	log := u.log.WithFields(logrus.Fields{"order_id": order.OrderID, "reference": order.Reference})

	if c, err := u.customers.FindByID(ctx, order.CustomerID); err == nil {
		ev.UserName = c.UserName
		ev.FullName = c.FullName()
	} else {
		log.WithError(err).Warn("customer lookup for order event failed")
	}

	if err := u.events.PublishOrderPlaced(ctx, ev); err != nil {
		log.WithError(err).Error("publish order event failed")
	}
}
