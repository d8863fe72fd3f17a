package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"
)

// CartUsecase は /api/cart の業務ロジックです。
// カートの明細が変わるのは「追加（加算）」と「チェックアウト（空にする）」だけ。
type CartUsecase struct {
	carts repo.CartRepository
	tx    repo.TransactionManager
}

func NewCartUsecase(carts repo.CartRepository, tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{carts: carts, tx: tx}
}

type AddCartInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CartItemOutput struct {
	CartItemID int64 `json:"cart_item_id"`
	ProductID  int64 `json:"product_id"`
	Quantity   int64 `json:"quantity"`
}

type AddCartOutput struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	CartID  int64          `json:"cart_id"`
	Item    CartItemOutput `json:"item"`
}

// GetCart はカートの中身。カートが無ければ空配列。
func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	cart, err := u.carts.FindFirstByCustomerID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.CartLine{}, nil
	}
	if err != nil {
		return nil, internalError(err)
	}

	lines, err := u.carts.ListLines(ctx, cart.CartID)
	if err != nil {
		return nil, internalError(err)
	}
	return lines, nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// カート取得/作成・明細の追加・カートのtouchを1つのTxで行う。
func (u *CartUsecase) AddToCart(ctx context.Context, customerID int64, in AddCartInput) (AddCartOutput, error) {
	if in.ProductID <= 0 {
		return AddCartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	// cart_items.quantity はINTEGER
	if in.Quantity < 1 || in.Quantity > math.MaxInt32 {
		return AddCartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out AddCartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByCustomerID(ctx, customerID)
		if err != nil {
			return err
		}

		item, err := r.CartItems().AddQuantity(ctx, cart.CartID, in.ProductID, in.Quantity)
		if err != nil {
			return err
		}

		if err := r.Carts().Touch(ctx, cart.CartID); err != nil {
			return err
		}

		out = AddCartOutput{
			Success: true,
			Message: "Item added to cart",
			CartID:  cart.CartID,
			Item: CartItemOutput{
				CartItemID: item.CartItemID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
			},
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrUnknownProduct) {
			return AddCartOutput{}, NewHTTPError(http.StatusBadRequest, "product not found")
		}
		// 加算した結果があふれた
		if errors.Is(err, repo.ErrQuantityOutOfRange) {
			return AddCartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		return AddCartOutput{}, internalError(err)
	}
	return out, nil
}
