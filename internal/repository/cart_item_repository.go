package repository

import (
	"context"

	"cardstash/internal/domain/model"
)

type CartItemRepository interface {
	// 同一商品は数量加算。商品が無ければErrUnknownProduct
	AddQuantity(ctx context.Context, cartID int64, productID int64, qty int64) (model.CartItem, error)
	// 価格つき明細（product_id順）
	ListPriced(ctx context.Context, cartID int64) ([]model.PricedCartItem, error)
	DeleteByCartID(ctx context.Context, cartID int64) (int64, error)
}
