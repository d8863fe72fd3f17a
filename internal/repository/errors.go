package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// カートが無い／明細が0件
	ErrCartEmpty = errors.New("cart is empty")
	// 在庫不足（事前チェック or inventory_quantity_check）
	ErrOutOfStock = errors.New("insufficient stock")
	// product_id が products に存在しない
	ErrUnknownProduct = errors.New("unknown product")
	// 数量がINTEGERに収まらない
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)

// 在庫一覧のsortが未知
var ErrInvalidSort = errors.New("invalid sort")
