package repository

import (
	"context"
	"time"

	"cardstash/internal/domain/model"
)

// 在庫一覧の条件。空文字は条件なし
type InventoryQuery struct {
	Search    string
	Set       string
	Rarity    string
	Type      string
	Condition string
	Sort      string
}

type InventoryRepository interface {
	// product_id順に行ロックを取り、現在数量を返す。行が無い商品は含まれない
	LockByProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error)
	// 在庫を減らす。0未満になる場合はErrOutOfStock
	Decrement(ctx context.Context, productID int64, qty int64) error

	// 数量を置き換える。商品が存在しなければfalse
	Upsert(ctx context.Context, level model.StockLevel) (bool, error)
	// まとめて置き換える（UNNEST）。書き込んだ件数を返す
	BulkUpsert(ctx context.Context, levels []model.StockLevel) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)

	List(ctx context.Context, q InventoryQuery) ([]model.InventoryRow, error)
	FilterOptions(ctx context.Context) (model.InventoryFilterOptions, error)

	// 負荷試験用：範囲の在庫を増やしてロックを保持する
	Restock(ctx context.Context, fromProductID, toProductID, add int64) (int64, error)
	Sleep(ctx context.Context, d time.Duration) error
}
