package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// product_id順にFOR UPDATE。順序をそろえてデッドロックを避ける
func (r *InventoryGormRepository) LockByProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	stock := make(map[int64]int64, len(productIDs))
	if len(productIDs) == 0 {
		return stock, nil
	}

	var rows []model.Inventory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id IN ?", productIDs).
		Order("product_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "lock inventory")
	}

	for _, row := range rows {
		stock[row.ProductID] = row.Quantity
	}
	return stock, nil
}

// 在庫を減らす。CHECK制約違反は在庫不足として返す
func (r *InventoryGormRepository) Decrement(ctx context.Context, productID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"quantity":     gorm.Expr("quantity - ?", qty),
			"last_updated": gorm.Expr("now()"),
		})

	if res.Error != nil {
		if c := classify(res.Error); errors.Is(c, repo.ErrOutOfStock) {
			return c
		}
		return errors.Wrap(res.Error, "decrement inventory")
	}
	// 行が無い＝在庫0
	if res.RowsAffected == 0 {
		return repo.ErrOutOfStock
	}
	return nil
}

// products に存在するときだけ書く
const upsertStockSQL = `
INSERT INTO inventory (product_id, quantity, last_updated)
SELECT p.product_id, ?, COALESCE(?::timestamptz, now())
FROM products p
WHERE p.product_id = ?
ON CONFLICT (product_id)
DO UPDATE SET
	quantity = EXCLUDED.quantity,
	last_updated = EXCLUDED.last_updated`

func (r *InventoryGormRepository) Upsert(ctx context.Context, level model.StockLevel) (bool, error) {
	var ts any
	if level.LastUpdated != nil {
		ts = *level.LastUpdated
	}

	res := r.db.WithContext(ctx).Exec(upsertStockSQL, level.Quantity, ts, level.ProductID)
	if res.Error != nil {
		return false, errors.Wrapf(classify(res.Error), "upsert inventory %d", level.ProductID)
	}
	return res.RowsAffected > 0, nil
}

const bulkUpsertStockSQL = `
INSERT INTO inventory (product_id, quantity, last_updated)
SELECT u.product_id, u.quantity, now()
FROM UNNEST(?::bigint[], ?::int[]) AS u(product_id, quantity)
JOIN products p ON p.product_id = u.product_id
ON CONFLICT (product_id)
DO UPDATE SET
	quantity = EXCLUDED.quantity,
	last_updated = now()`

// 1文でまとめて置き換える。同じproduct_idは後勝ち
func (r *InventoryGormRepository) BulkUpsert(ctx context.Context, levels []model.StockLevel) (int64, error) {
	levels = lastWins(levels)
	if len(levels) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(levels))
	qtys := make([]int64, len(levels))
	for i, l := range levels {
		ids[i] = l.ProductID
		qtys[i] = l.Quantity
	}

	// gormはスライスを (?,?,...) に展開するので配列リテラルで渡す
	res := r.db.WithContext(ctx).Exec(bulkUpsertStockSQL, pgIntArray(ids), pgIntArray(qtys))
	if res.Error != nil {
		return 0, errors.Wrap(classify(res.Error), "bulk upsert inventory")
	}
	return res.RowsAffected, nil
}

func (r *InventoryGormRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Inventory{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete inventory")
	}
	return res.RowsAffected, nil
}

type inventoryScanRow struct {
	ProductID   int64
	CardID      int64
	CardName    string
	ImageURL    string
	SetName     string
	Rarity      string
	TypesCSV    string
	Condition   string
	Price       decimal.Decimal
	Quantity    int64
	LastUpdated time.Time
}

func (r *InventoryGormRepository) List(ctx context.Context, q repo.InventoryQuery) ([]model.InventoryRow, error) {
	sql, args, err := buildInventoryQuery(q)
	if err != nil {
		return nil, err
	}

	var scanned []inventoryScanRow
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&scanned).Error; err != nil {
		return nil, errors.Wrap(err, "list inventory")
	}

	rows := make([]model.InventoryRow, 0, len(scanned))
	for _, s := range scanned {
		rows = append(rows, model.InventoryRow{
			ProductID:   s.ProductID,
			CardID:      s.CardID,
			CardName:    s.CardName,
			ImageURL:    s.ImageURL,
			SetName:     s.SetName,
			Rarity:      s.Rarity,
			Types:       splitTypes(s.TypesCSV),
			Condition:   s.Condition,
			Price:       s.Price,
			Quantity:    s.Quantity,
			LastUpdated: s.LastUpdated,
		})
	}
	return rows, nil
}

// 絞り込み候補（在庫に載っている商品だけ）
func (r *InventoryGormRepository) FilterOptions(ctx context.Context) (model.InventoryFilterOptions, error) {
	const base = `
FROM inventory i
JOIN products p ON p.product_id = i.product_id
JOIN cards c ON c.card_id = p.card_id
JOIN card_sets s ON s.set_id = c.set_id`

	opts := model.InventoryFilterOptions{
		Sets:       []string{},
		Rarities:   []string{},
		Conditions: []string{},
		Types:      []string{},
	}
	queries := []struct {
		dst *[]string
		sql string
	}{
		{&opts.Sets, "SELECT DISTINCT s.set_name AS v" + base + " ORDER BY v"},
		{&opts.Rarities, "SELECT DISTINCT c.rarity AS v" + base + " WHERE c.rarity IS NOT NULL AND c.rarity <> '' ORDER BY v"},
		{&opts.Conditions, "SELECT DISTINCT p.condition AS v" + base + " ORDER BY v"},
		{&opts.Types, "SELECT DISTINCT t AS v" + base + " CROSS JOIN LATERAL unnest(c.types) AS t ORDER BY v"},
	}

	db := r.db.WithContext(ctx)
	for _, q := range queries {
		if err := db.Raw(q.sql).Scan(q.dst).Error; err != nil {
			return model.InventoryFilterOptions{}, errors.Wrap(err, "inventory filters")
		}
	}
	return opts, nil
}

// 範囲の在庫を増やす（行ロックはTx終了まで保持）
func (r *InventoryGormRepository) Restock(ctx context.Context, fromProductID, toProductID, add int64) (int64, error) {
	// チェックアウトと同じくproduct_id順にロックしてから更新する
	var locked []int64
	if err := lockRangeQuery(r.db.WithContext(ctx), fromProductID, toProductID).Pluck("product_id", &locked).Error; err != nil {
		return 0, errors.Wrap(err, "lock restock range")
	}
	if len(locked) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("product_id IN ?", locked).
		Updates(map[string]any{
			"quantity":     gorm.Expr("quantity + ?", add),
			"last_updated": gorm.Expr("now()"),
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "restock")
	}
	return res.RowsAffected, nil
}

func lockRangeQuery(db *gorm.DB, fromProductID, toProductID int64) *gorm.DB {
	return db.Model(&model.Inventory{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id BETWEEN ? AND ?", fromProductID, toProductID).
		Order("product_id asc")
}

func (r *InventoryGormRepository) Sleep(ctx context.Context, d time.Duration) error {
	return errors.Wrap(r.db.WithContext(ctx).Exec("SELECT pg_sleep(?)", d.Seconds()).Error, "pg_sleep")
}

// 同じproduct_idは最後のものを残す（出現順は最初の位置）
func lastWins(levels []model.StockLevel) []model.StockLevel {
	idx := make(map[int64]int, len(levels))
	out := make([]model.StockLevel, 0, len(levels))
	for _, l := range levels {
		if i, ok := idx[l.ProductID]; ok {
			out[i] = l
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

func pgIntArray(vals []int64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
