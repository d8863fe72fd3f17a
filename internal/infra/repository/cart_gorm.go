package repository

import (
	"context"
	"time"

	"cardstash/internal/domain/model"
	repo "cardstash/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 顧客の最初のカート
func (r *CartGormRepository) FindFirstByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	return r.first(r.db.WithContext(ctx), customerID)
}

// 行ロックつき。チェックアウトの最初に取る
func (r *CartGormRepository) LockFirstByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), customerID)
}

func (r *CartGormRepository) first(tx *gorm.DB, customerID int64) (model.Cart, error) {
	var cart model.Cart
	err := tx.
		Where("customer_id = ?", customerID).
		Order("cart_id asc").
		Limit(1).
		Find(&cart).Error
	if err != nil {
		return model.Cart{}, errors.Wrap(err, "find cart")
	}
	if cart.CartID == 0 {
		return model.Cart{}, repo.ErrNotFound
	}
	return cart, nil
}

// 顧客のカートを取得し、無ければ作成。
// Tx内で呼ぶこと。作成時は顧客行をロックして同時作成を直列化する
func (r *CartGormRepository) GetOrCreateByCustomerID(ctx context.Context, customerID int64) (model.Cart, error) {
	cart, err := r.FindFirstByCustomerID(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, err
	}

	var locked []int64
	if err := lockCustomerQuery(r.db.WithContext(ctx), customerID).Pluck("customer_id", &locked).Error; err != nil {
		return model.Cart{}, errors.Wrap(err, "lock customer")
	}
	// 待っている間に他のリクエストが作ったかもしれない
	cart, err = r.FindFirstByCustomerID(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, err
	}

	// 無ければ作る
	now := time.Now()
	cart = model.Cart{
		CustomerID:  customerID,
		CreatedAt:   now,
		LastUpdated: now,
	}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return model.Cart{}, errors.Wrap(err, "create cart")
	}
	return cart, nil
}

func lockCustomerQuery(db *gorm.DB, customerID int64) *gorm.DB {
	return db.Table("customers").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID)
}

func (r *CartGormRepository) Touch(ctx context.Context, cartID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("cart_id = ?", cartID).
		Update("last_updated", gorm.Expr("now()"))

	if res.Error != nil {
		return errors.Wrap(res.Error, "touch cart")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

const cartLinesSQL = `
SELECT
	ci.cart_item_id,
	cd.card_id,
	cd.card_name,
	COALESCE(cd.image_url, '') AS image_url,
	s.set_name,
	COALESCE(s.series, '') AS series,
	p.condition,
	p.price,
	ci.quantity,
	p.price * ci.quantity AS line_total
FROM cart_items ci
JOIN products p ON p.product_id = ci.product_id
JOIN cards cd ON cd.card_id = p.card_id
JOIN card_sets s ON s.set_id = cd.set_id
WHERE ci.cart_id = ?
ORDER BY ci.added_at DESC, ci.cart_item_id DESC`

// 表示用の明細
func (r *CartGormRepository) ListLines(ctx context.Context, cartID int64) ([]model.CartLine, error) {
	lines := []model.CartLine{}
	if err := r.db.WithContext(ctx).Raw(cartLinesSQL, cartID).Scan(&lines).Error; err != nil {
		return []model.CartLine{}, errors.Wrap(err, "list cart lines")
	}
	return lines, nil
}
