package repository

import (
	"fmt"
	"testing"

	repo "cardstash/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "在庫のCHECK制約違反は在庫不足",
			in:   &pgconn.PgError{Code: "23514", ConstraintName: "inventory_quantity_check"},
			want: repo.ErrOutOfStock,
		},
		{
			name: "ラップされていても判定できる",
			in:   fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23514", ConstraintName: "inventory_quantity_check"}),
			want: repo.ErrOutOfStock,
		},
		{
			name: "商品の外部キー違反は商品なし",
			in:   &pgconn.PgError{Code: "23503", ConstraintName: "cart_items_product_id_fkey"},
			want: repo.ErrUnknownProduct,
		},
		{
			name: "INTEGERのあふれは数量エラー",
			in:   &pgconn.PgError{Code: "22003", Message: "integer out of range"},
			want: repo.ErrQuantityOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.in), tt.want)
		})
	}
}

func TestClassify_Passthrough(t *testing.T) {
	other := &pgconn.PgError{Code: "23514", ConstraintName: "products_price_check"}
	assert.Same(t, other, classify(other))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "carts_customer_id_fkey"}
	assert.Same(t, fk, classify(fk))

	assert.Nil(t, classify(nil))
	assert.Equal(t, gorm.ErrInvalidData, classify(gorm.ErrInvalidData))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}
