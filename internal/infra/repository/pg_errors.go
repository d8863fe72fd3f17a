package repository

import (
	"strings"

	repo "cardstash/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNumericOutOfRange   = "22003"
)

// Postgresのエラーを業務エラーに寄せる。該当しなければそのまま返す
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgCheckViolation:
		if pgErr.ConstraintName == "inventory_quantity_check" {
			return repo.ErrOutOfStock
		}
	case pgNumericOutOfRange:
		return repo.ErrQuantityOutOfRange
	case pgForeignKeyViolation:
		// cart_items_product_id_fkey / inventory_product_id_fkey
		if strings.Contains(pgErr.ConstraintName, "product_id") {
			return repo.ErrUnknownProduct
		}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
