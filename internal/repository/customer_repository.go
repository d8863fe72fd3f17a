package repository

import (
	"context"

	"cardstash/internal/domain/model"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
	FindByUserName(ctx context.Context, userName string) (model.Customer, error)
	// user_nameが既にあれば作らずにfalse
	CreateIfAbsent(ctx context.Context, c model.Customer) (model.Customer, bool, error)
}
