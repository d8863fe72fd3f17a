package repository

import (
	"context"

	"cardstash/internal/domain/model"
	domainrepo "cardstash/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewCustomerGormRepository(db *gorm.DB) domainrepo.CustomerRepository {
	return &customerGormRepository{db: db}
}

// IDで顧客を1件取得
func (r *customerGormRepository) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	return r.findBy(ctx, "customer_id = ?", customerID)
}

// user_nameで顧客を1件取得
func (r *customerGormRepository) FindByUserName(ctx context.Context, userName string) (model.Customer, error) {
	return r.findBy(ctx, "user_name = ?", userName)
}

func (r *customerGormRepository) findBy(ctx context.Context, cond string, arg any) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where(cond, arg).First(&c).Error
	if isNotFound(err) {
		return model.Customer{}, domainrepo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, errors.Wrap(err, "find customer")
	}
	return c, nil
}

// 同名がいれば何もしない
func (r *customerGormRepository) CreateIfAbsent(ctx context.Context, c model.Customer) (model.Customer, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_name"}}, DoNothing: true}).
		Create(&c)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return model.Customer{}, false, nil
		}
		return model.Customer{}, false, errors.Wrap(res.Error, "create customer")
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindByUserName(ctx, c.UserName)
		return existing, false, err
	}
	return c, true, nil
}
