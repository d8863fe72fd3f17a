package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// チェックアウト成功後に倉庫へ流すイベント
type OrderPlaced struct {
	OrderID    int64             `json:"order_id"`
	Reference  string            `json:"reference"`
	CustomerID int64             `json:"customer_id"`
	UserName   string            `json:"user_name"`
	FullName   string            `json:"full_name"`
	OrderDate  time.Time         `json:"order_date"`
	Total      decimal.Decimal   `json:"total"`
	Lines      []OrderLineDetail `json:"lines"`
}

// 倉庫に取り込めるだけの中身があるか
func (e OrderPlaced) Validate() error {
	switch {
	case e.OrderID <= 0:
		return errors.New("order_id is required")
	case e.CustomerID <= 0:
		return errors.New("customer_id is required")
	case e.OrderDate.IsZero():
		return errors.New("order_date is required")
	case len(e.Lines) == 0:
		return errors.New("lines are required")
	}
	for _, l := range e.Lines {
		if l.ProductID <= 0 || l.Quantity <= 0 {
			return fmt.Errorf("invalid line for product %d", l.ProductID)
		}
	}
	return nil
}
