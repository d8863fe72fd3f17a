package main

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"cardstash/internal/domain/model"
	"cardstash/internal/usecase"

	"github.com/pkg/errors"
)

// ヘッダ名 → 列番号
func csvHeader(r *csv.Reader, required ...string) (map[string]int, error) {
	head, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	cols := make(map[string]int, len(head))
	for i, h := range head {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, errors.Errorf("csv header %q is missing", name)
		}
	}
	return cols, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// readStockCSV は product_id,quantity を読む。読めない行は数えて飛ばす
func readStockCSV(src io.Reader) ([]model.StockLevel, int, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	cols, err := csvHeader(r, "product_id", "quantity")
	if err != nil {
		return nil, 0, err
	}

	var (
		levels  []model.StockLevel
		skipped int
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrap(err, "read csv")
		}

		id, err1 := strconv.ParseInt(field(rec, cols, "product_id"), 10, 64)
		qty, err2 := strconv.ParseInt(field(rec, cols, "quantity"), 10, 64)
		if err1 != nil || err2 != nil || id <= 0 || qty < 0 {
			skipped++
			continue
		}
		levels = append(levels, model.StockLevel{ProductID: id, Quantity: qty})
	}
	return levels, skipped, nil
}

func readCustomerCSV(src io.Reader) ([]usecase.CustomerSeed, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	cols, err := csvHeader(r, "user_name", "password")
	if err != nil {
		return nil, err
	}

	var seeds []usecase.CustomerSeed
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		s := usecase.CustomerSeed{
			UserName:  field(rec, cols, "user_name"),
			FirstName: field(rec, cols, "first_name"),
			LastName:  field(rec, cols, "last_name"),
			Password:  field(rec, cols, "password"),
		}
		if s.UserName == "" || s.Password == "" {
			continue
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}
