package warehouse

import (
	"strconv"
	"strings"

	repo "cardstash/internal/repository"
)

const salesFrom = `
FROM fact_sales f
JOIN dim_date d ON d.date_key = f.date_key
JOIN dim_product p ON p.product_key = f.product_key`

// 指定された条件だけWHEREに積む。値は $n で渡し、本文には入れない
func salesWhere(f repo.SalesFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, strings.Replace(expr, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if f.Year != nil {
		add("d.year = ?", *f.Year)
	}
	if f.Month != nil {
		add("d.month = ?", *f.Month)
	}
	if f.Set != "" {
		add("p.set_name = ?", f.Set)
	}
	if f.Rarity != "" {
		add("p.rarity = ?", f.Rarity)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conds, " AND "), args
}
