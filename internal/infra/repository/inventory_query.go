package repository

import (
	"strings"

	repo "cardstash/internal/repository"
)

const inventorySelectSQL = `
SELECT
	i.product_id,
	c.card_id,
	c.card_name,
	COALESCE(c.image_url, '') AS image_url,
	s.set_name,
	COALESCE(c.rarity, '') AS rarity,
	array_to_string(c.types, ',') AS types_csv,
	p.condition,
	p.price,
	i.quantity,
	i.last_updated
FROM inventory i
JOIN products p ON p.product_id = i.product_id
JOIN cards c ON c.card_id = p.card_id
JOIN card_sets s ON s.set_id = c.set_id`

var inventorySorts = map[string]string{
	"":           "i.product_id ASC",
	"price_asc":  "p.price ASC, i.product_id ASC",
	"price_desc": "p.price DESC, i.product_id ASC",
	"name_asc":   "c.card_name ASC, i.product_id ASC",
	"name_desc":  "c.card_name DESC, i.product_id ASC",
	"qty_asc":    "i.quantity ASC, i.product_id ASC",
	"qty_desc":   "i.quantity DESC, i.product_id ASC",
	"newest":     "i.last_updated DESC, i.product_id ASC",
}

// 在庫一覧のSQLを組み立てる。値は全てプレースホルダで渡す
func buildInventoryQuery(q repo.InventoryQuery) (string, []any, error) {
	order, ok := inventorySorts[q.Sort]
	if !ok {
		return "", nil, repo.ErrInvalidSort
	}

	var (
		conds []string
		args  []any
	)
	if v := strings.TrimSpace(q.Search); v != "" {
		conds = append(conds, `c.card_name ILIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(v)+"%")
	}
	if v := strings.TrimSpace(q.Set); v != "" {
		conds = append(conds, "(s.set_name = ? OR s.set_code = ?)")
		args = append(args, v, v)
	}
	if v := strings.TrimSpace(q.Rarity); v != "" {
		conds = append(conds, "c.rarity = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(q.Type); v != "" {
		conds = append(conds, "? = ANY(c.types)")
		args = append(args, v)
	}
	if v := strings.TrimSpace(q.Condition); v != "" {
		conds = append(conds, "p.condition = ?")
		args = append(args, v)
	}

	var b strings.Builder
	b.WriteString(inventorySelectSQL)
	if len(conds) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString("\nORDER BY ")
	b.WriteString(order)

	return b.String(), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func splitTypes(csv string) []string {
	if csv == "" {
		return []string{}
	}
	return strings.Split(csv, ",")
}
