package usecase

import (
	"net/http"
	"strconv"
	"strings"

	"cardstash/internal/catalog"
)

const (
	defaultCardPageSize = 50
	maxCardPageSize     = 250
)

type CardsParams struct {
	Q        string
	Select   string
	Page     string
	PageSize string
}

type CardsOutput struct {
	Data       any `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Count      int `json:"count"`
	TotalCount int `json:"totalCount"`
}

type CardOutput struct {
	Data catalog.Card `json:"data"`
}

// カタログはメモリ上にしかないのでctxは取らない
type CatalogUsecase struct {
	cat *catalog.Catalog
}

func NewCatalogUsecase(cat *catalog.Catalog) *CatalogUsecase {
	return &CatalogUsecase{cat: cat}
}

// pageSizeは返した件数（最終ページでは小さくなる）
func (u *CatalogUsecase) Cards(p CardsParams) CardsOutput {
	page := positiveOr(p.Page, 1)
	size := positiveOr(p.PageSize, defaultCardPageSize)
	if size > maxCardPageSize {
		size = maxCardPageSize
	}

	matched := u.cat.Search(catalog.ParseQuery(p.Q))
	paged := catalog.Page(matched, page, size)

	out := CardsOutput{
		Page:       page,
		PageSize:   len(paged),
		Count:      len(paged),
		TotalCount: len(matched),
	}

	fields := catalog.ParseSelect(p.Select)
	if len(fields) == 0 {
		out.Data = paged
		return out
	}
	projected := make([]map[string]any, 0, len(paged))
	for _, c := range paged {
		projected = append(projected, catalog.Project(c, fields))
	}
	out.Data = projected
	return out
}

func (u *CatalogUsecase) Card(id string) (CardOutput, error) {
	c, ok := u.cat.Get(strings.TrimSpace(id))
	if !ok {
		return CardOutput{}, NewHTTPError(http.StatusNotFound, "Card not found")
	}
	return CardOutput{Data: c}, nil
}

func (u *CatalogUsecase) Filters() catalog.Filters {
	return u.cat.Filters()
}

// 数値でない・0以下ならdef
func positiveOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
