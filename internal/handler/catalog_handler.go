package handler

import (
	"net/http"

	"cardstash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/pokemon のHTTP（メモリ上のカードマスタ）
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/pokemon/cards", h.cards)
	g.GET("/pokemon/cards/:id", h.card)
	g.GET("/pokemon/filters", h.filters)
}

func (h *CatalogHandler) cards(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Cards(usecase.CardsParams{
		Q:        c.QueryParam("q"),
		Select:   c.QueryParam("select"),
		Page:     c.QueryParam("page"),
		PageSize: c.QueryParam("pageSize"),
	}))
}

func (h *CatalogHandler) card(c echo.Context) error {
	out, err := h.uc.Card(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) filters(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Filters())
}
