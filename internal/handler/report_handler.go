package handler

import (
	"net/http"

	"cardstash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/reports のHTTP（売上）
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	r := g.Group("/reports")
	r.GET("/summary", h.summary)
	r.GET("/revenue-trends", h.revenueTrends)
	r.GET("/top-products", h.topProducts)
	r.GET("/sales-by-set", h.salesBySet)
	r.GET("/filters", h.filters)
}

func salesParams(c echo.Context) usecase.SalesParams {
	return usecase.SalesParams{
		Year:   c.QueryParam("year"),
		Month:  c.QueryParam("month"),
		Set:    c.QueryParam("set"),
		Rarity: c.QueryParam("rarity"),
	}
}

func (h *ReportHandler) summary(c echo.Context) error {
	out, err := h.uc.Summary(c.Request().Context(), salesParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) revenueTrends(c echo.Context) error {
	out, err := h.uc.RevenueTrends(c.Request().Context(), salesParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) topProducts(c echo.Context) error {
	out, err := h.uc.TopProducts(c.Request().Context(), salesParams(c), c.QueryParam("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) salesBySet(c echo.Context) error {
	out, err := h.uc.SalesBySet(c.Request().Context(), salesParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) filters(c echo.Context) error {
	out, err := h.uc.Filters(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
