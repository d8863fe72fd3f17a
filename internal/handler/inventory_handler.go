package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	repo "cardstash/internal/repository"
	"cardstash/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	uploadBodyLimit      = "10M"
	defaultRestockSecond = 5
)

// /api/inventory のHTTP
type InventoryHandler struct {
	uc *usecase.InventoryUsecase
}

func NewInventoryHandler(uc *usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func (h *InventoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/inventory", h.list)
	g.GET("/inventory/filters", h.filters)
	g.GET("/inventory/audit", h.audit)
	g.POST("/inventory/upload", h.upload, echomw.BodyLimit(uploadBodyLimit))
	g.DELETE("/inventory", h.clear)
}

// ENABLE_TEST_ROUTES のときだけ登録する
func (h *InventoryHandler) RegisterTestRoutes(g *echo.Group) {
	g.POST("/test/restock-lock", h.restockLock)
}

func (h *InventoryHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), repo.InventoryQuery{
		Search:    c.QueryParam("search"),
		Set:       c.QueryParam("set"),
		Rarity:    c.QueryParam("rarity"),
		Type:      c.QueryParam("type"),
		Condition: c.QueryParam("condition"),
		Sort:      c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) filters(c echo.Context) error {
	out, err := h.uc.Filters(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 本文はJSON配列そのまま（行ごとの検証はusecase側）
func (h *InventoryHandler) upload(c echo.Context) error {
	actorID, ok := currentCustomer(c)
	if !ok {
		return unauthorized(c)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Upload(c.Request().Context(), actorID, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) clear(c echo.Context) error {
	actorID, ok := currentCustomer(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.Clear(c.Request().Context(), actorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) audit(c echo.Context) error {
	limit := repo.DefaultAuditLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 || l > repo.MaxAuditLimit {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.AuditLog(c.Request().Context(), c.QueryParam("action"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) restockLock(c echo.Context) error {
	seconds := defaultRestockSecond
	if v := c.QueryParam("seconds"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid seconds"})
		}
		seconds = s
	}

	out, err := h.uc.RestockLock(c.Request().Context(), time.Duration(seconds)*time.Second)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
