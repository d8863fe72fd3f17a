package handler

import (
	"net/http"

	"cardstash/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/reports/energy のHTTP
type EnergyHandler struct {
	uc *usecase.EnergyUsecase
}

func NewEnergyHandler(uc *usecase.EnergyUsecase) *EnergyHandler {
	return &EnergyHandler{uc: uc}
}

func (h *EnergyHandler) RegisterRoutes(g *echo.Group) {
	r := g.Group("/reports/energy")
	r.GET("/filters", h.filters)
	r.GET("/mix", h.mix)
	r.GET("/non-renewable", h.nonRenewable)
	r.GET("/ph-total", h.phTotal)
	r.GET("/ph-renewable-vs-non", h.phRenewableVsNon)
	r.GET("/green-vs-weather", h.greenVsWeather)
}

func energyParams(c echo.Context) usecase.EnergyParams {
	return usecase.EnergyParams{
		StartYear:   c.QueryParam("startYear"),
		EndYear:     c.QueryParam("endYear"),
		Countries:   c.QueryParam("countries"),
		Sources:     c.QueryParam("sources"),
		Aggregation: c.QueryParam("aggregation"),
	}
}

func (h *EnergyHandler) filters(c echo.Context) error {
	out, err := h.uc.Filters(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EnergyHandler) mix(c echo.Context) error {
	out, err := h.uc.Mix(c.Request().Context(), energyParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EnergyHandler) nonRenewable(c echo.Context) error {
	out, err := h.uc.NonRenewable(c.Request().Context(), energyParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EnergyHandler) phTotal(c echo.Context) error {
	out, err := h.uc.PHTotal(c.Request().Context(), energyParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EnergyHandler) phRenewableVsNon(c echo.Context) error {
	out, err := h.uc.PHRenewableVsNon(c.Request().Context(), energyParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *EnergyHandler) greenVsWeather(c echo.Context) error {
	out, err := h.uc.GreenVsWeather(c.Request().Context(), energyParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
