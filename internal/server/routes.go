package server

import (
	"net/http"

	"cardstash/internal/config"
	"cardstash/internal/handler"
	"cardstash/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 登録するhandler一式。nilのものは登録しない（倉庫が無い構成など）
type Handlers struct {
	Auth      *handler.AuthHandler
	Cart      *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Orders    *handler.OrderHandler
	Inventory *handler.InventoryHandler
	Catalog   *handler.CatalogHandler
	Reports   *handler.ReportHandler
	Energy    *handler.EnergyHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// 顧客IDが要らないもの
	public := e.Group("/api")
	if h.Auth != nil {
		h.Auth.RegisterRoutes(public)
	}
	if h.Catalog != nil {
		h.Catalog.RegisterRoutes(public)
	}
	if h.Reports != nil {
		h.Reports.RegisterRoutes(public)
	}
	if h.Energy != nil {
		h.Energy.RegisterRoutes(public)
	}

	// ストア（顧客IDを解決してから）
	store := e.Group("/api", middleware.CustomerIdentity(cfg))
	if h.Cart != nil {
		h.Cart.RegisterRoutes(store)
	}
	if h.Checkout != nil {
		h.Checkout.RegisterRoutes(store)
	}
	if h.Orders != nil {
		h.Orders.RegisterRoutes(store)
	}
	if h.Inventory != nil {
		h.Inventory.RegisterRoutes(store)
		if cfg.EnableTestRoutes {
			h.Inventory.RegisterTestRoutes(store)
		}
	}
}
