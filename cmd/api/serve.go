package main

import (
	"context"
	"os/signal"
	"syscall"

	"cardstash/internal/catalog"
	"cardstash/internal/handler"
	"cardstash/internal/infra/cache"
	"cardstash/internal/infra/db"
	"cardstash/internal/infra/queue"
	infraRepo "cardstash/internal/infra/repository"
	"cardstash/internal/infra/warehouse"
	"cardstash/internal/server"
	"cardstash/internal/usecase"
	"cardstash/internal/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "sync", Usage: "also consume order events into the warehouse"},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg := appConfig(c)
	log := appLogger(c)

	if c.Bool("sync") && cfg.AMQPURL == "" {
		return errors.New("--sync needs AMQP_URL")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//DB接続（ストア）
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	//Repository（GORM実装）生成
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	auditRepo := infraRepo.NewInventoryAuditGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//注文イベント（任意）
	var events usecase.OrderEventPublisher
	if cfg.AMQPURL != "" {
		conn, err := queue.Dial(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		pub, err := queue.NewPublisher(conn, cfg.SalesQueue)
		if err != nil {
			return err
		}
		defer pub.Close()
		events = pub
	}

	cat := catalog.LoadOrEmpty(cfg.CatalogDir, cfg.CatalogSets, log)

	h := server.Handlers{
		Auth:      handler.NewAuthHandler(usecase.NewAuthUsecase(customerRepo, validator.NewLoginValidator(), cfg.JWTSecret, cfg.TokenTTL)),
		Cart:      handler.NewCartHandler(usecase.NewCartUsecase(cartRepo, txm)),
		Checkout:  handler.NewCheckoutHandler(usecase.NewCheckoutUsecase(txm, customerRepo, events, log)),
		Orders:    handler.NewOrderHandler(usecase.NewOrderUsecase(orderRepo, orderItemRepo)),
		Inventory: handler.NewInventoryHandler(usecase.NewInventoryUsecase(inventoryRepo, auditRepo, txm)),
		Catalog:   handler.NewCatalogHandler(usecase.NewCatalogUsecase(cat)),
	}

	//DB接続（分析）。つながらなければレポート無しで起動
	pool, err := db.ConnectOLAP(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("warehouse unavailable, reports disabled")
		pool = nil
	} else {
		defer pool.Close()

		var reportCache usecase.ReportCache
		if cfg.RedisAddr != "" {
			rc, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				log.WithError(err).Warn("redis unavailable, report cache disabled")
			} else {
				defer rc.Close()
				reportCache = cache.NewRedisReportCache(rc)
			}
		}

		h.Reports = handler.NewReportHandler(usecase.NewReportUsecase(warehouse.NewSalesReportRepository(pool), reportCache, cfg.ReportCacheTTL, log))
		h.Energy = handler.NewEnergyHandler(usecase.NewEnergyUsecase(warehouse.NewEnergyRepository(pool)))
	}

	e := server.New(cfg, log, h)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", cfg.Port).Info("http server started")
		return server.Run(gctx, e, ":"+cfg.Port)
	})
	if c.Bool("sync") && pool != nil {
		g.Go(func() error {
			return consumeOrders(gctx, cfg.AMQPURL, cfg.SalesQueue, pool, log)
		})
	} else if c.Bool("sync") {
		log.Warn("warehouse unavailable, order sync not started")
	}

	err = g.Wait()
	log.Info("server stopped")
	return err
}

func consumeOrders(ctx context.Context, amqpURL, queueName string, pool *pgxpool.Pool, log logrus.FieldLogger) error {
	conn, err := queue.Dial(amqpURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	syncUC := usecase.NewSalesSyncUsecase(warehouse.NewSalesSyncRepository(pool), log)
	return queue.NewConsumer(conn, queueName, log).Run(ctx, syncUC.HandleOrderPlaced)
}
