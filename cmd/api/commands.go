package main

import (
	"os"
	"os/signal"
	"syscall"

	"cardstash/internal/infra/db"
	infraRepo "cardstash/internal/infra/repository"
	"cardstash/internal/usecase"
	"cardstash/internal/validator"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "apply schema migrations",
		ArgsUsage: "[oltp|olap]",
		Action: func(c *cli.Context) error {
			cfg := appConfig(c)
			target, err := db.ParseTarget(c.Args().First())
			if err != nil {
				return err
			}

			url := cfg.OLTPURL()
			if target == db.TargetOLAP {
				url = cfg.OLAPURL()
			}
			if err := db.Migrate(url, target); err != nil {
				return err
			}
			appLogger(c).WithField("target", target).Info("migrations applied")
			return nil
		},
	}
}

// CSVから在庫を入れる。ロックファイルがあれば何もしない（1回きり）
func seedInventoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed-inventory",
		Usage: "bulk load inventory from a CSV (product_id,quantity)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "csv", Required: true},
			&cli.StringFlag{Name: "lock", Value: "data/.inventory_seeded"},
		},
		Action: func(c *cli.Context) error {
			cfg := appConfig(c)
			log := appLogger(c).WithField("csv", c.String("csv"))

			lock := c.String("lock")
			if _, err := os.Stat(lock); err == nil {
				log.WithField("lock", lock).Info("inventory already seeded, skipping")
				return nil
			}

			f, err := os.Open(c.String("csv"))
			if err != nil {
				return errors.Wrap(err, "open csv")
			}
			defer f.Close()

			levels, skipped, err := readStockCSV(f)
			if err != nil {
				return err
			}

			gormDB, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gormDB)

			uc := usecase.NewInventoryUsecase(
				infraRepo.NewInventoryGormRepository(gormDB),
				infraRepo.NewInventoryAuditGormRepository(gormDB),
				infraRepo.NewTxManagerGorm(gormDB),
			)
			n, err := uc.Seed(c.Context, levels)
			if err != nil {
				return err
			}

			if err := os.WriteFile(lock, []byte("seeded\n"), 0o644); err != nil {
				return errors.Wrap(err, "write lock file")
			}
			log.WithFields(logrus.Fields{"rows": len(levels), "written": n, "skipped": skipped}).Info("inventory seeded")
			return nil
		},
	}
}

func seedCustomersCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed-customers",
		Usage: "create customers from a CSV (user_name,first_name,last_name,password)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "csv", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg := appConfig(c)

			f, err := os.Open(c.String("csv"))
			if err != nil {
				return errors.Wrap(err, "open csv")
			}
			defer f.Close()

			seeds, err := readCustomerCSV(f)
			if err != nil {
				return err
			}

			gormDB, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gormDB)

			uc := usecase.NewAuthUsecase(infraRepo.NewCustomerGormRepository(gormDB), validator.NewLoginValidator(), cfg.JWTSecret, cfg.TokenTTL)
			n, err := uc.SeedCustomers(c.Context, seeds)
			if err != nil {
				return err
			}
			appLogger(c).WithFields(logrus.Fields{"rows": len(seeds), "created": n}).Info("customers seeded")
			return nil
		},
	}
}

// 注文イベントを倉庫に流し込み続ける
func syncSalesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync-sales",
		Usage: "consume order events into the warehouse",
		Action: func(c *cli.Context) error {
			cfg := appConfig(c)
			if cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is required")
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pool, err := db.ConnectOLAP(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return consumeOrders(ctx, cfg.AMQPURL, cfg.SalesQueue, pool, appLogger(c))
		},
	}
}
