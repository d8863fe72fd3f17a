package main

import (
	"os"

	"cardstash/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logrus.New()

	app := &cli.App{
		Name:  "cardstash",
		Usage: "trading card store and analytics API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file to load (optional)"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("env-file"))
			if err != nil {
				return err
			}
			configureLogger(log, cfg)
			c.App.Metadata = map[string]any{"config": cfg, "log": log}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedInventoryCommand(),
			seedCustomersCommand(),
			syncSalesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("cardstash failed")
	}
}

// prodはJSON、それ以外はテキスト
func configureLogger(log *logrus.Logger, cfg config.Config) {
	if cfg.IsProd() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

func appConfig(c *cli.Context) config.Config {
	return c.App.Metadata["config"].(config.Config)
}

func appLogger(c *cli.Context) *logrus.Logger {
	return c.App.Metadata["log"].(*logrus.Logger)
}
