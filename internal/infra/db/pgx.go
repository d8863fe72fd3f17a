package db

import (
	"context"

	"cardstash/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// ConnectOLAP は倉庫DBのプールを作る。集計SQLはpgxで直接投げる
func ConnectOLAP(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.OLAPURL())
	if err != nil {
		return nil, errors.Wrap(err, "parse olap url")
	}
	pcfg.MaxConns = int32(cfg.DBMaxOpenConns)
	pcfg.MaxConnLifetime = cfg.DBConnMaxLife

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, errors.Wrap(err, "open olap")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping olap")
	}
	return pool, nil
}
