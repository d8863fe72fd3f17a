package db

import (
	"embed"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
)

//go:embed migrations
var migrations embed.FS

type Target string

const (
	TargetOLTP Target = "oltp"
	TargetOLAP Target = "olap"
)

func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetOLTP, TargetOLAP:
		return Target(s), nil
	}
	return "", errors.Errorf("unknown migration target %q (oltp|olap)", s)
}

// Migrate は埋め込みSQLで最新まで上げる。変更なしはエラーにしない
func Migrate(dbURL string, target Target) error {
	src, err := iofs.New(migrations, "migrations/"+string(target))
	if err != nil {
		return errors.Wrap(err, "migration source")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dbURL))
	if err != nil {
		return errors.Wrapf(err, "migrate %s", target)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "migrate %s up", target)
	}
	return nil
}

// pgx/v5ドライバは pgx5:// スキームで登録されている
func migrateURL(dbURL string) string {
	for _, p := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURL, p) {
			return "pgx5://" + strings.TrimPrefix(dbURL, p)
		}
	}
	return dbURL
}
