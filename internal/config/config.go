package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string `envconfig:"PORT" default:"5001"`
	AppEnv   string `envconfig:"APP_ENV" default:"dev"` // dev/prod
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// OLTP（ストア側）
	DatabaseURL    string        `envconfig:"DATABASE_URL"` // あれば最優先
	DBHost         string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort         int           `envconfig:"DB_PORT" default:"5432"`
	DBUser         string        `envconfig:"DB_USER" default:"postgres"`
	DBPass         string        `envconfig:"DB_PASS" default:"postgres"`
	DBName         string        `envconfig:"DB_NAME" default:"oltp_db"`
	DBSSLMode      string        `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DBConnMaxLife  time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`

	// OLAP（分析側）。同じホストでDB名だけ違うのが基本
	OLAPDatabaseURL string `envconfig:"OLAP_DATABASE_URL"`
	OLAPDBName      string `envconfig:"OLAP_DB_NAME" default:"pokemon_olap_db"`

	JWTSecret         string        `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	DefaultCustomerID int64         `envconfig:"DEFAULT_CUSTOMER_ID" default:"1"`

	CatalogDir  string   `envconfig:"CATALOG_DIR" default:"data/pokemon-tcg-data-master"`
	CatalogSets []string `envconfig:"CATALOG_SETS" default:"base1,base2,base3,base4,base5,base6,basep"`

	RedisAddr      string        `envconfig:"REDIS_ADDR"` // 空ならキャッシュなし
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	ReportCacheTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"60s"`

	AMQPURL    string `envconfig:"AMQP_URL"` // 空ならイベントなし
	SalesQueue string `envconfig:"SALES_QUEUE" default:"sales.order_placed"`

	EnableTestRoutes bool     `envconfig:"ENABLE_TEST_ROUTES" default:"false"`
	CORSOrigins      []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Loadは.env（任意）と環境変数から読む
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		// .envが無いのは許容
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}

	//必須チェック
	if cfg.DBMaxOpenConns < 1 {
		return Config{}, errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.DefaultCustomerID < 1 {
		return Config{}, errors.New("DEFAULT_CUSTOMER_ID must be >= 1")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

// OLTPのURL（postgres://...）
func (c Config) OLTPURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.buildURL(c.DBName)
}

// OLAPのURL
func (c Config) OLAPURL() string {
	if c.OLAPDatabaseURL != "" {
		return c.OLAPDatabaseURL
	}
	return c.buildURL(c.OLAPDBName)
}

func (c Config) buildURL(dbName string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}
