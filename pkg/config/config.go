package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Orders       OrdersConfig
	Stock        StockConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Stock.UnitThresholds(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KITCHENLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"KITCHENLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KITCHENLINE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"KITCHENLINE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"KITCHENLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KITCHENLINE_DB_DSN"`
	Driver string `envconfig:"KITCHENLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KITCHENLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"KITCHENLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KITCHENLINE_DB_USER"`
	LegacyPassword string `envconfig:"KITCHENLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"KITCHENLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"KITCHENLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns       int           `envconfig:"KITCHENLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns       int           `envconfig:"KITCHENLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime    time.Duration `envconfig:"KITCHENLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime    time.Duration `envconfig:"KITCHENLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQueryThreshold time.Duration `envconfig:"KITCHENLINE_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KITCHENLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KITCHENLINE_REDIS_ADDR"`
	Password     string        `envconfig:"KITCHENLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"KITCHENLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KITCHENLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KITCHENLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KITCHENLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KITCHENLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KITCHENLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies tokens minted by the external auth service.
type JWTConfig struct {
	Secret            string `envconfig:"KITCHENLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KITCHENLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KITCHENLINE_JWT_EXPIRATION_MINUTES" default:"60"`
	CookieName        string `envconfig:"KITCHENLINE_JWT_COOKIE_NAME" default:"token"`
}

type RateLimitConfig struct {
	Window    time.Duration `envconfig:"KITCHENLINE_RATE_LIMIT_WINDOW" default:"1m"`
	UserLimit int           `envconfig:"KITCHENLINE_RATE_LIMIT_USER_LIMIT" default:"120"`
	IPLimit   int           `envconfig:"KITCHENLINE_RATE_LIMIT_IP_LIMIT" default:"300"`
	FailOpen  bool          `envconfig:"KITCHENLINE_RATE_LIMIT_FAIL_OPEN" default:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KITCHENLINE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KITCHENLINE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type OrdersConfig struct {
	DeliveryFee string `envconfig:"KITCHENLINE_ORDERS_DELIVERY_FEE" default:"15.00"`
}

// DeliveryFeeAmount parses DeliveryFee; an unparsable value yields zero.
func (o OrdersConfig) DeliveryFeeAmount() decimal.Decimal {
	fee, err := decimal.NewFromString(strings.TrimSpace(o.DeliveryFee))
	if err != nil || fee.IsNegative() {
		return decimal.Zero
	}
	return fee
}

// StockConfig holds the low-stock thresholds. OrderLowThreshold applies when
// orders consume raw materials; UnitLowThresholds applies on ingredient and
// inventory writes, keyed by unit ("kg:2,pcs:10").
type StockConfig struct {
	OrderLowThreshold string `envconfig:"KITCHENLINE_STOCK_ORDER_LOW_THRESHOLD" default:"10"`
	UnitLowThresholds string `envconfig:"KITCHENLINE_STOCK_UNIT_LOW_THRESHOLDS" default:"kg:2,g:500,l:2,ml:500,pcs:10,pack:5"`
	DefaultUnitLow    string `envconfig:"KITCHENLINE_STOCK_DEFAULT_UNIT_LOW_THRESHOLD" default:"5"`
}

// UnitThresholds parses UnitLowThresholds into a lower-cased unit map.
func (s StockConfig) UnitThresholds() (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	raw := strings.TrimSpace(s.UnitLowThresholds)
	if raw == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		unit, value, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || strings.TrimSpace(unit) == "" {
			return nil, fmt.Errorf("invalid %s entry %q", EnvStockUnitLowThresholds, pair)
		}
		threshold, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid %s threshold %q: %w", EnvStockUnitLowThresholds, value, err)
		}
		out[strings.ToLower(strings.TrimSpace(unit))] = threshold
	}
	return out, nil
}

// OrderThreshold returns the flat threshold used by order deductions.
func (s StockConfig) OrderThreshold() decimal.Decimal {
	return parseThreshold(s.OrderLowThreshold, decimal.NewFromInt(10))
}

// DefaultUnitThreshold applies to units missing from the unit table.
func (s StockConfig) DefaultUnitThreshold() decimal.Decimal {
	return parseThreshold(s.DefaultUnitLow, decimal.NewFromInt(5))
}

func parseThreshold(raw string, fallback decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || v.IsNegative() {
		return fallback
	}
	return v
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"KITCHENLINE_CRON_INTERVAL" default:"15m"`
	NotificationRetentionDays int           `envconfig:"KITCHENLINE_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

// NotificationRetention converts the configured days into a duration.
func (c CronConfig) NotificationRetention() time.Duration {
	if c.NotificationRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.NotificationRetentionDays) * 24 * time.Hour
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   db.LegacyHost + ":" + strconv.Itoa(db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
