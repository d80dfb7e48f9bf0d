package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
	Idempotency  IdempotencyConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COFFEESHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"COFFEESHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"COFFEESHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"COFFEESHOP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"COFFEESHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"COFFEESHOP_DB_DSN"`
	Driver string `envconfig:"COFFEESHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"COFFEESHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"COFFEESHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"COFFEESHOP_DB_USER"`
	LegacyPassword string `envconfig:"COFFEESHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"COFFEESHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"COFFEESHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"COFFEESHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"COFFEESHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"COFFEESHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COFFEESHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// RedisConfig is optional: leaving both URL and Address empty disables
// Redis-backed features such as checkout idempotency.
type RedisConfig struct {
	URL          string        `envconfig:"COFFEESHOP_REDIS_URL"`
	Address      string        `envconfig:"COFFEESHOP_REDIS_ADDR"`
	Password     string        `envconfig:"COFFEESHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"COFFEESHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"COFFEESHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"COFFEESHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"COFFEESHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"COFFEESHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"COFFEESHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"COFFEESHOP_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"COFFEESHOP_CORS_ALLOWED_ORIGINS" default:"*"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"COFFEESHOP_IDEMPOTENCY_TTL" default:"168h"`
}

// RateLimitConfig throttles cart creation per client IP. It needs Redis; a
// zero limit or window disables it.
type RateLimitConfig struct {
	CartCreateLimit  int           `envconfig:"COFFEESHOP_RATE_LIMIT_CART_CREATE" default:"30"`
	CartCreateWindow time.Duration `envconfig:"COFFEESHOP_RATE_LIMIT_CART_CREATE_WINDOW" default:"1m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:coffeeshop.db?_foreign_keys=on"
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
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
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
