package config

const (
	EnvPrefix = "COFFEESHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv       = "COFFEESHOP_APP_ENV"
	EnvPort         = "COFFEESHOP_APP_PORT"
	EnvLogLevel     = "COFFEESHOP_LOG_LEVEL"
	EnvLogFormat    = "COFFEESHOP_LOG_FORMAT"
	EnvLogWarnStack = "COFFEESHOP_LOG_WARN_STACK"

	EnvDBDSN      = "COFFEESHOP_DB_DSN"
	EnvDBDriver   = "COFFEESHOP_DB_DRIVER"
	EnvDBHost     = "COFFEESHOP_DB_HOST"
	EnvDBPort     = "COFFEESHOP_DB_PORT"
	EnvDBUser     = "COFFEESHOP_DB_USER"
	EnvDBPassword = "COFFEESHOP_DB_PASSWORD"
	EnvDBName     = "COFFEESHOP_DB_NAME"
	EnvDBSSLMode  = "COFFEESHOP_DB_SSLMODE"

	EnvRedisURL  = "COFFEESHOP_REDIS_URL"
	EnvRedisAddr = "COFFEESHOP_REDIS_ADDR"

	EnvAutoMigrate = "COFFEESHOP_AUTO_MIGRATE"

	EnvCORSAllowedOrigins = "COFFEESHOP_CORS_ALLOWED_ORIGINS"
	EnvIdempotencyTTL     = "COFFEESHOP_IDEMPOTENCY_TTL"

	EnvCartCreateLimit  = "COFFEESHOP_RATE_LIMIT_CART_CREATE"
	EnvCartCreateWindow = "COFFEESHOP_RATE_LIMIT_CART_CREATE_WINDOW"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
