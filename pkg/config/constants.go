package config

const EnvPrefix = "KITCHENLINE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "KITCHENLINE_APP_ENV"
	EnvPort     = "KITCHENLINE_APP_PORT"
	EnvLogLevel = "KITCHENLINE_LOG_LEVEL"

	EnvDBDSN  = "KITCHENLINE_DB_DSN"
	EnvDBHost = "KITCHENLINE_DB_HOST"
	EnvDBUser = "KITCHENLINE_DB_USER"
	EnvDBName = "KITCHENLINE_DB_NAME"

	EnvRedisURL = "KITCHENLINE_REDIS_URL"

	EnvJWTSecret  = "KITCHENLINE_JWT_SECRET"
	EnvJWTIssuer  = "KITCHENLINE_JWT_ISSUER"
	EnvJWTExpMins = "KITCHENLINE_JWT_EXPIRATION_MINUTES"

	EnvOrdersDeliveryFee      = "KITCHENLINE_ORDERS_DELIVERY_FEE"
	EnvStockOrderLowThreshold = "KITCHENLINE_STOCK_ORDER_LOW_THRESHOLD"
	EnvStockUnitLowThresholds = "KITCHENLINE_STOCK_UNIT_LOW_THRESHOLDS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
