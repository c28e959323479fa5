package config

// EnvPrefix is passed to envconfig; individual fields carry fully qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "MERCATO_APP_ENV"
	EnvPort   = "MERCATO_APP_PORT"

	EnvDBDSN  = "MERCATO_DB_DSN"
	EnvDBHost = "MERCATO_DB_HOST"
	EnvDBUser = "MERCATO_DB_USER"
	EnvDBName = "MERCATO_DB_NAME"

	EnvRedisURL = "MERCATO_REDIS_URL"

	EnvStripeAPIKey               = "MERCATO_STRIPE_API_KEY"
	EnvStripeSalesSecret          = "MERCATO_STRIPE_SALES_WEBHOOK_SECRET"
	EnvStripeSalesConnectSecret   = "MERCATO_STRIPE_SALES_CONNECT_WEBHOOK_SECRET"
	EnvStripeCreditsSecret        = "MERCATO_STRIPE_CREDITS_WEBHOOK_SECRET"
	EnvStripeCreditsConnectSecret = "MERCATO_STRIPE_CREDITS_CONNECT_WEBHOOK_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
