package config

const (
	// EnvPrefix is passed to envconfig; individual fields carry full names.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "PHONESTORE_APP_ENV"
	EnvPort   = "PHONESTORE_APP_PORT"

	EnvDBDSN  = "PHONESTORE_DB_DSN"
	EnvDBHost = "PHONESTORE_DB_HOST"
	EnvDBUser = "PHONESTORE_DB_USER"
	EnvDBName = "PHONESTORE_DB_NAME"

	EnvRedisURL = "PHONESTORE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
