package config

const (
	EnvPrefix = "BIDAGRI"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv     = "BIDAGRI_APP_ENV"
	EnvPort       = "BIDAGRI_APP_PORT"
	EnvDBDSN      = "BIDAGRI_DB_DSN"
	EnvDBHost     = "BIDAGRI_DB_HOST"
	EnvDBUser     = "BIDAGRI_DB_USER"
	EnvDBName     = "BIDAGRI_DB_NAME"
	EnvRedisURL   = "BIDAGRI_REDIS_URL"
	EnvJWTSecret  = "BIDAGRI_JWT_SECRET"
	EnvJWTIssuer  = "BIDAGRI_JWT_ISSUER"
	EnvJWTExpMins = "BIDAGRI_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
