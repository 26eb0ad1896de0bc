package config

// EnvPrefix scopes every environment variable consumed by the service.
const EnvPrefix = "classwish"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "CLASSWISH_APP_ENV"
	EnvPort                   = "CLASSWISH_APP_PORT"
	EnvDBDSN                  = "CLASSWISH_DB_DSN"
	EnvDBHost                 = "CLASSWISH_DB_HOST"
	EnvDBUser                 = "CLASSWISH_DB_USER"
	EnvDBName                 = "CLASSWISH_DB_NAME"
	EnvRedisURL               = "CLASSWISH_REDIS_URL"
	EnvJWTSecret              = "CLASSWISH_JWT_SECRET"
	EnvJWTIssuer              = "CLASSWISH_JWT_ISSUER"
	EnvJWTExpMins             = "CLASSWISH_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CLASSWISH_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
