package config

const (
	EnvPrefix = "BULLBOARD"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "BULLBOARD_APP_ENV"
	EnvPort   = "BULLBOARD_APP_PORT"

	EnvDBDSN  = "BULLBOARD_DB_DSN"
	EnvDBHost = "BULLBOARD_DB_HOST"
	EnvDBUser = "BULLBOARD_DB_USER"
	EnvDBName = "BULLBOARD_DB_NAME"

	EnvSuperAdminEmail = "BULLBOARD_SUPER_ADMIN_EMAIL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
