package config

const (
	EnvPrefix = "PROYEC"

	EnvAppEnv   = "PROYEC_APP_ENV"
	EnvPort     = "PROYEC_APP_PORT"
	EnvDBDSN    = "PROYEC_DB_DSN"
	EnvDBHost   = "PROYEC_DB_HOST"
	EnvDBUser   = "PROYEC_DB_USER"
	EnvDBName   = "PROYEC_DB_NAME"
	EnvRedisURL = "PROYEC_REDIS_URL"

	EnvSessionTTL          = "PROYEC_SESSION_TTL"
	EnvOrderTotalPolicy    = "PROYEC_ORDER_TOTAL_POLICY"
	EnvUseSQLite           = "PROYEC_USE_SQLITE"
	EnvRequireVerification = "PROYEC_REQUIRE_EMAIL_VERIFICATION"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	OrderTotalPolicyTrust  = "trust"
	OrderTotalPolicyStrict = "strict"

	defaultSQLiteDSN = "file:proyec.db?_foreign_keys=on"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
