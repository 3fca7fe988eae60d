package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Orders        OrdersConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Orders.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PROYEC_APP_ENV" required:"true"`
	Port         string `envconfig:"PROYEC_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PROYEC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PROYEC_LOG_WARN_STACK" default:"false"`
	// ExposeErrors appends internal error text to 500 responses. Never enable in production.
	ExposeErrors    bool          `envconfig:"PROYEC_EXPOSE_ERRORS" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"PROYEC_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"PROYEC_DB_DSN"`
	Driver string `envconfig:"PROYEC_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PROYEC_DB_HOST"`
	Port     int    `envconfig:"PROYEC_DB_PORT" default:"5432"`
	User     string `envconfig:"PROYEC_DB_USER"`
	Password string `envconfig:"PROYEC_DB_PASSWORD"`
	Name     string `envconfig:"PROYEC_DB_NAME"`
	SSLMode  string `envconfig:"PROYEC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PROYEC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PROYEC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PROYEC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PROYEC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PROYEC_REDIS_URL"`
	Address      string        `envconfig:"PROYEC_REDIS_ADDR"`
	Password     string        `envconfig:"PROYEC_REDIS_PASSWORD"`
	DB           int           `envconfig:"PROYEC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PROYEC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROYEC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROYEC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROYEC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROYEC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"PROYEC_SESSION_TTL" default:"720h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PROYEC_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PROYEC_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PROYEC_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PROYEC_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PROYEC_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PROYEC_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PROYEC_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PROYEC_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PROYEC_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PROYEC_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PROYEC_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite                bool `envconfig:"PROYEC_USE_SQLITE" default:"false"`
	AutoMigrate              bool `envconfig:"PROYEC_AUTO_MIGRATE" default:"false"`
	RequireEmailVerification bool `envconfig:"PROYEC_REQUIRE_EMAIL_VERIFICATION" default:"false"`
}

type OrdersConfig struct {
	TotalPolicy string `envconfig:"PROYEC_ORDER_TOTAL_POLICY" default:"trust"`
}

// StrictTotals reports whether submitted totals must match the sum of their line items.
func (o OrdersConfig) StrictTotals() bool {
	return strings.EqualFold(strings.TrimSpace(o.TotalPolicy), OrderTotalPolicyStrict)
}

func (o OrdersConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(o.TotalPolicy)) {
	case OrderTotalPolicyTrust, OrderTotalPolicyStrict:
		return nil
	}
	return fmt.Errorf("%s must be %q or %q", EnvOrderTotalPolicy, OrderTotalPolicyTrust, OrderTotalPolicyStrict)
}

type CronConfig struct {
	Interval         time.Duration `envconfig:"PROYEC_CRON_INTERVAL" default:"1h"`
	SessionRetention time.Duration `envconfig:"PROYEC_CRON_SESSION_RETENTION" default:"24h"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if sqlite {
		db.Driver = DBDriverSQLite
	}
	if db.DSN != "" {
		return nil
	}
	if sqlite {
		db.DSN = defaultSQLiteDSN
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
