package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Password   PasswordConfig
	Google     GoogleOAuthConfig
	Frontend   FrontendConfig
	ImageHost  ImageHostConfig
	SuperAdmin SuperAdminConfig

	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"BULLBOARD_APP_ENV" required:"true"`
	Port         string `envconfig:"BULLBOARD_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BULLBOARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BULLBOARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BULLBOARD_DB_DSN"`
	Driver string `envconfig:"BULLBOARD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BULLBOARD_DB_HOST"`
	LegacyPort     int    `envconfig:"BULLBOARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BULLBOARD_DB_USER"`
	LegacyPassword string `envconfig:"BULLBOARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"BULLBOARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"BULLBOARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BULLBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BULLBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BULLBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BULLBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BULLBOARD_REDIS_URL"`
	Address      string        `envconfig:"BULLBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"BULLBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"BULLBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BULLBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BULLBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BULLBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BULLBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BULLBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"BULLBOARD_JWT_SECRET"`
	Issuer          string `envconfig:"BULLBOARD_JWT_ISSUER" default:"bullboard"`
	ExpirationHours int    `envconfig:"BULLBOARD_JWT_EXPIRATION_HOURS" default:"168"`
}

// TokenTTL returns the configured bearer token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationHours <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BULLBOARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BULLBOARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BULLBOARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BULLBOARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BULLBOARD_ARGON_KEY_LEN" default:"32"`
}

type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"BULLBOARD_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"BULLBOARD_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"BULLBOARD_GOOGLE_REDIRECT_URL"`
	IssuerURL    string `envconfig:"BULLBOARD_GOOGLE_ISSUER_URL" default:"https://accounts.google.com"`
}

// Enabled reports whether Google sign-in is configured for this deployment.
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

type FrontendConfig struct {
	BaseURL string `envconfig:"BULLBOARD_FRONTEND_BASE_URL" default:"http://localhost:3000"`
}

type ImageHostConfig struct {
	BaseURL     string `envconfig:"BULLBOARD_IMAGE_HOST_BASE_URL"`
	APIKey      string `envconfig:"BULLBOARD_IMAGE_HOST_API_KEY"`
	MaxUploadMB int    `envconfig:"BULLBOARD_IMAGE_HOST_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BULLBOARD_AUTO_MIGRATE" default:"false"`
}

type SuperAdminConfig struct {
	Email            string `envconfig:"BULLBOARD_SUPER_ADMIN_EMAIL" required:"true"`
	RecoveryPassword string `envconfig:"BULLBOARD_SUPER_ADMIN_RECOVERY_PASSWORD"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
