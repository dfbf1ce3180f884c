package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "photofolio"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PHOTOFOLIO_DB_DSN"
	EnvDBHost = "PHOTOFOLIO_DB_HOST"
	EnvDBUser = "PHOTOFOLIO_DB_USER"
	EnvDBName = "PHOTOFOLIO_DB_NAME"

	// AdminCookieName carries the signed admin session token.
	AdminCookieName = "folio_admin"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Admin         AdminConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	R2            R2Config
	Media         MediaConfig
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
	Env          string `envconfig:"PHOTOFOLIO_APP_ENV" required:"true"`
	Port         string `envconfig:"PHOTOFOLIO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PHOTOFOLIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PHOTOFOLIO_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"PHOTOFOLIO_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PHOTOFOLIO_DB_DSN"`
	Driver string `envconfig:"PHOTOFOLIO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PHOTOFOLIO_DB_HOST"`
	LegacyPort     int    `envconfig:"PHOTOFOLIO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PHOTOFOLIO_DB_USER"`
	LegacyPassword string `envconfig:"PHOTOFOLIO_DB_PASSWORD"`
	LegacyName     string `envconfig:"PHOTOFOLIO_DB_NAME"`
	LegacySSLMode  string `envconfig:"PHOTOFOLIO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PHOTOFOLIO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PHOTOFOLIO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PHOTOFOLIO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PHOTOFOLIO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PHOTOFOLIO_REDIS_URL"`
	PoolSize     int           `envconfig:"PHOTOFOLIO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PHOTOFOLIO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PHOTOFOLIO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PHOTOFOLIO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PHOTOFOLIO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"PHOTOFOLIO_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"PHOTOFOLIO_JWT_ISSUER" default:"photofolio"`
	SessionTTLHours int    `envconfig:"PHOTOFOLIO_SESSION_TTL_HOURS" default:"168"`
}

// SessionTTL returns the admin session validity window, seven days by default.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLHours <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLHours) * time.Hour
}

type AdminConfig struct {
	PasswordHash string `envconfig:"PHOTOFOLIO_ADMIN_PASSWORD_HASH"`
}

type AuthRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"PHOTOFOLIO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"PHOTOFOLIO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PHOTOFOLIO_AUTO_MIGRATE" default:"false"`
}

type R2Config struct {
	Endpoint        string        `envconfig:"PHOTOFOLIO_R2_ENDPOINT" required:"true"`
	AccessKey       string        `envconfig:"PHOTOFOLIO_R2_ACCESS_KEY_ID" required:"true"`
	SecretKey       string        `envconfig:"PHOTOFOLIO_R2_SECRET_ACCESS_KEY" required:"true"`
	Bucket          string        `envconfig:"PHOTOFOLIO_R2_BUCKET" required:"true"`
	PublicBaseURL   string        `envconfig:"PHOTOFOLIO_R2_PUBLIC_URL" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"PHOTOFOLIO_R2_UPLOAD_URL_EXPIRY" default:"60s"`
	UseSSL          bool          `envconfig:"PHOTOFOLIO_R2_USE_SSL" default:"true"`
}

type MediaConfig struct {
	FullMaxDimension  int   `envconfig:"PHOTOFOLIO_MEDIA_FULL_MAX_DIMENSION" default:"6000"`
	FullMaxBytes      int64 `envconfig:"PHOTOFOLIO_MEDIA_FULL_MAX_BYTES" default:"52428800"`
	ThumbMaxDimension int   `envconfig:"PHOTOFOLIO_MEDIA_THUMB_MAX_DIMENSION" default:"520"`
	ThumbMaxBytes     int64 `envconfig:"PHOTOFOLIO_MEDIA_THUMB_MAX_BYTES" default:"314572"`
	JPEGQuality       int   `envconfig:"PHOTOFOLIO_MEDIA_JPEG_QUALITY" default:"85"`
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
