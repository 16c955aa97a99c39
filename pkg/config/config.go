package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	JWT          JWTConfig
	Line         LineConfig
	Cloudinary   CloudinaryConfig
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
	Env          string `envconfig:"GROUPBUY_APP_ENV" required:"true"`
	Port         string `envconfig:"GROUPBUY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GROUPBUY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GROUPBUY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GROUPBUY_DB_DSN"`
	Driver string `envconfig:"GROUPBUY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GROUPBUY_DB_HOST"`
	Port     int    `envconfig:"GROUPBUY_DB_PORT" default:"5432"`
	User     string `envconfig:"GROUPBUY_DB_USER"`
	Password string `envconfig:"GROUPBUY_DB_PASSWORD"`
	Name     string `envconfig:"GROUPBUY_DB_NAME"`
	SSLMode  string `envconfig:"GROUPBUY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GROUPBUY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GROUPBUY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GROUPBUY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GROUPBUY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GROUPBUY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GROUPBUY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GROUPBUY_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type LineConfig struct {
	ChannelAccessToken string        `envconfig:"GROUPBUY_LINE_CHANNEL_ACCESS_TOKEN" required:"true"`
	BaseURL            string        `envconfig:"GROUPBUY_LINE_BASE_URL" default:"https://api.line.me"`
	Timeout            time.Duration `envconfig:"GROUPBUY_LINE_TIMEOUT" default:"10s"`
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"GROUPBUY_CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"GROUPBUY_CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"GROUPBUY_CLOUDINARY_API_SECRET"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GROUPBUY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GROUPBUY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		"GROUPBUY_DB_HOST": db.Host,
		"GROUPBUY_DB_USER": db.User,
		"GROUPBUY_DB_NAME": db.Name,
	}
	for _, key := range []string{"GROUPBUY_DB_HOST", "GROUPBUY_DB_USER", "GROUPBUY_DB_NAME"} {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either GROUPBUY_DB_DSN or %s are required", strings.Join(missing, ", "))
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
