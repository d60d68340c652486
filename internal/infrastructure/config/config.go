package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,           default=5000"`
	Env         string        `env:"ENV,            default=development"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,      default=24h"`
	LogLevel    string        `env:"LOG_LEVEL,      default=info"`
	LogPretty   bool          `env:"LOG_PRETTY,     default=false"`
	MaxUploadMB int64         `env:"MAX_UPLOAD_MB,  default=10"`
	CORSOrigins []string      `env:"CORS_ORIGINS,   default=*"`

	Mongo        MongoConfig
	Redis        RedisConfig
	S3           S3Config
	Login        LoginConfig
	Purge        PurgeConfig
	DefaultAdmin DefaultAdminConfig
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DB,           default=mushmind"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type S3Config struct {
	Bucket        string `env:"S3_BUCKET,          default=mushmind-images"`
	Region        string `env:"S3_REGION,          default=us-east-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	UsePathStyle  bool   `env:"S3_USE_PATH_STYLE,  default=false"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// LoginConfig bounds failed login attempts per email and client IP.
type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

type PurgeConfig struct {
	Workers   int `env:"PURGE_WORKERS,    default=4"`
	QueueSize int `env:"PURGE_QUEUE_SIZE, default=256"`
}

type DefaultAdminConfig struct {
	Name     string `env:"DEFAULT_ADMIN_NAME,  default=Admin"`
	Email    string `env:"DEFAULT_ADMIN_EMAIL"`
	Password string `env:"DEFAULT_ADMIN_PASSWORD"`
}

// IsProduction reports whether internal error details must be hidden.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// MaxUploadBytes is the request body limit for image uploads.
func (c *Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper. Tests pass
// envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 characters in production")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("config: MAX_UPLOAD_MB must be positive")
	}
	if (c.DefaultAdmin.Email == "") != (c.DefaultAdmin.Password == "") {
		return errors.New("config: DEFAULT_ADMIN_EMAIL and DEFAULT_ADMIN_PASSWORD must be set together")
	}
	return nil
}
