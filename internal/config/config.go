package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

const (
	minJWTSecretLength       = 32
	minAdminKeyLength        = 24
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2

	errParseEnvFmt             = "failed to parse environment: %w"
	errInvalidConfigurationFmt = "invalid configuration: %w"
	errDBPasswordRequired      = "DB_PASSWORD must be set when DOCUMENT_BACKEND=postgres"
	errBucketRequired          = "S3_BUCKET must be set when STORAGE_BACKEND=s3"
	errRegionRequired          = "REGION must be set when STORAGE_BACKEND=s3"
	errRedisAddrRequired       = "REDIS_ADDR must be set when CACHE_BACKEND=redis"
	errUnknownBackendFmt       = "unknown %s %q"
	errJWTSecretRequired       = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropy     = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errAdminKeyMinLengthFmt    = "ADMIN_API_KEY must be at least %d characters"
	errPublicBaseURLInvalid    = "PUBLIC_BASE_URL must be an absolute http(s) URL"
	errTTLPositiveFmt          = "%s must be positive"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Mail     MailConfig
	AI       ProcessorConfig
	App      AppConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EnableProfiling bool          `env:"ENABLE_PROFILING" envDefault:"false"`
}

type DatabaseConfig struct {
	Backend  string `env:"DOCUMENT_BACKEND" envDefault:"postgres"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	Database string `env:"DB_NAME" envDefault:"booth"`
	User     string `env:"DB_USER" envDefault:"booth_app"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns int    `env:"DB_MIN_CONNS" envDefault:"5"`
}

type StorageConfig struct {
	Backend         string        `env:"STORAGE_BACKEND" envDefault:"s3"`
	Bucket          string        `env:"S3_BUCKET"`
	Region          string        `env:"REGION"`
	Endpoint        string        `env:"S3_ENDPOINT"`
	AccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	PublicBaseURL   string        `env:"S3_PUBLIC_BASE_URL"`
	GlobalPrefix    string        `env:"STORAGE_PREFIX" envDefault:"tenants"`
	PresignExpiry   time.Duration `env:"DOWNLOAD_URL_TIME_LIMIT" envDefault:"15m"`
	CacheControl    string        `env:"ASSET_CACHE_CONTROL" envDefault:"private, max-age=3600"`
}

type CacheConfig struct {
	Backend  string `env:"CACHE_BACKEND" envDefault:"memory"`
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
}

type AdminConfig struct {
	APIKey        string `env:"ADMIN_API_KEY"`
	WebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET"`
}

type MailConfig struct {
	From           string `env:"MAIL_FROM" envDefault:"no-reply@booth.local"`
	Company        string `env:"MAIL_COMPANY" envDefault:"Booth"`
	Strategy       string `env:"MAIL_STRATEGY" envDefault:"failover"`
	ResendAPIKey   string `env:"RESEND_API_KEY"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
}

// ProcessorConfig points at the external image processor. An empty
// endpoint disables AI processing.
type ProcessorConfig struct {
	Endpoint string `env:"AI_PROCESSOR_URL"`
	APIKey   string `env:"AI_PROCESSOR_API_KEY"`
}

type AppConfig struct {
	PublicBaseURL      string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	DeliveryTTL        time.Duration `env:"DELIVERY_TTL" envDefault:"72h"`
	SelectionTTL       time.Duration `env:"SELECTION_TTL" envDefault:"72h"`
	EventRetention     time.Duration `env:"EVENT_RETENTION" envDefault:"168h"`
	MaxUploadSize      int64         `env:"MAX_UPLOAD_SIZE" envDefault:"26214400"`
	DefaultSelectLimit int           `env:"DEFAULT_SELECTION_LIMIT" envDefault:"3"`
}

type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(errParseEnvFmt, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Backend {
	case BackendPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf(errDBPasswordRequired)
		}
	case BackendMemory:
	default:
		return fmt.Errorf(errUnknownBackendFmt, "DOCUMENT_BACKEND", c.Database.Backend)
	}

	switch c.Storage.Backend {
	case BackendS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf(errBucketRequired)
		}
		if c.Storage.Region == "" {
			return fmt.Errorf(errRegionRequired)
		}
	case BackendMemory:
	default:
		return fmt.Errorf(errUnknownBackendFmt, "STORAGE_BACKEND", c.Storage.Backend)
	}

	switch c.Cache.Backend {
	case BackendRedis:
		if c.Cache.Addr == "" {
			return fmt.Errorf(errRedisAddrRequired)
		}
	case BackendMemory:
	default:
		return fmt.Errorf(errUnknownBackendFmt, "CACHE_BACKEND", c.Cache.Backend)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequired)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropy)
	}

	if c.Admin.APIKey != "" && len(c.Admin.APIKey) < minAdminKeyLength {
		return fmt.Errorf(errAdminKeyMinLengthFmt, minAdminKeyLength)
	}

	parsed, err := url.Parse(c.App.PublicBaseURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf(errPublicBaseURLInvalid)
	}

	if c.App.DeliveryTTL <= 0 {
		return fmt.Errorf(errTTLPositiveFmt, "DELIVERY_TTL")
	}
	if c.App.SelectionTTL <= 0 {
		return fmt.Errorf(errTTLPositiveFmt, "SELECTION_TTL")
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
