package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "f3K9qL2mZx7VbN4tR8wYc1HdJ6sPgU0e"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOCUMENT_BACKEND", BackendMemory)
	t.Setenv("STORAGE_BACKEND", BackendMemory)
	t.Setenv("JWT_SECRET", strongSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 72*time.Hour, cfg.App.DeliveryTTL)
	assert.Equal(t, 72*time.Hour, cfg.App.SelectionTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.App.EventRetention)
	assert.Equal(t, "tenants", cfg.Storage.GlobalPrefix)
	assert.Equal(t, BackendMemory, cfg.Cache.Backend)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Backend: BackendMemory},
			Storage:  StorageConfig{Backend: BackendMemory},
			Cache:    CacheConfig{Backend: BackendMemory},
			JWT:      JWTConfig{Secret: strongSecret},
			App: AppConfig{
				PublicBaseURL: "https://booth.example.com",
				DeliveryTTL:   time.Hour,
				SelectionTTL:  time.Hour,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"postgres without password", func(c *Config) { c.Database.Backend = BackendPostgres }, true},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = BackendS3; c.Storage.Region = "us-east-1" }, true},
		{"s3 complete", func(c *Config) {
			c.Storage.Backend = BackendS3
			c.Storage.Region = "us-east-1"
			c.Storage.Bucket = "booth"
		}, false},
		{"unknown storage", func(c *Config) { c.Storage.Backend = "ftp" }, true},
		{"redis without addr", func(c *Config) { c.Cache.Backend = BackendRedis }, true},
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }, true},
		{"low entropy secret", func(c *Config) { c.JWT.Secret = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" }, true},
		{"short admin key", func(c *Config) { c.Admin.APIKey = "tiny" }, true},
		{"relative base url", func(c *Config) { c.App.PublicBaseURL = "/booth" }, true},
		{"zero delivery ttl", func(c *Config) { c.App.DeliveryTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
