package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoad(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("PORT", "9090")
	t.Setenv("AWS_S3_BUCKET", "tracker-images")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://ops.example.com")

	original := GetConfig()
	defer SetConfig(original)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite://:memory:", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.True(t, cfg.HasS3())
	assert.Equal(t, []string{"http://localhost:3000", "https://ops.example.com"}, cfg.CORSAllowedOrigins)
	assert.Same(t, cfg, GetConfig(), "Load should store the config for GetConfig")
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing database url",
			cfg:     Config{GoEnv: "test"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "missing auth0 domain outside test",
			cfg:     Config{GoEnv: "production", DatabaseURL: "postgres://db"},
			wantErr: "AUTH0_DOMAIN is required",
		},
		{
			name: "test environment without auth0",
			cfg:  Config{GoEnv: "test", DatabaseURL: "sqlite://:memory:"},
		},
		{
			name: "complete production config",
			cfg:  Config{GoEnv: "production", DatabaseURL: "postgres://db", Auth0Domain: "tenant.auth0.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "test"}).IsTest())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{}).HasS3())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitList("*"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
	assert.Nil(t, splitList(""))
}

func TestSQLLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":  logger.Info,
		"ERROR":  logger.Error,
		"silent": logger.Silent,
		"info":   logger.Warn,
		"":       logger.Warn,
	}
	for level, want := range cases {
		assert.Equal(t, want, (&Config{LogLevel: level}).SQLLogLevel(), level)
	}
}

func TestAuth0IssuerURL(t *testing.T) {
	assert.Equal(t, "https://tenant.auth0.com/", (&Config{Auth0Domain: "tenant.auth0.com"}).Auth0IssuerURL())
	assert.Equal(t, "http://127.0.0.1:9000/", (&Config{Auth0Domain: "http://127.0.0.1:9000/"}).Auth0IssuerURL())
}
