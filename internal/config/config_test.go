package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_HOST", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "migrations", cfg.Migrations.Dir)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("DB_DATABASE", "catalog")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com,")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "5")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "catalog", cfg.Database.Database)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.RateLimit.Window)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	v := viper.New()
	v.Set("DB_USER", "user")
	v.Set("DB_PASSWORD", "secret")
	v.Set("DB_HOST", "db")
	v.Set("DB_PORT", "5432")
	v.Set("DB_DATABASE", "catalog")
	v.Set("DB_SCHEMA", "public")

	cfg := fromViper(v)

	assert.Equal(t, "postgres://user:secret@db:5432/catalog?search_path=public&sslmode=disable", cfg.Database.DSN())
}

func TestDatabaseConfig_DSNEscapesCredentials(t *testing.T) {
	cfg := DatabaseConfig{
		User:     "catalog@ops",
		Password: "p@ss:w/rd?#",
		Host:     "db",
		Port:     "5432",
		Database: "catalog",
		Schema:   "public",
	}

	parsed, err := url.Parse(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db:5432", parsed.Host)
	assert.Equal(t, "catalog@ops", parsed.User.Username())
	password, ok := parsed.User.Password()
	require.True(t, ok)
	assert.Equal(t, "p@ss:w/rd?#", password)
	assert.Equal(t, "/catalog", parsed.Path)
	assert.Equal(t, "public", parsed.Query().Get("search_path"))
}

func TestDatabaseConfig_DSNWithIPv6Host(t *testing.T) {
	cfg := DatabaseConfig{User: "u", Password: "p", Host: "::1", Port: "5432", Database: "catalog", Schema: "public"}

	parsed, err := url.Parse(cfg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "::1", parsed.Hostname())
	assert.Equal(t, "5432", parsed.Port())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: "6380"}.Addr())
}
