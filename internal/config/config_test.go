package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// TestLoad_Defaults tests that defaults produce a valid configuration
func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %s", cfg.Port)
	}
	if cfg.DatastoreType != "memory" {
		t.Errorf("expected memory datastore, got %s", cfg.DatastoreType)
	}
	if cfg.GeoServiceTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.GeoServiceTimeout)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("expected :3000, got %s", cfg.Addr())
	}
}

// TestLoad_EnvironmentOverrides tests environment variables
func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEO_SERVICE_URL", "http://geo.internal:8080/")
	t.Setenv("GEO_SERVICE_TIMEOUT", "5s")
	t.Setenv("DATASTORE_TYPE", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "5")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.GeoServiceURL != "http://geo.internal:8080" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.GeoServiceURL)
	}
	if cfg.GeoServiceTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.GeoServiceTimeout)
	}
	if cfg.DatastoreType != "redis" {
		t.Errorf("expected redis, got %s", cfg.DatastoreType)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.RequestsPerSecond() != 2.0 {
		t.Errorf("expected 2 req/s, got %f", cfg.RequestsPerSecond())
	}
}

// TestValidate_Errors tests that every problem is reported
func TestValidate_Errors(t *testing.T) {
	cfg := &Config{
		Port:                "",
		GeoServiceURL:       "",
		GeoServiceTimeout:   0,
		DatastoreType:       "mysql",
		RateLimit:           0,
		RateLimitWindow:     1,
		BulkRateLimit:       1,
		BulkRateLimitWindow: 1,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, fragment := range []string{"port", "geo_service_url", "geo_service_timeout", "mysql_dsn", "rate_limit"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected error to mention %q, got: %v", fragment, err)
		}
	}
}

// TestValidate_UnknownDatastore tests rejection of unsupported backends
func TestValidate_UnknownDatastore(t *testing.T) {
	t.Setenv("DATASTORE_TYPE", "csv")

	if _, err := load(viper.New()); err == nil {
		t.Error("expected error for csv datastore")
	}
}
