package config

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default server port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Mongo.DBName != "hospital" {
		t.Errorf("default db name = %q, want hospital", cfg.Mongo.DBName)
	}
	if cfg.JWT.Expiration != "24h" {
		t.Errorf("default jwt expiration = %q, want 24h", cfg.JWT.Expiration)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("MONGO_DBNAME", "hospital_test")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("server port = %q, want 9999", cfg.Server.Port)
	}
	if cfg.Mongo.DBName != "hospital_test" {
		t.Errorf("db name = %q, want hospital_test", cfg.Mongo.DBName)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("jwt secret = %q, want env-secret", cfg.JWT.Secret)
	}
}
