package config

import (
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Events.QueueCapacity != 1024 {
		t.Errorf("queue capacity default = %d, want 1024", cfg.Events.QueueCapacity)
	}
	if cfg.Events.DrainTimeoutSec != 5 {
		t.Errorf("drain timeout default = %d, want 5", cfg.Events.DrainTimeoutSec)
	}
	if cfg.Search.Oversample != 10 {
		t.Errorf("oversample default = %d, want 10", cfg.Search.Oversample)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 100 {
		t.Errorf("limits = %d/%d, want 10/100", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("dimensions default = %d, want 384", cfg.Embedding.Dimensions)
	}
	if cfg.Events.SQLitePath != "events.db" {
		t.Errorf("sqlite path default = %q", cfg.Events.SQLitePath)
	}
	if cfg.Ranking.AlphaClick != 0.05 || cfg.Ranking.MaxBoost != 0.5 {
		t.Errorf("boost defaults = %v/%v, want 0.05/0.5", cfg.Ranking.AlphaClick, cfg.Ranking.MaxBoost)
	}
	if cfg.Ranking.MaxBatchIDs != 500 {
		t.Errorf("max batch ids default = %d, want 500", cfg.Ranking.MaxBatchIDs)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	valid.ApplyDefaults()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	noPort := valid
	noPort.HTTP.Port = 0
	if err := noPort.Validate(); err == nil {
		t.Error("missing port must fail validation")
	}

	noAddrs := valid
	noAddrs.Database.Addrs = nil
	if err := noAddrs.Validate(); err == nil {
		t.Error("missing database addrs must fail validation")
	}

	badLimits := valid
	badLimits.Search.DefaultLimit = 200
	if err := badLimits.Validate(); err == nil {
		t.Error("default limit above max must fail validation")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("QK_TEST_PASSWORD", "hunter2")

	out := string(expandEnvVars([]byte("password: ${QK_TEST_PASSWORD}")))
	if out != "password: hunter2" {
		t.Errorf("expansion = %q", out)
	}

	out = string(expandEnvVars([]byte("port: ${QK_TEST_UNSET:-8080}")))
	if out != "port: 8080" {
		t.Errorf("default expansion = %q", out)
	}
}
