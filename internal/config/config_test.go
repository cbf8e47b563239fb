package config

import (
	"strings"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret123")

	data := expandEnvVars([]byte("api_key: ${TEST_API_KEY}"))
	if string(data) != "api_key: secret123" {
		t.Errorf("expanded = %q", data)
	}
}

func TestExpandEnvVarsDefault(t *testing.T) {
	t.Setenv("TEST_UNSET_VAR", "")

	data := expandEnvVars([]byte("url: ${TEST_UNSET_VAR:-http://localhost}"))
	if string(data) != "url: http://localhost" {
		t.Errorf("expanded = %q", data)
	}

	t.Setenv("TEST_SET_VAR", "override")
	data = expandEnvVars([]byte("url: ${TEST_SET_VAR:-fallback}"))
	if string(data) != "url: override" {
		t.Errorf("expanded = %q", data)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Retrieval.DefaultK != 5 || cfg.Retrieval.PoolSize != 50 {
		t.Errorf("retrieval defaults = (%d, %d)", cfg.Retrieval.DefaultK, cfg.Retrieval.PoolSize)
	}
	if cfg.Retrieval.FusionStrategy != "weighted" {
		t.Errorf("fusion strategy = %q", cfg.Retrieval.FusionStrategy)
	}
	if cfg.Retrieval.FusionAlpha != 0.7 || cfg.Retrieval.FusionBeta != 0.3 {
		t.Errorf("fusion weights = (%v, %v)", cfg.Retrieval.FusionAlpha, cfg.Retrieval.FusionBeta)
	}
	if cfg.Retrieval.RRFConstant != 60 {
		t.Errorf("rrf constant = %d", cfg.Retrieval.RRFConstant)
	}
	if cfg.Index.DataDir != "data" {
		t.Errorf("data dir = %q", cfg.Index.DataDir)
	}
}

func TestApplyDefaultsKeepsExplicitWeights(t *testing.T) {
	cfg := Config{}
	cfg.Retrieval.FusionAlpha = 1.0
	cfg.ApplyDefaults()

	if cfg.Retrieval.FusionAlpha != 1.0 || cfg.Retrieval.FusionBeta != 0 {
		t.Errorf("weights = (%v, %v), explicit values must survive",
			cfg.Retrieval.FusionAlpha, cfg.Retrieval.FusionBeta)
	}
}

func validConfig() Config {
	var cfg Config
	cfg.HTTP.Port = 8080
	cfg.Embedding.Model = "text-embedding-3-small"
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := validConfig()
	bad.HTTP.Port = 0
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "http.port") {
		t.Errorf("port error = %v", err)
	}

	bad = validConfig()
	bad.Embedding.Model = ""
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "embedding.model") {
		t.Errorf("model error = %v", err)
	}

	bad = validConfig()
	bad.Retrieval.FusionStrategy = "bogus"
	if err := bad.Validate(); err == nil || !strings.Contains(err.Error(), "fusion_strategy") {
		t.Errorf("strategy error = %v", err)
	}

	bad = validConfig()
	bad.Retrieval.FusionAlpha = -0.5
	if err := bad.Validate(); err == nil {
		t.Error("negative fusion weight should be rejected")
	}
}
