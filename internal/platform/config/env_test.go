package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port      int           `env:"PORTFOLIO_TEST_PORT" envDefault:"123"`
	OGTimeout time.Duration `env:"PORTFOLIO_TEST_OG_TIMEOUT" envDefault:"5s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.OGTimeout != 5*time.Second {
		t.Fatalf("expected default timeout 5s, got %v", cfg.OGTimeout)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PORTFOLIO_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestRequireValues(t *testing.T) {
	t.Parallel()

	if err := RequireValues(map[string]string{"A": "x", "B": "y"}); err != nil {
		t.Fatalf("RequireValues() error = %v", err)
	}

	err := RequireValues(map[string]string{"B_SECRET": " ", "A_SECRET": "", "C": "ok"})
	if err == nil {
		t.Fatal("expected missing settings error")
	}
	want := "missing required settings: A_SECRET, B_SECRET"
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}
