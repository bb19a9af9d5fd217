package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL = %q", cfg.NATSURL)
	}
	if cfg.ClickHouseDatabase != "shiftly" {
		t.Errorf("ClickHouseDatabase = %q", cfg.ClickHouseDatabase)
	}
	if cfg.ConfirmTokenTTL != 15*time.Minute {
		t.Errorf("ConfirmTokenTTL = %v", cfg.ConfirmTokenTTL)
	}
	if cfg.TemplatePageSize != 6 {
		t.Errorf("TemplatePageSize = %d", cfg.TemplatePageSize)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CONFIRM_TOKEN_TTL", "5m")
	t.Setenv("TEMPLATE_PAGE_SIZE", "12")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.ConfirmTokenTTL != 5*time.Minute {
		t.Errorf("ConfirmTokenTTL = %v, want 5m", cfg.ConfirmTokenTTL)
	}
	if cfg.TemplatePageSize != 12 {
		t.Errorf("TemplatePageSize = %d, want 12", cfg.TemplatePageSize)
	}
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TEMPLATE_PAGE_SIZE", "six")
	t.Setenv("CONFIRM_TOKEN_TTL", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.TemplatePageSize != 6 {
		t.Errorf("TemplatePageSize = %d, want default 6", cfg.TemplatePageSize)
	}
	if cfg.ConfirmTokenTTL != 15*time.Minute {
		t.Errorf("ConfirmTokenTTL = %v, want default 15m", cfg.ConfirmTokenTTL)
	}
}
