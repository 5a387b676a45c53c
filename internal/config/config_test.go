package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "DB_HOST", "REDIS_ADDR", "INVOICE_PREFIX", "API_HTTP_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HTTP.Port != defaultHTTPPort {
		t.Errorf("expected port %d, got %d", defaultHTTPPort, cfg.HTTP.Port)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got %q", cfg.Database.URL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected empty redis addr, got %q", cfg.Redis.Addr)
	}
	if cfg.Storefront.InvoicePrefix != "BSE" {
		t.Errorf("expected invoice prefix BSE, got %s", cfg.Storefront.InvoicePrefix)
	}
	if cfg.Storefront.TransitionDelay != 1500*time.Millisecond {
		t.Errorf("expected 1.5s transition delay, got %s", cfg.Storefront.TransitionDelay)
	}
	if cfg.Storefront.IdempotencyTTL != defaultIdempotencyTTL {
		t.Errorf("expected idempotency ttl %s, got %s", defaultIdempotencyTTL, cfg.Storefront.IdempotencyTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_CATALOG_TTL", "2m")
	t.Setenv("INVOICE_PREFIX", "inv")
	t.Setenv("INVOICE_PAGE_SIZE", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !strings.Contains(cfg.Database.URL, "@db.internal:5432/shop") {
		t.Errorf("expected URL built from DB_* parts, got %s", cfg.Database.URL)
	}
	if cfg.Redis.CatalogTTL != 2*time.Minute {
		t.Errorf("expected catalog TTL 2m, got %s", cfg.Redis.CatalogTTL)
	}
	if cfg.Storefront.InvoicePrefix != "INV" {
		t.Errorf("expected upper-cased prefix INV, got %s", cfg.Storefront.InvoicePrefix)
	}
	if cfg.Storefront.DocumentPageSize != 8 {
		t.Errorf("expected page size 8, got %d", cfg.Storefront.DocumentPageSize)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "API_HTTP_PORT", "eighty"},
		{"bad sample rate", "OTEL_SAMPLE_RATE", "all"},
		{"bad session ttl", "REDIS_SESSION_TTL", "forever"},
		{"zero page size", "INVOICE_PAGE_SIZE", "0"},
		{"bad transition delay", "CHECKOUT_TRANSITION_DELAY", "soon"},
		{"invoice prefix with digit", "INVOICE_PREFIX", "BS1"},
		{"invoice prefix with dash", "INVOICE_PREFIX", "BSE-X"},
		{"bad idempotency ttl", "IDEMPOTENCY_TTL", "a while"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
