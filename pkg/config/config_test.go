package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper(vals map[string]any) *viper.Viper {
	v := viper.New()
	defaults(v)
	for k, val := range vals {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8081" || cfg.AppEnv != "dev" || cfg.StoreType != StoreTypePostgres {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Shopify.APIVersion != "2025-10" || cfg.Shopify.Timeout != 20*time.Second {
		t.Fatalf("unexpected shopify defaults %+v", cfg.Shopify)
	}
	if err := cfg.RequireShopify(); err == nil {
		t.Fatalf("expected missing credentials error")
	}
}

func TestFromViper_PortFallback(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"port": "9090"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.HTTPAddr)
	}

	cfg, err = fromViper(newViper(map[string]any{"port": "9090", "http_addr": "127.0.0.1:7000"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:7000" {
		t.Fatalf("HTTP_ADDR should win over PORT, got %q", cfg.HTTPAddr)
	}
}

func TestFromViper_Validation(t *testing.T) {
	cases := map[string]map[string]any{
		"env":      {"app_env": "staging"},
		"store":    {"store_type": "redis"},
		"bolt":     {"store_type": "bbolt", "bbolt_path": ""},
		"redirect": {"shopify_redirect_url": "not a url"},
		"timeout":  {"shopify_timeout_seconds": 0},
	}
	for name, vals := range cases {
		if _, err := fromViper(newViper(vals)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestFromViper_Shopify(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"shopify_api_key":      "k",
		"shopify_api_secret":   "s",
		"shopify_redirect_url": "https://app.example.com/v1/auth/callback",
		"app_env":              "PROD",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProd() {
		t.Fatalf("expected prod env")
	}
	if err := cfg.RequireShopify(); err != nil {
		t.Fatalf("require shopify: %v", err)
	}
}

func TestWebhookSigningSecret(t *testing.T) {
	sc := ShopifyConfig{APISecret: "apisecret", WebhookSecret: " whsec "}
	if got := sc.WebhookSigningSecret(); got != "whsec" {
		t.Fatalf("expected webhook secret, got %q", got)
	}
	sc.WebhookSecret = ""
	if got := sc.WebhookSigningSecret(); got != "apisecret" {
		t.Fatalf("expected api secret fallback, got %q", got)
	}
}

func TestFromViper_PoolSizing(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.MaxConns != 10 || cfg.DB.MinConns != 0 {
		t.Fatalf("unexpected pool defaults %+v", cfg.DB)
	}

	if _, err := fromViper(newViper(map[string]any{"db_max_conns": 2, "db_min_conns": 5})); err == nil {
		t.Fatalf("expected min > max to fail validation")
	}
}
