package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreTypePostgres = "postgres"
	StoreTypeBBolt    = "bbolt"
)

type Config struct {
	AppEnv         string `validate:"required,oneof=dev test prod"`
	HTTPAddr       string `validate:"required"`
	LogLevel       string `validate:"oneof=debug info warn warning error"`
	MigrationsPath string

	// DATABASE_URL is the runtime connection (often a pooler), DIRECT_URL the direct
	// connection used for migrations.
	DatabaseURL string
	DirectURL   string

	// PublicBaseURL is the externally reachable URL of this backend, required for webhook
	// registration on install. Example: https://your-subdomain.ngrok-free.app
	PublicBaseURL string

	StoreType string `validate:"oneof=postgres bbolt"`
	BBoltPath string `validate:"required_if=StoreType bbolt"`

	DB DBConfig

	Shopify ShopifyConfig
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	// Pool sizing; zero keeps pgxpool's defaults.
	MaxConns int32 `validate:"gte=0"`
	MinConns int32 `validate:"gte=0,ltefield=MaxConns"`
}

type ShopifyConfig struct {
	APIKey      string
	APISecret   string
	Scopes      string
	RedirectURL string `validate:"omitempty,url"`

	WebhookSecret string

	APIVersion string `validate:"required"`
	Timeout    time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")
	v.SetDefault("http_addr", "")
	v.SetDefault("port", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("migrations_path", "")
	v.SetDefault("database_url", "")
	v.SetDefault("direct_url", "")
	v.SetDefault("public_base_url", "")
	v.SetDefault("store_type", StoreTypePostgres)
	v.SetDefault("bbolt_path", "./data/shops.db")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "shopify")
	v.SetDefault("db_user", "shopify")
	v.SetDefault("db_password", "shopify")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("db_min_conns", 0)

	v.SetDefault("shopify_api_key", "")
	v.SetDefault("shopify_api_secret", "")
	v.SetDefault("shopify_scopes", "read_products")
	v.SetDefault("shopify_redirect_url", "")
	v.SetDefault("shopify_webhook_secret", "")
	v.SetDefault("shopify_api_version", "2025-10")
	v.SetDefault("shopify_timeout_seconds", 20)
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	// Convenience for local dev; production relies on real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := strings.TrimSpace(v.GetString("http_addr"))
	if httpAddr == "" {
		if port := strings.TrimSpace(v.GetString("port")); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	cfg := Config{
		AppEnv:         strings.ToLower(v.GetString("app_env")),
		HTTPAddr:       httpAddr,
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		MigrationsPath: v.GetString("migrations_path"),
		DatabaseURL:    v.GetString("database_url"),
		DirectURL:      v.GetString("direct_url"),
		PublicBaseURL:  v.GetString("public_base_url"),
		StoreType:      strings.ToLower(v.GetString("store_type")),
		BBoltPath:      v.GetString("bbolt_path"),
		DB: DBConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			Name:     v.GetString("db_name"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			SSLMode:  v.GetString("db_sslmode"),
			MaxConns: v.GetInt32("db_max_conns"),
			MinConns: v.GetInt32("db_min_conns"),
		},
		Shopify: ShopifyConfig{
			APIKey:        v.GetString("shopify_api_key"),
			APISecret:     v.GetString("shopify_api_secret"),
			Scopes:        v.GetString("shopify_scopes"),
			RedirectURL:   v.GetString("shopify_redirect_url"),
			WebhookSecret: v.GetString("shopify_webhook_secret"),
			APIVersion:    v.GetString("shopify_api_version"),
			Timeout:       time.Duration(v.GetInt("shopify_timeout_seconds")) * time.Second,
		},
	}

	if cfg.Shopify.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid shopify_timeout_seconds (must be positive seconds)")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProd() bool { return c.AppEnv == "prod" }

// WebhookSigningSecret is the key webhook bodies are signed with: SHOPIFY_WEBHOOK_SECRET, else
// the API secret Shopify uses for app webhooks.
func (c ShopifyConfig) WebhookSigningSecret() string {
	if s := strings.TrimSpace(c.WebhookSecret); s != "" {
		return s
	}
	return c.APISecret
}

// RequireShopify reports missing app credentials. Only the API server needs them; the dev
// tools run without.
func (c Config) RequireShopify() error {
	if strings.TrimSpace(c.Shopify.APIKey) == "" || strings.TrimSpace(c.Shopify.APISecret) == "" {
		return fmt.Errorf("missing SHOPIFY_API_KEY or SHOPIFY_API_SECRET")
	}
	return nil
}
