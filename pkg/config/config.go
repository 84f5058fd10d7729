package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "KIMHABORK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	// Placeholder values shipped in .env.example; treated as unconfigured.
	PlaceholderStoreDomain = "your-store.myshopify.com"
)

type Config struct {
	App          AppConfig
	Shopify      ShopifyConfig
	Cart         CartConfig
	Cache        CacheConfig
	Redis        RedisConfig
	DB           DBConfig
	SearchLimit  SearchRateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KIMHABORK_APP_ENV" default:"development"`
	Port         string `envconfig:"KIMHABORK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"KIMHABORK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIMHABORK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ShopifyConfig carries the Storefront API credentials.
type ShopifyConfig struct {
	StoreDomain           string `envconfig:"KIMHABORK_SHOPIFY_STORE_DOMAIN"`
	StorefrontAccessToken string `envconfig:"KIMHABORK_SHOPIFY_STOREFRONT_ACCESS_TOKEN"`
	RevalidationSecret    string `envconfig:"KIMHABORK_SHOPIFY_REVALIDATION_SECRET"`
	APIVersion            string `envconfig:"KIMHABORK_SHOPIFY_API_VERSION" default:"2024-10"`
}

// Endpoint returns the GraphQL endpoint for the configured store.
func (s ShopifyConfig) Endpoint() string {
	domain := strings.TrimSpace(s.StoreDomain)
	if !strings.HasPrefix(domain, "https://") && !strings.HasPrefix(domain, "http://") {
		domain = "https://" + domain
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", strings.TrimSuffix(domain, "/"), s.APIVersion)
}

// Validate reports missing or placeholder credentials. The caller decides
// how to classify the failure; a placeholder domain is as unusable as an
// empty one and must not be mistaken for a transient outage.
func (s ShopifyConfig) Validate() error {
	domain := strings.TrimSpace(s.StoreDomain)
	if domain == "" || strings.Contains(domain, PlaceholderStoreDomain) {
		return fmt.Errorf("shopify store domain is missing or placeholder")
	}
	if strings.TrimSpace(s.StorefrontAccessToken) == "" {
		return fmt.Errorf("shopify storefront access token is required")
	}
	return nil
}

// CartConfig drives the derived totals on the session cart.
type CartConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"KIMHABORK_CART_FREE_SHIPPING_THRESHOLD" default:"200"`
	FlatShippingFee       decimal.Decimal `envconfig:"KIMHABORK_CART_FLAT_SHIPPING_FEE" default:"15"`
	TaxRate               decimal.Decimal `envconfig:"KIMHABORK_CART_TAX_RATE" default:"0.08"`
	Currency              string          `envconfig:"KIMHABORK_CART_CURRENCY" default:"USD"`
	SessionTTL            time.Duration   `envconfig:"KIMHABORK_CART_SESSION_TTL" default:"24h"`
}

type CacheConfig struct {
	Enabled bool          `envconfig:"KIMHABORK_CACHE_ENABLED" default:"true"`
	TTL     time.Duration `envconfig:"KIMHABORK_CACHE_TTL" default:"5m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIMHABORK_REDIS_URL"`
	Address      string        `envconfig:"KIMHABORK_REDIS_ADDR"`
	Password     string        `envconfig:"KIMHABORK_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIMHABORK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIMHABORK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIMHABORK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIMHABORK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIMHABORK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIMHABORK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN        string `envconfig:"KIMHABORK_DB_DSN"`
	SQLitePath string `envconfig:"KIMHABORK_DB_SQLITE_PATH" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"KIMHABORK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIMHABORK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIMHABORK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIMHABORK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type SearchRateLimitConfig struct {
	Window  time.Duration `envconfig:"KIMHABORK_SEARCH_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"KIMHABORK_SEARCH_RATE_LIMIT_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KIMHABORK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KIMHABORK_AUTO_MIGRATE" default:"false"`
}
