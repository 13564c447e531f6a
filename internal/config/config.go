package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Tenant   TenantConfig   `yaml:"tenant"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	LLM      LLMConfig      `yaml:"llm"`
	Site     SiteConfig     `yaml:"site"`
	Storage  StorageConfig  `yaml:"storage"`
	LogLevel string         `yaml:"log_level"`
}

type ServerConfig struct {
	Host       string  `yaml:"host"`
	Port       int     `yaml:"port"`
	RateLimit  float64 `yaml:"rate_limit"`
	RateBurst  int     `yaml:"rate_burst"`
	CORSOrigin string  `yaml:"cors_origin"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MaxConns       int    `yaml:"max_conns"`
	MinConns       int    `yaml:"min_conns"`
	MigrationsPath string `yaml:"migrations_path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AuthConfig points at the Supabase project acting as identity provider.
type AuthConfig struct {
	SupabaseURL    string `yaml:"supabase_url"`
	AnonKey        string `yaml:"anon_key"`
	ServiceRoleKey string `yaml:"service_role_key"`
	JWTSecret      string `yaml:"jwt_secret"`
}

type TenantConfig struct {
	ID string `yaml:"id"`
	// EdgeURL hosts system-owner-auth and register-tenant-user. Empty means
	// registration runs in-process and the owner bypass is disabled.
	EdgeURL           string        `yaml:"edge_url"`
	SystemOwnerPhones []string      `yaml:"system_owner_phones"`
	DevBypass         bool          `yaml:"dev_bypass"`
	DevPhone          string        `yaml:"dev_phone"`
	DevEmail          string        `yaml:"dev_email"`
	DevPassword       string        `yaml:"dev_password"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

// Configured reports whether all three Twilio credentials are present.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type LLMConfig struct {
	GatewayURL         string `yaml:"gateway_url"`
	GatewayKey         string `yaml:"gateway_key"`
	AnthropicKey       string `yaml:"anthropic_key"`
	AnthropicModel     string `yaml:"anthropic_model"`
	Provider           string `yaml:"provider"`
	EstimateModel      string `yaml:"estimate_model"`
	PurchaseOrderModel string `yaml:"purchase_order_model"`
}

type SiteConfig struct {
	URL          string `yaml:"url"`
	PortalURL    string `yaml:"portal_url"`
	ContentDir   string `yaml:"content_dir"`
	BusinessName string `yaml:"business_name"`
}

type StorageConfig struct {
	SupabaseURL string `yaml:"supabase_url"`
	SupabaseKey string `yaml:"supabase_key"`
	Bucket      string `yaml:"bucket"`
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080, RateLimit: 20, RateBurst: 40, CORSOrigin: "*"},
		Database: DatabaseConfig{MaxConns: 20, MinConns: 2, MigrationsPath: "migrations"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Tenant: TenantConfig{
			SystemOwnerPhones: []string{"15106196839", "5106196839"},
			DevPhone:          "+15550000000",
			CacheTTL:          5 * time.Minute,
		},
		LLM: LLMConfig{
			GatewayURL:         "https://ai.gateway.lovable.dev/v1",
			Provider:           "gateway",
			AnthropicModel:     "claude-sonnet-4-20250514",
			EstimateModel:      "google/gemini-3-flash-preview",
			PurchaseOrderModel: "google/gemini-2.5-flash",
		},
		Site:     SiteConfig{URL: "https://example.com", ContentDir: "content", BusinessName: "Roofing Friend"},
		Storage:  StorageConfig{Bucket: "feedback"},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// named by CONFIG_FILE, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Tenant.SystemOwnerPhones = digitsOnly(cfg.Tenant.SystemOwnerPhones)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	if cfg.Server.Port, err = getEnvInt("SERVER_PORT", cfg.Server.Port); err != nil {
		return fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	if cfg.Server.RateLimit, err = getEnvFloat("RATE_LIMIT_RPS", cfg.Server.RateLimit); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.Server.RateBurst, err = getEnvInt("RATE_LIMIT_BURST", cfg.Server.RateBurst); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	cfg.Server.CORSOrigin = getEnv("CORS_ORIGIN", cfg.Server.CORSOrigin)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	if cfg.Database.MaxConns, err = getEnvInt("DB_MAX_CONNS", cfg.Database.MaxConns); err != nil {
		return fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	if cfg.Database.MinConns, err = getEnvInt("DB_MIN_CONNS", cfg.Database.MinConns); err != nil {
		return fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	cfg.Database.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.Database.MigrationsPath)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.Auth.SupabaseURL = strings.TrimRight(getEnv("SUPABASE_URL", cfg.Auth.SupabaseURL), "/")
	cfg.Auth.AnonKey = getEnv("SUPABASE_ANON_KEY", cfg.Auth.AnonKey)
	cfg.Auth.ServiceRoleKey = getEnv("SUPABASE_SERVICE_ROLE_KEY", cfg.Auth.ServiceRoleKey)
	cfg.Auth.JWTSecret = getEnv("SUPABASE_JWT_SECRET", cfg.Auth.JWTSecret)

	cfg.Tenant.ID = getEnv("TENANT_ID", cfg.Tenant.ID)
	cfg.Tenant.EdgeURL = strings.TrimRight(getEnv("FASTFIX_EDGE_URL", cfg.Tenant.EdgeURL), "/")
	if v := os.Getenv("SYSTEM_OWNER_PHONES"); v != "" {
		cfg.Tenant.SystemOwnerPhones = splitList(v)
	}
	if cfg.Tenant.DevBypass, err = getEnvBool("DEV_BYPASS_ENABLED", cfg.Tenant.DevBypass); err != nil {
		return fmt.Errorf("invalid DEV_BYPASS_ENABLED: %w", err)
	}
	cfg.Tenant.DevPhone = getEnv("DEV_BYPASS_PHONE", cfg.Tenant.DevPhone)
	cfg.Tenant.DevEmail = getEnv("DEV_BYPASS_EMAIL", cfg.Tenant.DevEmail)
	cfg.Tenant.DevPassword = getEnv("DEV_BYPASS_PASSWORD", cfg.Tenant.DevPassword)
	if cfg.Tenant.CacheTTL, err = getEnvDuration("TENANT_CACHE_TTL", cfg.Tenant.CacheTTL); err != nil {
		return fmt.Errorf("invalid TENANT_CACHE_TTL: %w", err)
	}

	cfg.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", cfg.Stripe.SecretKey)

	cfg.Twilio.AccountSID = getEnv("TWILIO_ACCOUNT_SID", cfg.Twilio.AccountSID)
	cfg.Twilio.AuthToken = getEnv("TWILIO_AUTH_TOKEN", cfg.Twilio.AuthToken)
	cfg.Twilio.FromNumber = getEnv("TWILIO_PHONE_NUMBER", cfg.Twilio.FromNumber)

	cfg.LLM.GatewayURL = getEnv("AI_GATEWAY_URL", cfg.LLM.GatewayURL)
	cfg.LLM.GatewayKey = getEnv("LOVABLE_API_KEY", cfg.LLM.GatewayKey)
	cfg.LLM.AnthropicKey = getEnv("ANTHROPIC_API_KEY", cfg.LLM.AnthropicKey)
	cfg.LLM.AnthropicModel = getEnv("ANTHROPIC_MODEL", cfg.LLM.AnthropicModel)
	cfg.LLM.Provider = getEnv("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.EstimateModel = getEnv("ESTIMATE_MODEL", cfg.LLM.EstimateModel)
	cfg.LLM.PurchaseOrderModel = getEnv("PURCHASE_ORDER_MODEL", cfg.LLM.PurchaseOrderModel)

	cfg.Site.URL = strings.TrimRight(getEnv("SITE_URL", cfg.Site.URL), "/")
	cfg.Site.PortalURL = strings.TrimRight(getEnv("PORTAL_URL", cfg.Site.PortalURL), "/")
	if cfg.Site.PortalURL == "" {
		cfg.Site.PortalURL = cfg.Site.URL
	}
	cfg.Site.ContentDir = getEnv("CONTENT_DIR", cfg.Site.ContentDir)
	cfg.Site.BusinessName = getEnv("BUSINESS_NAME", cfg.Site.BusinessName)

	cfg.Storage.SupabaseURL = getEnv("SUPABASE_URL", cfg.Storage.SupabaseURL)
	cfg.Storage.SupabaseKey = getEnv("SUPABASE_SERVICE_ROLE_KEY", cfg.Storage.SupabaseKey)
	cfg.Storage.Bucket = getEnv("STORAGE_BUCKET", cfg.Storage.Bucket)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "SUPABASE_JWT_SECRET")
	}
	if c.Tenant.ID == "" {
		missing = append(missing, "TENANT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

// digitsOnly strips formatting from phone numbers and drops entries with no
// digits at all.
func digitsOnly(phones []string) []string {
	var out []string
	for _, p := range phones {
		d := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, p)
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
