package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the storefront service.
type Config struct {
	HTTP       HTTPConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Telemetry  TelemetryConfig
	Service    ServiceConfig
	Storefront StorefrontConfig
}

type HTTPConfig struct {
	Port          int
	ShutdownGrace int
}

// DatabaseConfig points at Postgres. An empty URL selects the in-memory stores.
// MigrationsPath, when set, overrides the migrations embedded in the binary.
type DatabaseConfig struct {
	URL             string
	AutoMigrate     bool
	MigrationsPath  string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// RedisConfig points at Redis. An empty Addr disables the catalog cache and
// keeps sessions in process memory.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	CatalogTTL time.Duration
	SessionTTL time.Duration
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

type StorefrontConfig struct {
	InvoicePrefix      string
	WhatsAppNumber     string
	TransitionDelay    time.Duration
	DocumentPageSize   int
	AdminOrderPageSize int
	IdempotencyTTL     time.Duration
}

const (
	defaultHTTPPort         = 8080
	defaultShutdownGrace    = 15
	defaultAutoMigrate      = true
	defaultMaxConns         = 25
	defaultMinConns         = 5
	defaultMaxConnLifetime  = 5 * time.Minute
	defaultCatalogTTL       = 10 * time.Minute
	defaultSessionTTL       = 24 * time.Hour
	defaultServiceName      = "storefront-api"
	defaultServiceVersion   = "0.1.0"
	defaultEnvironment      = "development"
	defaultLogLevel         = "info"
	defaultOTelSampleRate   = 1.0
	defaultInvoicePrefix    = "BSE"
	defaultWhatsAppNumber   = "8801700000000"
	defaultTransitionDelay  = 1500 * time.Millisecond
	defaultDocumentPageSize = 15
	defaultAdminPageSize    = 20
	defaultIdempotencyTTL   = 24 * time.Hour
)

// Load reads configuration from environment variables, applying defaults when needed.
func Load() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	dbCfg, err := loadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("loading database config: %w", err)
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, fmt.Errorf("loading redis config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	storefrontCfg, err := loadStorefrontConfig()
	if err != nil {
		return nil, fmt.Errorf("loading storefront config: %w", err)
	}

	return &Config{
		HTTP:       httpCfg,
		Database:   dbCfg,
		Redis:      redisCfg,
		Telemetry:  telCfg,
		Service:    loadServiceConfig(),
		Storefront: storefrontCfg,
	}, nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port, err := getIntEnv("API_HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return HTTPConfig{}, err
	}

	shutdownGrace, err := getIntEnv("API_SHUTDOWN_GRACE_SECONDS", defaultShutdownGrace)
	if err != nil {
		return HTTPConfig{}, err
	}

	return HTTPConfig{
		Port:          port,
		ShutdownGrace: shutdownGrace,
	}, nil
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" && os.Getenv("DB_HOST") != "" {
		databaseURL = buildDatabaseURL()
	}

	maxConns, err := getIntEnv("DB_MAX_CONNS", defaultMaxConns)
	if err != nil {
		return DatabaseConfig{}, err
	}
	minConns, err := getIntEnv("DB_MIN_CONNS", defaultMinConns)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxLifetime, err := getDurationEnv("DB_MAX_CONN_LIFETIME", defaultMaxConnLifetime)
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		URL:             databaseURL,
		AutoMigrate:     getBoolEnv("AUTO_MIGRATE", defaultAutoMigrate),
		MigrationsPath:  os.Getenv("MIGRATIONS_PATH"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: maxLifetime,
	}, nil
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}
	catalogTTL, err := getDurationEnv("REDIS_CATALOG_TTL", defaultCatalogTTL)
	if err != nil {
		return RedisConfig{}, err
	}
	sessionTTL, err := getDurationEnv("REDIS_SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Addr:       os.Getenv("REDIS_ADDR"),
		Password:   os.Getenv("REDIS_PASSWORD"),
		DB:         db,
		CatalogTTL: catalogTTL,
		SessionTTL: sessionTTL,
	}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		OTelEndpoint:  getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EnableTracing: getBoolEnv("OTEL_ENABLE_TRACING", true),
		EnableMetrics: getBoolEnv("OTEL_ENABLE_METRICS", true),
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("API_SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func loadStorefrontConfig() (StorefrontConfig, error) {
	delay, err := getDurationEnv("CHECKOUT_TRANSITION_DELAY", defaultTransitionDelay)
	if err != nil {
		return StorefrontConfig{}, err
	}
	pageSize, err := getIntEnv("INVOICE_PAGE_SIZE", defaultDocumentPageSize)
	if err != nil {
		return StorefrontConfig{}, err
	}
	if pageSize < 1 {
		return StorefrontConfig{}, fmt.Errorf("invalid INVOICE_PAGE_SIZE: must be positive, got %d", pageSize)
	}
	adminPageSize, err := getIntEnv("ADMIN_ORDERS_PAGE_SIZE", defaultAdminPageSize)
	if err != nil {
		return StorefrontConfig{}, err
	}
	idempotencyTTL, err := getDurationEnv("IDEMPOTENCY_TTL", defaultIdempotencyTTL)
	if err != nil {
		return StorefrontConfig{}, err
	}

	prefix := strings.ToUpper(getEnvOrDefault("INVOICE_PREFIX", defaultInvoicePrefix))
	if !validInvoicePrefix(prefix) {
		return StorefrontConfig{}, fmt.Errorf("invalid INVOICE_PREFIX: must be letters only, got %q", prefix)
	}

	return StorefrontConfig{
		InvoicePrefix:      prefix,
		WhatsAppNumber:     getEnvOrDefault("WHATSAPP_NUMBER", defaultWhatsAppNumber),
		TransitionDelay:    delay,
		DocumentPageSize:   pageSize,
		AdminOrderPageSize: adminPageSize,
		IdempotencyTTL:     idempotencyTTL,
	}, nil
}

// validInvoicePrefix matches the letter block of an invoice number.
func validInvoicePrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, r := range prefix {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "storefront")
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, dbName, sslMode)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
