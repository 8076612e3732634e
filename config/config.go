package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Models   ModelsConfig
	Catalog  CatalogConfig
	MQTT     MQTTConfig
	Admin    AdminConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port int
	// ReferenceTZ, when set, converts timestamps that carry an offset into
	// this zone before features are taken. Empty keeps the supplied offset.
	ReferenceTZ string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type CORSConfig struct {
	AllowedOrigins string
}

type ModelsConfig struct {
	// Source is "dir" or "sqlite".
	Source     string
	Dir        string
	SQLitePath string
}

type CatalogConfig struct {
	// Source is "csv" or "postgres".
	Source  string
	CSVPath string
}

type MQTTConfig struct {
	URL         string
	ReloadTopic string
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	Password     string
}

type CacheConfig struct {
	TTL time.Duration
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// GetURL returns the DSN in URL form, as pgxpool expects.
func (d DatabaseConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func LoadConfig() (*Config, error) {
	serverPort, err := getIntEnv("SERVER_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	redisPort, err := getIntEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtExpiry, err := getIntEnv("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
	}

	cacheTTL, err := getIntEnv("CACHE_TTL_SEC", 300)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SEC: %w", err)
	}

	dbEnabled, err := getBoolEnv("DB_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_ENABLED: %w", err)
	}

	redisEnabled, err := getBoolEnv("REDIS_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_ENABLED: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        serverPort,
			ReferenceTZ: getEnv("REFERENCE_TZ", ""),
		},
		Database: DatabaseConfig{
			Enabled:  dbEnabled,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "hotspot"),
			Password: getEnv("DB_PASSWORD", "hotspot_dev_password"),
			Name:     getEnv("DB_NAME", "hotspot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  redisEnabled,
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     redisPort,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpiryHours: jwtExpiry,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Models: ModelsConfig{
			Source:     getEnv("MODELS_SOURCE", "dir"),
			Dir:        getEnv("MODELS_DIR", "../ml/models"),
			SQLitePath: getEnv("MODELS_SQLITE_PATH", "../ml/models/bundle.db"),
		},
		Catalog: CatalogConfig{
			Source:  getEnv("CATALOG_SOURCE", "csv"),
			CSVPath: getEnv("CATALOG_CSV_PATH", "../data/processed/svc_clean_2022_2024.csv"),
		},
		MQTT: MQTTConfig{
			URL:         getEnv("MQTT_URL", ""),
			ReloadTopic: getEnv("MQTT_RELOAD_TOPIC", "hotspot/models/reload"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			Password:     getEnv("ADMIN_PASSWORD", ""),
		},
		Cache: CacheConfig{
			TTL: time.Duration(cacheTTL) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Models.Source {
	case "dir", "sqlite":
	default:
		return fmt.Errorf("invalid MODELS_SOURCE %q, want dir or sqlite", c.Models.Source)
	}
	switch c.Catalog.Source {
	case "csv":
	case "postgres":
		if !c.Database.Enabled {
			return fmt.Errorf("CATALOG_SOURCE=postgres requires DB_ENABLED=true")
		}
	default:
		return fmt.Errorf("invalid CATALOG_SOURCE %q, want csv or postgres", c.Catalog.Source)
	}
	if c.Server.ReferenceTZ != "" {
		if _, err := time.LoadLocation(c.Server.ReferenceTZ); err != nil {
			return fmt.Errorf("invalid REFERENCE_TZ: %w", err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func getBoolEnv(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}
