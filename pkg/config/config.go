package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported record store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverPGX      = "pgx"
	StoreDriverSQLite   = "sqlite"
)

// Supported export storage drivers.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store     StoreConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Identity  IdentityConfig
	CORS      CORSConfig
	Log       LogConfig
	Dashboard DashboardConfig
	Exports   ExportsConfig
	Lifecycle LifecycleConfig
}

// StoreConfig selects the backing engine of the record store.
type StoreConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	ReadyTimeout time.Duration
}

// SQL reports whether the store is backed by a database/sql driver.
func (c StoreConfig) SQL() bool {
	switch c.Driver {
	case StoreDriverPostgres, StoreDriverPGX, StoreDriverSQLite:
		return true
	}
	return false
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	// Notifier fans store change events out to every API instance.
	Notifier bool
	Channel  string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// IdentityConfig governs the built-in identity provider.
type IdentityConfig struct {
	FederatedSecret   string
	FederatedIssuer   string
	FederatedAudience string
	MinPasswordLength int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard exposure.
type DashboardConfig struct {
	Enabled bool
}

// ExportsConfig configures asynchronous CSV/PDF exports.
type ExportsConfig struct {
	Enabled         bool
	StorageDriver   string
	StorageDir      string
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PathStyle     bool
	SignedURLSecret string
	SignedURLTTL    time.Duration
	Workers         int
	Retries         int
	ResultTTL       time.Duration
}

// LifecycleConfig holds the defaults applied while moving leads between stages.
type LifecycleConfig struct {
	EnrollmentPrefix string
	DefaultMedium    string
	DefaultBoard     string
	StampInquiries   bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		SQLitePath:   v.GetString("SQLITE_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		ReadyTimeout: parseDuration(v.GetString("SESSION_READY_TIMEOUT"), 5*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		Notifier: v.GetBool("ENABLE_REDIS_NOTIFIER"),
		Channel:  v.GetString("REDIS_NOTIFIER_CHANNEL"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Identity = IdentityConfig{
		FederatedSecret:   v.GetString("FEDERATED_TOKEN_SECRET"),
		FederatedIssuer:   v.GetString("FEDERATED_TOKEN_ISSUER"),
		FederatedAudience: v.GetString("FEDERATED_TOKEN_AUDIENCE"),
		MinPasswordLength: v.GetInt("MIN_PASSWORD_LENGTH"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		Enabled: v.GetBool("ENABLE_DASHBOARD"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:         v.GetBool("ENABLE_EXPORTS"),
		StorageDriver:   strings.ToLower(v.GetString("EXPORTS_STORAGE_DRIVER")),
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		S3Bucket:        v.GetString("EXPORTS_S3_BUCKET"),
		S3Region:        v.GetString("EXPORTS_S3_REGION"),
		S3Endpoint:      v.GetString("EXPORTS_S3_ENDPOINT"),
		S3PathStyle:     v.GetBool("EXPORTS_S3_PATH_STYLE"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		Workers:         v.GetInt("EXPORTS_WORKERS"),
		Retries:         v.GetInt("EXPORTS_RETRIES"),
		ResultTTL:       parseDuration(v.GetString("EXPORTS_RESULT_TTL"), 24*time.Hour),
	}

	cfg.Lifecycle = LifecycleConfig{
		EnrollmentPrefix: v.GetString("ENROLLMENT_ID_PREFIX"),
		DefaultMedium:    v.GetString("DEFAULT_STUDENT_MEDIUM"),
		DefaultBoard:     v.GetString("DEFAULT_STUDENT_BOARD"),
		StampInquiries:   v.GetBool("LIFECYCLE_STAMP_INQUIRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverMemory)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sci_crm")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "./sci_crm.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("SESSION_READY_TIMEOUT", "5s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_REDIS_NOTIFIER", false)
	v.SetDefault("REDIS_NOTIFIER_CHANNEL", "sci-crm:changes")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "sci-crm-api")

	v.SetDefault("FEDERATED_TOKEN_SECRET", "dev_federated_secret")
	v.SetDefault("FEDERATED_TOKEN_ISSUER", "")
	v.SetDefault("FEDERATED_TOKEN_AUDIENCE", "")
	v.SetDefault("MIN_PASSWORD_LENGTH", 6)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DASHBOARD", true)

	v.SetDefault("ENABLE_EXPORTS", false)
	v.SetDefault("EXPORTS_STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_S3_BUCKET", "")
	v.SetDefault("EXPORTS_S3_REGION", "us-east-1")
	v.SetDefault("EXPORTS_S3_ENDPOINT", "")
	v.SetDefault("EXPORTS_S3_PATH_STYLE", false)
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_WORKERS", 1)
	v.SetDefault("EXPORTS_RETRIES", 3)
	v.SetDefault("EXPORTS_RESULT_TTL", "24h")

	v.SetDefault("ENROLLMENT_ID_PREFIX", "ENR")
	v.SetDefault("DEFAULT_STUDENT_MEDIUM", "English")
	v.SetDefault("DEFAULT_STUDENT_BOARD", "CBSE")
	v.SetDefault("LIFECYCLE_STAMP_INQUIRIES", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
