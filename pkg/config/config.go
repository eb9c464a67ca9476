package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends for issued certifications
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreSQLite   = "sqlite"
)

// minSecretLen HS256 서명 키 최소 길이 (bytes)
const minSecretLen = 32

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port        string
	Env         string // development, staging, production
	AdminAPIKey string // 내부 발급/분석 API 보호용, production 필수

	// Storage
	Database DatabaseConfig
	Redis    RedisConfig
	Mongo    MongoConfig

	// Certification pipeline
	Certification CertificationConfig
	Narrative     NarrativeConfig
	Verification  VerificationConfig

	// PolicyFile points to a YAML threshold policy (empty = built-in defaults)
	PolicyFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// CertificationConfig holds issuance and token signing settings
type CertificationConfig struct {
	Store          string // memory, postgres, mongo, sqlite
	SQLitePath     string
	SigningSecret  string
	Issuer         string
	ValidityWindow time.Duration
	CacheTTL       time.Duration
}

// NarrativeConfig holds the narrative collaborator settings
type NarrativeConfig struct {
	URL     string // 비어 있으면 로컬 템플릿 생성기 사용
	Timeout time.Duration
}

// VerificationConfig holds public verification limits
type VerificationConfig struct {
	Timeout         time.Duration
	RateLimitPerMin int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:        getEnv("PORT", "8089"),
		Env:         getEnv("ENV", "development"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "quotecert"),
		},

		Certification: CertificationConfig{
			Store:          getEnv("CERT_STORE", StorePostgres),
			SQLitePath:     getEnv("SQLITE_PATH", "data/quotecert.db"),
			SigningSecret:  getEnv("CERT_SIGNING_SECRET", ""),
			Issuer:         getEnv("CERT_ISSUER", "quotecert"),
			ValidityWindow: getEnvAsDuration("CERT_VALIDITY", "8760h"),
			CacheTTL:       getEnvAsDuration("CERT_CACHE_TTL", "1h"),
		},

		Narrative: NarrativeConfig{
			URL:     getEnv("NARRATIVE_URL", ""),
			Timeout: getEnvAsDuration("NARRATIVE_TIMEOUT", "5s"),
		},

		Verification: VerificationConfig{
			Timeout:         getEnvAsDuration("VERIFY_TIMEOUT", "10s"),
			RateLimitPerMin: getEnvAsInt("VERIFY_RATE_LIMIT", 60),
		},

		PolicyFile: getEnv("POLICY_FILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Certification.Store {
	case StoreMemory:
		if c.Env == "production" {
			return fmt.Errorf("CERT_STORE=memory is not allowed in production")
		}
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for CERT_STORE=postgres")
		}
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for CERT_STORE=mongo")
		}
	case StoreSQLite:
		if c.Certification.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for CERT_STORE=sqlite")
		}
	default:
		return fmt.Errorf("CERT_STORE must be one of: memory, postgres, mongo, sqlite")
	}

	// 서명 키가 짧으면 토큰 위조 위험
	if len(c.Certification.SigningSecret) < minSecretLen {
		return fmt.Errorf("CERT_SIGNING_SECRET must be at least %d bytes", minSecretLen)
	}

	if c.Env == "production" && c.AdminAPIKey == "" {
		return fmt.Errorf("ADMIN_API_KEY is required in production")
	}

	if c.Certification.ValidityWindow <= 0 {
		return fmt.Errorf("CERT_VALIDITY must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
