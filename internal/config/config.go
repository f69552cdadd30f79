// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// AnalysisConfig controls the scoring engine and dashboard rollups
type AnalysisConfig struct {
	LexiconPath     string
	DashboardTopN   int
	DefaultCategory string
}

// BrightDataConfig points at the snapshot API that holds fetched engine answers
type BrightDataConfig struct {
	APIKey  string
	BaseURL string
}

type Config struct {
	Port               string
	Environment        string
	LogLevel           string
	InngestEventKey    string
	InngestSigningKey  string
	OpenAIAPIKey       string
	AnthropicAPIKey    string
	DatabaseURL        string
	APIToken           string
	RateLimitPerMinute int
	Database           DatabaseConfig
	Analysis           AnalysisConfig
	BrightData         BrightDataConfig
}

// DatabaseConfig holds the Postgres connection settings for the audit store
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

func Load() *Config {
	config := &Config{
		Port:               getEnv("PORT", "8000"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		InngestEventKey:    os.Getenv("INNGEST_EVENT_KEY"),
		InngestSigningKey:  os.Getenv("INNGEST_SIGNING_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		APIToken:           os.Getenv("API_TOKEN"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}

	// Parse database configuration
	dbConfig, err := parseDatabaseConfig()
	if err != nil {
		// If DATABASE_URL parsing fails, try individual env vars as fallback
		dbConfig = DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "visibility"),
			SSLMode:         getEnv("DB_SSLMODE", "require"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
		}
	}
	config.Database = dbConfig

	config.Analysis = AnalysisConfig{
		LexiconPath:     os.Getenv("LEXICON_PATH"),
		DashboardTopN:   getEnvInt("DASHBOARD_TOP_N", 5),
		DefaultCategory: getEnv("DEFAULT_CATEGORY", ""),
	}

	config.BrightData = BrightDataConfig{
		APIKey:  os.Getenv("BRIGHTDATA_API_KEY"),
		BaseURL: getEnv("BRIGHTDATA_BASE_URL", "https://api.brightdata.com/datasets/v3"),
	}

	return config
}

// DSN renders the connection string handed to sqlx
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// IsDevelopment reports whether human-readable console logging should be used
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func parseDatabaseConfig() (DatabaseConfig, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return DatabaseConfig{}, fmt.Errorf("DATABASE_URL not set")
	}

	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if len(parsedURL.Path) < 2 {
		return DatabaseConfig{}, fmt.Errorf("DATABASE_URL has no database name")
	}

	config := DatabaseConfig{
		Host:            parsedURL.Hostname(),
		Port:            5432, // default
		User:            parsedURL.User.Username(),
		Name:            parsedURL.Path[1:], // remove leading slash
		SSLMode:         getEnv("DB_SSLMODE", "require"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
	}

	if password, ok := parsedURL.User.Password(); ok {
		config.Password = password
	}
	if mode := parsedURL.Query().Get("sslmode"); mode != "" {
		config.SSLMode = mode
	}

	if parsedURL.Port() != "" {
		if port, err := strconv.Atoi(parsedURL.Port()); err == nil {
			config.Port = port
		}
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
