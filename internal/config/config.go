package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret        = "default_jwt_secret"
	defaultJWTRefreshSecret = "default_refresh_secret"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Environment               string
	CORSOrigins               []string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTIssuer                 string
	JWTAudience               string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	RateLimitRPS              float64
	RateLimitBurst            int
	SeedOnStart               bool
	Database                  DatabaseConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig loads configuration from environment variables and an optional .env file.
func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

// loadConfig reads envFile beneath the process environment. A missing file
// is skipped; any other read or parse error is returned.
func loadConfig(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USERNAME", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "homecare")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_REFRESH_SECRET", defaultJWTRefreshSecret)
	v.SetDefault("JWT_ISSUER", "homecare-app-server")
	v.SetDefault("JWT_AUDIENCE", "homecare-app")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 120)
	v.SetDefault("JWT_REFRESH_EXPIRATION_HOURS", 168) // 7 days
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	for _, key := range []string{
		"PORT", "ENV", "CORS_ORIGINS",
		"DB_DRIVER", "DB_DSN", "DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_NAME",
		"JWT_SECRET", "JWT_REFRESH_SECRET", "JWT_ISSUER", "JWT_AUDIENCE",
		"JWT_EXPIRATION_MINUTES", "JWT_REFRESH_EXPIRATION_HOURS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "SEED_ON_START",
	} {
		_ = v.BindEnv(key)
	}

	fileValues, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		merged := make(map[string]interface{}, len(fileValues))
		for k, val := range fileValues {
			merged[k] = val
		}
		if err := v.MergeConfigMap(merged); err != nil {
			return nil, fmt.Errorf("merge %s: %w", envFile, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	env := v.GetString("ENV")
	v.SetDefault("SEED_ON_START", env == "development")

	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		Username: v.GetString("DB_USERNAME"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		DSN:      v.GetString("DB_DSN"),
	}
	if dbConfig.DSN == "" {
		dsn, err := buildDSN(dbConfig)
		if err != nil {
			return nil, err
		}
		dbConfig.DSN = dsn
	}

	cfg := &Config{
		Port:                      v.GetString("PORT"),
		Environment:               env,
		CORSOrigins:               splitList(v.GetString("CORS_ORIGINS")),
		JWTSecret:                 v.GetString("JWT_SECRET"),
		JWTRefreshSecret:          v.GetString("JWT_REFRESH_SECRET"),
		JWTIssuer:                 v.GetString("JWT_ISSUER"),
		JWTAudience:               v.GetString("JWT_AUDIENCE"),
		JWTExpirationMinutes:      v.GetInt("JWT_EXPIRATION_MINUTES"),
		JWTRefreshExpirationHours: v.GetInt("JWT_REFRESH_EXPIRATION_HOURS"),
		RateLimitRPS:              v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:            v.GetInt("RATE_LIMIT_BURST"),
		SeedOnStart:               v.GetBool("SEED_ON_START"),
		Database:                  dbConfig,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTExpirationMinutes <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %d", c.JWTExpirationMinutes)
	}
	if c.JWTRefreshExpirationHours <= 0 {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %d", c.JWTRefreshExpirationHours)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("invalid rate limit: %v rps, burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if !c.IsDevelopment() && (c.JWTSecret == defaultJWTSecret || c.JWTRefreshSecret == defaultJWTRefreshSecret) {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must be set when ENV=%s", c.Environment)
	}
	return nil
}

// buildDSN assembles a connection string for the configured driver.
func buildDSN(db DatabaseConfig) (string, error) {
	switch db.Driver {
	case "sqlite":
		return db.Name + ".db", nil
	case "mysql":
		port := db.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.Username, db.Password, db.Host, port, db.Name), nil
	case "postgres":
		port := db.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			db.Host, db.Username, db.Password, db.Name, port), nil
	default:
		return "", fmt.Errorf("invalid DB_DRIVER: %q", db.Driver)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
