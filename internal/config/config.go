// Package config provides configuration for the application
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Supported values of DB_DRIVER
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const defaultSSLMode = "disable"

// postgresSSLModes lists the sslmode values understood by lib/pq
var postgresSSLModes = []string{"disable", "require", "verify-ca", "verify-full"}

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	// Path is the database file used by the sqlite3 driver
	Path string
	// SSLMode is the sslmode parameter used by the postgres driver
	SSLMode string
	// ConnectAttempts is how many times the initial ping is tried before giving up
	ConnectAttempts uint
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port               int
	RateLimitPerMinute int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// .env file is optional, real environment variables take precedence
	_ = godotenv.Load()

	cfg := &Config{}

	if err := loadDatabase(cfg); err != nil {
		return nil, err
	}

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	rateLimitStr := os.Getenv("RATE_LIMIT_PER_MINUTE")
	if rateLimitStr == "" {
		rateLimitStr = "100"
	}
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %q", rateLimitStr)
	}
	cfg.Server.RateLimitPerMinute = rateLimit

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	accessExpiryStr := os.Getenv("JWT_ACCESS_TOKEN_EXPIRY")
	if accessExpiryStr == "" {
		accessExpiryStr = "1h"
	}
	accessExpiry, err := time.ParseDuration(accessExpiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY: %w", err)
	}
	cfg.JWT.AccessTokenExpiry = accessExpiry

	return cfg, nil
}

// loadDatabase fills database settings, network drivers require full connection details
func loadDatabase(cfg *Config) error {
	driver := strings.ToLower(os.Getenv("DB_DRIVER"))
	switch driver {
	case "":
		driver = DriverMySQL
	case "postgresql":
		driver = DriverPostgres
	case "sqlite":
		driver = DriverSQLite
	}
	cfg.Database.Driver = driver

	attemptsStr := os.Getenv("DB_CONNECT_ATTEMPTS")
	if attemptsStr == "" {
		attemptsStr = "5"
	}
	attempts, err := strconv.ParseUint(attemptsStr, 10, 32)
	if err != nil || attempts == 0 {
		return fmt.Errorf("invalid DB_CONNECT_ATTEMPTS: %q", attemptsStr)
	}
	cfg.Database.ConnectAttempts = uint(attempts)

	sslMode := strings.ToLower(os.Getenv("DB_SSLMODE"))
	if sslMode == "" {
		sslMode = defaultSSLMode
	}
	if !slices.Contains(postgresSSLModes, sslMode) {
		return fmt.Errorf("invalid DB_SSLMODE: %q", sslMode)
	}
	cfg.Database.SSLMode = sslMode

	switch driver {
	case DriverSQLite:
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			return fmt.Errorf("DB_PATH is required for %s driver", driver)
		}
		cfg.Database.Path = dbPath
		return nil
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	return nil
}

// parseOrigins splits a comma-separated origin list, an empty list allows all origins
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// DSN returns the database connection string for the configured driver.
// An empty string is returned when connection details are missing.
func (c *Config) DSN() string {
	switch c.Database.Driver {
	case DriverSQLite:
		return c.Database.Path
	case DriverPostgres:
		if c.Database.Host == "" {
			return ""
		}
		sslMode := c.Database.SSLMode
		if sslMode == "" {
			sslMode = defaultSSLMode
		}
		// Credentials are percent-encoded by the URL form
		dsn := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.Database.User, c.Database.Password),
			Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
			Path:     "/" + c.Database.DBName,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		return dsn.String()
	default:
		if c.Database.Host == "" {
			return ""
		}
		mysqlCfg := mysql.NewConfig()
		mysqlCfg.User = c.Database.User
		mysqlCfg.Passwd = c.Database.Password
		mysqlCfg.Net = "tcp"
		mysqlCfg.Addr = net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port))
		mysqlCfg.DBName = c.Database.DBName
		mysqlCfg.ParseTime = true
		mysqlCfg.Params = map[string]string{"charset": "utf8mb4"}
		return mysqlCfg.FormatDSN()
	}
}
