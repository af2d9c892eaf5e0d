package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName    string
	HTTPListenAddr string
	MySQLHost      string
	MySQLPort      string
	MySQLUser      string
	MySQLPassword  string
	MySQLDatabase  string

	MySQLTLSCA         string
	MySQLTLSCert       string
	MySQLTLSKey        string
	MySQLTLSServerName string

	TokenSecret    string
	TokenAlgorithm string
	TokenTTL       time.Duration
	AdminUsername  string
	AdminPassword  string
	RateLimit      string
	LogLevel       string
}

func Load() (*Config, error) {
	// A .env file, when present, fills in anything missing from the environment.
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:    getEnv("SERVICE_NAME", "sqlgate-api"),
		HTTPListenAddr: getEnv("HTTP_LISTEN_ADDR", ":8080"),
		MySQLHost:      getEnv("MYSQL_HOST", "localhost"),
		MySQLPort:      getEnv("MYSQL_PORT", "3306"),
		MySQLUser:      getEnv("MYSQL_USER", ""),
		MySQLPassword:  getEnv("MYSQL_PASSWORD", ""),
		MySQLDatabase:  getEnv("MYSQL_DATABASE", ""),

		MySQLTLSCA:         getEnv("MYSQL_TLS_CA", ""),
		MySQLTLSCert:       getEnv("MYSQL_TLS_CERT", ""),
		MySQLTLSKey:        getEnv("MYSQL_TLS_KEY", ""),
		MySQLTLSServerName: getEnv("MYSQL_TLS_SERVER_NAME", ""),

		TokenSecret:    getEnv("SECRET_KEY", ""),
		TokenAlgorithm: getEnv("ALGORITHM", "HS256"),
		TokenTTL:       time.Duration(getEnvInt("TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		AdminUsername:  getEnv("API_ADMIN_USER", ""),
		AdminPassword:  getEnv("API_ADMIN_PASSWORD", ""),
		RateLimit:      getEnv("RATE_LIMIT", "30-M"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks that every setting without a usable default is present.
func (c *Config) Validate() error {
	if c.MySQLUser == "" {
		return fmt.Errorf("MYSQL_USER is required")
	}
	if c.MySQLDatabase == "" {
		return fmt.Errorf("MYSQL_DATABASE is required")
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.AdminUsername == "" {
		return fmt.Errorf("API_ADMIN_USER is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("API_ADMIN_PASSWORD is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_EXPIRE_MINUTES must be positive")
	}
	return nil
}

// MySQLDSN builds the driver DSN for the configured server. When TLS
// material is configured the DSN references the named config that main
// registers with the driver before opening the pool.
func (c *Config) MySQLDSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.MySQLUser
	dsn.Passwd = c.MySQLPassword
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.MySQLHost, c.MySQLPort)
	dsn.DBName = c.MySQLDatabase
	dsn.ParseTime = true
	if c.mysqlTLSConfigured() {
		dsn.TLSConfig = MySQLTLSConfigName
	}
	return dsn.FormatDSN()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
