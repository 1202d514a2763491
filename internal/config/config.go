package config

import (
	"fmt"
	"log"
	"net"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Report   ReportConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Database       string
	Schema         string
	SSLMode        string
	ConnectTimeout int // in seconds
}

type ReportConfig struct {
	RecentMonths int
}

// DSN builds the postgres connection URL for the configured database
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Database,
	}

	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.Schema != "" {
		q.Set("search_path", c.Schema)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// IsProduction reports whether the service runs with production settings
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

func Load() *Config {
	// A missing .env is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_CONNECT_TIMEOUT", 5)
	viper.SetDefault("REPORT_RECENT_MONTHS", 6)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			Database:       viper.GetString("DB_DATABASE"),
			Schema:         viper.GetString("DB_SCHEMA"),
			SSLMode:        viper.GetString("DB_SSLMODE"),
			ConnectTimeout: viper.GetInt("DB_CONNECT_TIMEOUT"),
		},
		Report: ReportConfig{
			RecentMonths: viper.GetInt("REPORT_RECENT_MONTHS"),
		},
	}
}

// String hides the password so the config can be logged
func (c DatabaseConfig) String() string {
	return fmt.Sprintf("%s@%s/%s (schema=%s, sslmode=%s)",
		c.User, net.JoinHostPort(c.Host, c.Port), c.Database, c.Schema, c.SSLMode)
}
