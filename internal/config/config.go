package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port       string `yaml:"port" env:"SERVER_PORT"`
		Mode       string `yaml:"mode" env:"SERVER_MODE"`
		ExportPath string `yaml:"export_path" env:"SERVER_EXPORT_PATH"`
		BaseURL    string `yaml:"base_url" env:"SERVER_BASE_URL"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		QueryTimeout    string `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT"`
		MigrateOnStart  bool   `yaml:"migrate_on_start" env:"DB_MIGRATE_ON_START"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
	} `yaml:"smtp"`

	Notifications struct {
		AbsenceSweepCron string `yaml:"absence_sweep_cron" env:"NOTIFY_ABSENCE_SWEEP_CRON"`
		Enabled          bool   `yaml:"enabled" env:"NOTIFY_ENABLED"`
	} `yaml:"notifications"`

	Export struct {
		FontPath     string `yaml:"font_path" env:"EXPORT_FONT_PATH"`
		FontBoldPath string `yaml:"font_bold_path" env:"EXPORT_FONT_BOLD_PATH"`
	} `yaml:"export"`

	Admin struct {
		Username string `yaml:"username" env:"ADMIN_USERNAME"`
		Password string `yaml:"password" env:"ADMIN_PASSWORD"`
		Email    string `yaml:"email" env:"ADMIN_EMAIL"`
		FullName string `yaml:"full_name" env:"ADMIN_FULL_NAME"`
	} `yaml:"admin"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in that order of increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ExportPath = "exports"

	config.Database.Driver = DriverMySQL
	config.Database.Host = "localhost"
	config.Database.Port = "3306"
	config.Database.User = "root"
	config.Database.DBName = "education_management"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.QueryTimeout = "15s"
	config.Database.MigrateOnStart = true

	config.SMTP.Port = 587
	config.SMTP.FromName = "Trung tâm đào tạo"

	config.Notifications.AbsenceSweepCron = "0 21 * * *"
	config.Notifications.Enabled = true

	config.JWT.AccessTokenExpiration = "12h"
	config.JWT.Issuer = "educenter"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverMySQL, DriverPostgres:
	case "":
		return fmt.Errorf("database driver is required")
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.QueryTimeout); err != nil {
		return fmt.Errorf("invalid query timeout: %w", err)
	}

	return nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == DriverPostgres {
		return c.postgresConnectionString()
	}
	return c.mysqlDSN()
}

func (c *Config) mysqlDSN() string {
	mc := mysql.NewConfig()
	mc.User = c.Database.User
	mc.Passwd = c.Database.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Database.Host, c.Database.Port)
	mc.DBName = c.Database.DBName
	mc.ParseTime = true
	mc.Loc = time.Local
	// Affected rows count matched rows, not changed rows.
	mc.ClientFoundRows = true
	mc.MultiStatements = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func (c *Config) postgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     c.Database.DBName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
