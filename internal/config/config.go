package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// .env is optional
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Mail     MailConfig
	AI       AIConfig
	Cache    CacheConfig
	Notifier NotifierConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8081"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"SmartSales365"`
	Environment string `envconfig:"APP_ENV" default:"development"`
}

// DatabaseConfig selects the SQL dialect and its connection settings.
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite, postgres or mysql
	Path     string `envconfig:"DB_PATH" default:"./data/smartsales.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"smartsales"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASS" default:""`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// AuthConfig lists the bearer tokens accepted on admin routes.
type AuthConfig struct {
	AdminTokens []string `envconfig:"ADMIN_TOKENS"`
}

// MailConfig holds outbound mail settings.
type MailConfig struct {
	Transport    string `envconfig:"MAIL_TRANSPORT" default:"log"` // log, smtp or http
	From         string `envconfig:"MAIL_FROM" default:"alertas@smartsales365.local"`
	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	RelayURL     string `envconfig:"MAIL_RELAY_URL" default:""`
	RelayToken   string `envconfig:"MAIL_RELAY_TOKEN" default:""`
}

// AIConfig holds the prompt interpreter settings.
type AIConfig struct {
	APIKey         string        `envconfig:"GEMINI_API_KEY" default:""`
	Model          string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	BaseURL        string        `envconfig:"GEMINI_BASE_URL" default:""`
	BreakerTimeout time.Duration `envconfig:"AI_BREAKER_TIMEOUT" default:"30s"`
}

// CacheConfig holds the prompt cache settings. An empty address disables it.
type CacheConfig struct {
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	PromptTTL     time.Duration `envconfig:"PROMPT_CACHE_TTL" default:"10m"`
}

// NotifierConfig sizes the low-stock alert worker pool.
type NotifierConfig struct {
	Workers           int           `envconfig:"NOTIFIER_WORKERS" default:"2"`
	QueueSize         int           `envconfig:"NOTIFIER_QUEUE_SIZE" default:"100"`
	SendTimeout       time.Duration `envconfig:"NOTIFIER_SEND_TIMEOUT" default:"30s"`
	LowStockThreshold int           `envconfig:"LOW_STOCK_THRESHOLD" default:"5"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// PostgresDSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (d *DatabaseConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true&clientFoundRows=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
