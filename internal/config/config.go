package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the portal
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Minio     MinioConfig     `mapstructure:"minio"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Rules     RulesConfig     `mapstructure:"rules"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// StorageConfig selects the backing store for property queries
type StorageConfig struct {
	Driver     string `mapstructure:"driver"` // "sqlite" or "postgres"
	SQLitePath string `mapstructure:"sqlite_path"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
	Subject    string `mapstructure:"subject"`
}

type MinioConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

type UploadsConfig struct {
	MaxFileSize       int64    `mapstructure:"max_file_size"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	LocalDir          string   `mapstructure:"local_dir"`
}

type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	VisionModel string        `mapstructure:"vision_model"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a model endpoint is configured
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// RulesConfig points at an optional yaml file overriding analyzer lexicons
type RulesConfig struct {
	LexiconFile string `mapstructure:"lexicon_file"`
}

// MaxFileSize is the upload cap shared by every upload endpoint (10 MiB)
const MaxFileSize int64 = 10 * 1024 * 1024

// DefaultAllowedExtensions are the upload extensions accepted by the portal
var DefaultAllowedExtensions = []string{"jpg", "jpeg", "png", "webp", "pdf", "txt", "doc", "docx"}

// SetDefaults registers a default for every key so the portal runs without a config file
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "legal-literacy-portal")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 60*time.Second)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "data/property_queries.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "portal")
	v.SetDefault("database.dbname", "legal_portal")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "legalportal:")
	v.SetDefault("redis.session_ttl", 2*time.Hour)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.stream_name", "LEGALPORTAL_QUERIES")
	v.SetDefault("nats.subject", "queries.submitted")

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.bucket_name", "property-query-attachments")
	v.SetDefault("minio.region", "us-east-1")

	v.SetDefault("uploads.max_file_size", MaxFileSize)
	v.SetDefault("uploads.allowed_extensions", DefaultAllowedExtensions)
	v.SetDefault("uploads.local_dir", "data/uploads")

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.vision_model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", 45*time.Second)

	v.SetDefault("jwt.issuer", "legal-literacy-portal")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-Session-ID", "X-Request-ID"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.time_format", time.RFC3339)
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/legal-literacy-portal")
	}

	v.SetEnvPrefix("LEGALPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// viper doesn't auto-bind nested struct fields
	v.BindEnv("storage.driver", "LEGALPORTAL_STORAGE_DRIVER")
	v.BindEnv("storage.sqlite_path", "LEGALPORTAL_STORAGE_SQLITE_PATH")
	v.BindEnv("database.host", "LEGALPORTAL_DATABASE_HOST")
	v.BindEnv("database.port", "LEGALPORTAL_DATABASE_PORT")
	v.BindEnv("database.user", "LEGALPORTAL_DATABASE_USER")
	v.BindEnv("database.password", "LEGALPORTAL_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "LEGALPORTAL_DATABASE_DBNAME")
	v.BindEnv("redis.enabled", "LEGALPORTAL_REDIS_ENABLED")
	v.BindEnv("redis.host", "LEGALPORTAL_REDIS_HOST")
	v.BindEnv("redis.password", "LEGALPORTAL_REDIS_PASSWORD")
	v.BindEnv("nats.enabled", "LEGALPORTAL_NATS_ENABLED")
	v.BindEnv("nats.url", "LEGALPORTAL_NATS_URL")
	v.BindEnv("minio.enabled", "LEGALPORTAL_MINIO_ENABLED")
	v.BindEnv("minio.access_key", "LEGALPORTAL_MINIO_ACCESS_KEY")
	v.BindEnv("minio.secret_key", "LEGALPORTAL_MINIO_SECRET_KEY")
	v.BindEnv("openai.api_key", "LEGALPORTAL_OPENAI_API_KEY")
	v.BindEnv("jwt.secret", "LEGALPORTAL_JWT_SECRET")
	v.BindEnv("app.environment", "LEGALPORTAL_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Uploads.MaxFileSize <= 0 {
		cfg.Uploads.MaxFileSize = MaxFileSize
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}
