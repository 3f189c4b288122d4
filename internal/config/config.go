package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config/local.yaml"

type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	PublicURL       string        `yaml:"public_url" env:"PUBLIC_URL" env-default:"http://localhost:8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env-default:"1m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"30"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"1m"`
}

type Security struct {
	JWTKey         string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	JWTExpiryHours int    `yaml:"JWT_EXPIRY_HOURS" env:"JWT_EXPIRY_HOURS" env-default:"720"`
	CookieSecure   bool   `yaml:"COOKIE_SECURE" env:"COOKIE_SECURE" env-default:"true"`
}

type OAuthProvider struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type Auth struct {
	Facebook      OAuthProvider `yaml:"facebook"`
	Google        OAuthProvider `yaml:"google"`
	AdminEmails   []string      `yaml:"admin_emails" env:"AUTH_ADMIN_EMAILS" env-separator:","`
	SessionSecret string        `yaml:"session_secret" env:"AUTH_SESSION_SECRET"`
	SuccessURL    string        `yaml:"success_url" env:"AUTH_SUCCESS_URL" env-default:"/admin/dashboard"`
}

type Cloudinary struct {
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
}

type SendGrid struct {
	APIKey     string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail  string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"shop@example.com"`
	FromName   string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Flower Shop"`
	AlertEmail string `yaml:"ALERT_EMAIL" env:"SENDGRID_ALERT_EMAIL"`
}

// Image handling when a product is hard-deleted.
const (
	DeletePolicyRetain  = "retain"
	DeletePolicyCascade = "cascade"
)

type Media struct {
	OnProductDelete string `yaml:"on_product_delete" env:"MEDIA_ON_PRODUCT_DELETE" env-default:"retain"`
	UploadFolder    string `yaml:"upload_folder" env:"MEDIA_UPLOAD_FOLDER" env-default:"products"`
}

type Drafts struct {
	TTL           time.Duration `yaml:"ttl" env:"DRAFTS_TTL" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"DRAFTS_SWEEP_INTERVAL" env-default:"10m"`
}

type Tasks struct {
	Timeout time.Duration `yaml:"timeout" env:"TASKS_TIMEOUT" env-default:"10s"`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"flower-storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1"`
}

type Logging struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	Cache        CacheConfig  `yaml:"cache"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Security     Security     `yaml:"security"`
	Auth         Auth         `yaml:"auth"`
	Cloudinary   Cloudinary   `yaml:"cloudinary"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Media        Media        `yaml:"media"`
	Drafts       Drafts       `yaml:"drafts"`
	Tasks        Tasks        `yaml:"tasks"`
	Otel         Otel         `yaml:"otel"`
	Logging      Logging      `yaml:"logging"`
}

// Load reads .env when present and then the yaml file at configPath,
// falling back to ./config/local.yaml.
func Load(configPath string) (*Config, error) {
	// a missing .env is fine, the real environment still applies
	_ = godotenv.Load()

	if configPath == "" {
		configPath = defaultConfigPath
	}

	return LoadConfigFromPath(configPath)
}

func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Media.OnProductDelete {
	case DeletePolicyRetain, DeletePolicyCascade:
	default:
		return fmt.Errorf("media.on_product_delete must be %q or %q, got %q",
			DeletePolicyRetain, DeletePolicyCascade, c.Media.OnProductDelete)
	}

	return nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}

func (s *Security) JWTExpiry() time.Duration {
	return time.Duration(s.JWTExpiryHours) * time.Hour
}
