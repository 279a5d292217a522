package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is built once at startup and handed to every constructor.
type Config struct {
	Env  string `koanf:"env"`
	Port string `koanf:"port"`

	Mongo    MongoConfig    `koanf:"mongo"`
	Redis    RedisConfig    `koanf:"redis"`
	JWT      JWTConfig      `koanf:"jwt"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Firebase FirebaseConfig `koanf:"firebase"`
	Log      LogConfig      `koanf:"log"`
	Tracking TrackingConfig `koanf:"tracking"`

	CORSOrigins string `koanf:"cors_origins"`
}

type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

type SMTPConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	From string `koanf:"from"`
}

type FirebaseConfig struct {
	ProjectID         string `koanf:"project_id"`
	CredentialsBase64 string `koanf:"credentials_base64"`
	CredentialsFile   string `koanf:"credentials_file"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TrackingConfig struct {
	// Interval between live cart-tracking refreshes.
	Interval time.Duration `koanf:"interval"`
}

func defaults() Config {
	return Config{
		Env:  "production",
		Port: "8080",
		Mongo: MongoConfig{
			Database: "storefront",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		JWT: JWTConfig{
			TTL: 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Tracking: TrackingConfig{
			Interval: 10 * time.Second,
		},
	}
}

// envKeys maps environment variables to config paths. Anything else is ignored.
var envKeys = map[string]string{
	"ENV":                            "env",
	"PORT":                           "port",
	"MONGODB_URI":                    "mongo.uri",
	"DB_NAME":                        "mongo.database",
	"REDIS_ADDR":                     "redis.addr",
	"REDIS_PASSWORD":                 "redis.password",
	"REDIS_DB":                       "redis.db",
	"JWT_SECRET":                     "jwt.secret",
	"JWT_TTL":                        "jwt.ttl",
	"SMTP_HOST":                      "smtp.host",
	"SMTP_PORT":                      "smtp.port",
	"SMTP_USER":                      "smtp.user",
	"SMTP_PASS":                      "smtp.pass",
	"SMTP_FROM":                      "smtp.from",
	"FIREBASE_PROJECT_ID":            "firebase.project_id",
	"FIREBASE_CREDENTIALS_BASE64":    "firebase.credentials_base64",
	"GOOGLE_APPLICATION_CREDENTIALS": "firebase.credentials_file",
	"LOG_LEVEL":                      "log.level",
	"LOG_FORMAT":                     "log.format",
	"TRACKING_INTERVAL":              "tracking.interval",
	"CORS_ALLOWED_ORIGINS":           "cors_origins",
}

func envTransform(key string) string {
	return envKeys[strings.ToUpper(key)]
}

// Load layers struct defaults and environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether ENV selects a development deployment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func (c *Config) finalize() error {
	if c.Mongo.URI == "" {
		c.Mongo.URI = os.Getenv("MONGO_URI")
	}
	if c.Mongo.URI == "" {
		if !c.IsDevelopment() {
			return errors.New("MONGODB_URI environment variable is required outside development")
		}
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.JWT.TTL <= 0 {
		c.JWT.TTL = 24 * time.Hour
	}
	if c.Tracking.Interval <= 0 {
		c.Tracking.Interval = 10 * time.Second
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.User
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
