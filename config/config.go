package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config is the process configuration. MongoClient is populated by
// ConnectMongo and shared by every handler.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	StoreBackend   string
	MongoURI       string
	DBName         string
	Location       *time.Location
	RequestTimeout time.Duration
	MongoTimeout   time.Duration
	CORSOrigins    []string

	MongoClient *mongo.Client
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:        getEnv("APP_NAME", "Smart Charity Box Server"),
		AppEnv:         getEnv("APP_ENV", getEnv("NODE_ENV", "development")),
		Port:           getEnv("PORT", "3000"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:       os.Getenv("MONGODB_URI"),
		DBName:         getEnv("DB_NAME", "smart_charity_box"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 5*time.Second),
		MongoTimeout:   getEnvDuration("MONGO_TIMEOUT", 10*time.Second),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}

	loc := time.Local
	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("APP_TIMEZONE %q: %w", tz, err)
		}
		loc = l
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate collects every configuration problem into one error.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.Port))
	}
	switch c.StoreBackend {
	case BackendMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required when STORE_BACKEND is mongo"))
		}
		if c.DBName == "" {
			errs = append(errs, errors.New("DB_NAME cannot be empty"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid STORE_BACKEND %q: must be %s or %s", c.StoreBackend, BackendMongo, BackendMemory))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.MongoTimeout <= 0 {
		errs = append(errs, errors.New("MONGO_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// IsDevelopment controls whether internal error details reach clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
