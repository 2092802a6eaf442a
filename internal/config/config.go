package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	ServiceName string
	AppEnv      string
	LogLevel    string

	ServerPort int

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	JWTSecret []byte
	JWTTTL    time.Duration

	CatalogFeedURL       string
	CumulativeStockCheck bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func (c Config) Development() bool {
	return c.AppEnv == EnvDevelopment
}

// LoadEnvFile reads .env into the process environment. A missing file only
// produces a notice.
func LoadEnvFile(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		AppEnv:      strings.ToLower(EnvDefault("APP_ENV", EnvProduction)),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 5000),

		StoreDriver:   strings.ToLower(EnvDefault("STORE_DRIVER", StoreMongo)),
		MongoURI:      EnvDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: EnvDefault("MONGODB_DATABASE", "storefront"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:    EnvDurationDefault("JWT_TTL", 30*24*time.Hour),

		CatalogFeedURL:       EnvDefault("CATALOG_FEED_URL", "https://dummyjson.com/products"),
		CumulativeStockCheck: EnvBoolDefault("CART_CUMULATIVE_STOCK_CHECK", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),
	}
}

// MustLoad loads the environment and aborts when a required value is missing.
func MustLoad() Config {
	LoadEnvFile()
	cfg := Load()

	MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	switch cfg.StoreDriver {
	case StoreMongo:
		MustNonEmpty(cfg.MongoURI, "MONGODB_URI")
	case StorePostgres:
		MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	default:
		log.Fatalf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
