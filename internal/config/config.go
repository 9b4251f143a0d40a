package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"

	devJWTSecret = "movie-catalog-dev-secret"
)

// Config holds every externally configurable setting of the server.
type Config struct {
	Port string

	StoreDriver     string
	MongoURI        string
	MongoDB         string
	SQLitePath      string
	CatalogSeedFile string

	JWTSecret  string
	JWTIssuer  string
	JWTTTL     time.Duration
	BcryptCost int

	RedisAddr         string
	RedisPassword     string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSOrigins []string

	OTLPEndpoint   string
	ServiceName    string
	ServiceVersion string
	LogLevel       slog.Level
}

// Load reads an optional .env file and then the process environment. The
// returned warnings name every value that fell back to a default.
func Load() (*Config, []string) {
	_ = godotenv.Load()
	l := &loader{}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:        getEnv("CONNECTION_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "movie_catalog"),
		SQLitePath:      getEnv("SQLITE_PATH", "./catalog.db"),
		CatalogSeedFile: getEnv("CATALOG_SEED_FILE", ""),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTIssuer:  getEnv("JWT_ISSUER", "movie-catalog"),
		JWTTTL:     l.getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		BcryptCost: l.getEnvAsInt("BCRYPT_COST", 10),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RateLimitRequests: l.getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   l.getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "movie-catalog"),
		ServiceVersion: getEnv("SERVICE_VERSION", "v0.1.0"),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.JWTSecret == "" {
		l.warn("JWT_SECRET is not set, using the development secret")
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, l.warnings
}

type loader struct {
	warnings []string
}

func (l *loader) warn(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (l *loader) getEnvAsInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.warn("invalid integer %q for %s, using default %d", v, key, def)
		return def
	}
	return n
}

func (l *loader) getEnvAsDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.warn("invalid duration %q for %s, using default %s", v, key, def)
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return level
}
