package config

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort        = "8080"
	defaultJWTSecret   = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer   = "finovate-app"
	defaultJWTExpiry   = time.Hour
	defaultStorePath   = "./data"
	defaultNamespace   = "finovate"
	defaultRateLimit   = "100-M"
	defaultStoreKind   = "memory"
	defaultCORSOrigins = "*"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	// Storage
	StoreBackend    string // memory, file, redis or postgres
	StorePath       string
	StoreNamespace  string
	RedisURL        string
	DatabaseURL     string
	SeedExampleData bool

	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("JWT_EXPIRY_DURATION", defaultJWTExpiry.String())
	v.SetDefault("STORE_BACKEND", defaultStoreKind)
	v.SetDefault("STORE_PATH", defaultStorePath)
	v.SetDefault("STORE_NAMESPACE", defaultNamespace)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SEED_EXAMPLE_DATA", false)
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
	v.SetDefault("METRICS_ENABLED", true)

	// Environment variables override the defaults and any .env values.
	v.AutomaticEnv()

	cfg := &Config{
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		StoreBackend:    strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		StorePath:       v.GetString("STORE_PATH"),
		StoreNamespace:  v.GetString("STORE_NAMESPACE"),
		RedisURL:        v.GetString("REDIS_URL"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		SeedExampleData: v.GetBool("SEED_EXAMPLE_DATA"),
		RateLimit:       v.GetString("RATE_LIMIT"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiry <= 0 {
		jwtExpiry = defaultJWTExpiry
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	levelStr := v.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
		cfg.LogLevel = slog.LevelInfo
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", levelStr)
	}

	switch cfg.StoreBackend {
	case "memory", "file", "redis", "postgres":
	default:
		log.Printf("Warning: Unknown STORE_BACKEND ('%s'). Defaulting to %s.\n", cfg.StoreBackend, defaultStoreKind)
		cfg.StoreBackend = defaultStoreKind
	}
	if cfg.StoreBackend == "redis" && cfg.RedisURL == "" {
		log.Println("Warning: STORE_BACKEND is redis but REDIS_URL is not set. Falling back to memory.")
		cfg.StoreBackend = defaultStoreKind
	}
	if cfg.StoreBackend == "postgres" && cfg.DatabaseURL == "" {
		log.Println("Warning: STORE_BACKEND is postgres but DATABASE_URL is not set. Falling back to memory.")
		cfg.StoreBackend = defaultStoreKind
	}
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath
	}
	if cfg.StoreNamespace == "" {
		cfg.StoreNamespace = defaultNamespace
	}
	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
