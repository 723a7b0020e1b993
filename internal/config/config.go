package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// OpenAIAPIKey may be empty; the analyze proxy then answers 500 and
	// clients that hold their own key call the upstream directly.
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	AnalyzeTimeout time.Duration

	LogLevel  string
	PrettyLog bool

	AccessWorkers   int
	AccessQueueSize int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          dsn,
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		OpenAIAPIKey:   getenv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getenv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4o"),
		AnalyzeTimeout: getenvDuration("ANALYZE_TIMEOUT", 30*time.Second),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		PrettyLog: getenv("PRETTY_LOG", "false") == "true",

		AccessWorkers:   getenvInt("ACCESS_WORKERS", 2),
		AccessQueueSize: getenvInt("ACCESS_QUEUE_SIZE", 256),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
