package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type BackendConfig struct {
	// BaseURL is the remote airline API. Resolved once at startup; the page
	// variants discovered it via query parameter or hardcoded ngrok URLs.
	BaseURL string
	Profile string
	Timeout time.Duration
}

type SessionConfig struct {
	TTL      time.Duration
	CacheTTL time.Duration
	// Code-request rate limit, applied only when Redis is configured.
	CodeRequestLimit  int
	CodeRequestWindow time.Duration
}

type RedisConfig struct {
	// Addr empty means in-memory sessions and caches.
	Addr     string
	Password string
	DB       int
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	backendURL := os.Getenv("BACKEND_BASE_URL")
	if backendURL == "" {
		return nil, fmt.Errorf("%s: missing BACKEND_BASE_URL", op)
	}

	backendProfile := os.Getenv("BACKEND_PROFILE")
	if backendProfile == "" {
		backendProfile = "lab"
	}

	backendTimeout, err := durationEnv("BACKEND_TIMEOUT", 12*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sessionTTL, err := durationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheTTL, err := durationEnv("CACHE_TTL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	codeLimitStr := os.Getenv("CODE_REQUEST_LIMIT")
	if codeLimitStr == "" {
		codeLimitStr = "5"
	}
	codeLimit, err := strconv.Atoi(codeLimitStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid CODE_REQUEST_LIMIT: %w", op, err)
	}

	codeWindow, err := durationEnv("CODE_REQUEST_WINDOW", 1*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		redisDBStr = "0"
	}
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid REDIS_DB: %w", op, err)
	}

	return &Config{
		Server: ServerConfig{
			Host: serverHost,
			Port: serverPort,
		},
		Backend: BackendConfig{
			BaseURL: backendURL,
			Profile: backendProfile,
			Timeout: backendTimeout,
		},
		Session: SessionConfig{
			TTL:               sessionTTL,
			CacheTTL:          cacheTTL,
			CodeRequestLimit:  codeLimit,
			CodeRequestWindow: codeWindow,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
	}, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
