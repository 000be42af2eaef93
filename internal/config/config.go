package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every setting the server and feeder tool consume.
type Config struct {
	Server  ServerConfig
	Client  ClientConfig
	Capture CaptureConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	client, err := loadClientConfig()
	if err != nil {
		return nil, err
	}

	capture, err := loadCaptureConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Client: client, Capture: capture}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ClientConfig tells the feeder where the server lives.
type ClientConfig struct {
	SocketURL string
	APIURL    string
}

func loadClientConfig() (ClientConfig, error) {
	return ClientConfig{
		SocketURL: getEnvOrDefault("WS_URL", "ws://localhost:8080/ws"),
		APIURL:    getEnvOrDefault("API_URL", "http://localhost:8080"),
	}, nil
}

// CaptureConfig tunes the synthetic capture loop.
type CaptureConfig struct {
	IntervalMS  int
	TrendWindow int
}

func loadCaptureConfig() (CaptureConfig, error) {
	interval := 100
	if override, err := parseOptionalIntEnv("CAPTURE_INTERVAL_MS"); err != nil {
		return CaptureConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return CaptureConfig{}, fmt.Errorf("CAPTURE_INTERVAL_MS must be positive, got %d", *override)
		}
		interval = *override
	}

	window := 50
	if override, err := parseOptionalIntEnv("TREND_WINDOW"); err != nil {
		return CaptureConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return CaptureConfig{}, fmt.Errorf("TREND_WINDOW must be positive, got %d", *override)
		}
		window = *override
	}

	return CaptureConfig{IntervalMS: interval, TrendWindow: window}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
