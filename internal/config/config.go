package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultBaseURL  = "http://localhost:5211"
	defaultLogLevel = "info"
)

var ErrInvalidBaseURL = errors.New("API_BASE_URL must be an absolute http(s) URL")

type APIConfig struct {
	BaseURL string
	// Timeout of zero means requests never time out.
	Timeout time.Duration
}

type StoreConfig struct {
	// TokenFile is empty when the default location should be used.
	TokenFile string
}

type LogConfig struct {
	Level string
}

type Config struct {
	APIConfig   *APIConfig
	StoreConfig *StoreConfig
	LogConfig   *LogConfig
}

// LoadConfig reads envFiles (a missing file is only logged) and then the
// process environment.
func LoadConfig(logger *zap.Logger, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			logger.Debug("skipping env file", zap.String("file", f), zap.Error(err))
		}
	}

	/** api config */
	baseURL := strings.TrimRight(getenv("API_BASE_URL", defaultBaseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	var timeout time.Duration
	if ts := os.Getenv("API_TIMEOUT"); ts != "" {
		timeout, err = time.ParseDuration(ts)
		if err != nil {
			return nil, fmt.Errorf("API_TIMEOUT: %w", err)
		}
		if timeout < 0 {
			return nil, fmt.Errorf("API_TIMEOUT: must not be negative, got %s", ts)
		}
	}

	apiConfig := &APIConfig{
		BaseURL: baseURL,
		Timeout: timeout,
	}

	/** store config */
	storeConfig := &StoreConfig{
		TokenFile: os.Getenv("TOKEN_FILE"),
	}

	/** log config */
	logConfig := &LogConfig{
		Level: strings.ToLower(getenv("LOG_LEVEL", defaultLogLevel)),
	}

	return &Config{
		APIConfig:   apiConfig,
		StoreConfig: storeConfig,
		LogConfig:   logConfig,
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
