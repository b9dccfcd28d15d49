package config

import (
	"time"

	"mlbcast/internal/domain/podcast"
)

// Config holds runtime configuration for the client.
type Config struct {
	APIBaseURL   string
	APIToken     string
	HTTPTimeout  Duration
	HistoryCount int
	Language     string
	Offline      bool
	LogLevel     string
	LogFormat    string
	Metrics      MetricsConfig
}

// Load reads the optional YAML config file, then applies environment
// variable overrides with sensible defaults. A malformed file is reported;
// a missing one is not.
func Load(path string) (Config, error) {
	file, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	timeout := defaultHTTPTimeout
	if file.HTTPTimeout != "" {
		if parsed, parseErr := time.ParseDuration(file.HTTPTimeout); parseErr == nil && parsed > 0 {
			timeout = parsed
		}
	}

	history := file.HistoryCount
	if history <= 0 {
		history = defaultHistoryCount
	}

	cfg := Config{
		APIBaseURL:   envOrDefault(envAPIBaseURL, orDefault(file.APIBaseURL, defaultAPIBaseURL)),
		APIToken:     envOrDefault(envAPIToken, file.APIToken),
		HTTPTimeout:  durationEnvOrDefault(envHTTPTimeout, timeout),
		HistoryCount: intEnvOrDefault(envHistory, history),
		Language:     envOrDefault(envLanguage, orDefault(file.Language, podcast.DefaultLanguage)),
		Offline:      boolEnvOrDefault(envOffline, false),
		LogLevel:     envOrDefault(envLogLevel, file.LogLevel),
		LogFormat:    envOrDefault(envLogFormat, file.LogFormat),
		Metrics:      loadMetrics(file),
	}
	return cfg, nil
}

func orDefault(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}
