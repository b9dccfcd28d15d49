package config

import "time"

const (
	envAPIBaseURL  = "MLBCAST_API_URL"
	envAPIToken    = "MLBCAST_API_TOKEN"
	envHTTPTimeout = "MLBCAST_HTTP_TIMEOUT"
	envHistory     = "MLBCAST_HISTORY_COUNT"
	envLanguage    = "MLBCAST_LANGUAGE"
	envOffline     = "MLBCAST_OFFLINE"
	envLogLevel    = "LOG_LEVEL"
	envLogFormat   = "LOG_FORMAT"

	envMetricsOn    = "METRICS_ENABLED"
	envMetricsPort  = "METRICS_PORT"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	// Base URL of the deployed generation service.
	defaultAPIBaseURL = "https://mlb-strings-1011675918473.us-central1.run.app/api/v1"
	// Podcast generation can take a while server-side; reads are quick.
	defaultHTTPTimeout  = 60 * Duration(time.Second)
	defaultHistoryCount = 5
	defaultMetricsPort  = "9090"
	defaultServiceName  = "mlbcast"
)
