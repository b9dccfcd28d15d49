package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Port         string `yaml:"port"`
	OtlpEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
	OtlpInsecure bool   `yaml:"otlp_insecure"`
}

func loadMetrics(file fileConfig) MetricsConfig {
	cfg := MetricsConfig{
		Enabled:      false,
		Port:         defaultMetricsPort,
		ServiceName:  defaultServiceName,
		OtlpInsecure: true,
	}
	if file.Metrics != nil {
		cfg = *file.Metrics
		if cfg.Port == "" {
			cfg.Port = defaultMetricsPort
		}
		if cfg.ServiceName == "" {
			cfg.ServiceName = defaultServiceName
		}
	}

	cfg.Enabled = boolEnvOrDefault(envMetricsOn, cfg.Enabled)
	cfg.Port = envOrDefault(envMetricsPort, cfg.Port)
	cfg.OtlpEndpoint = envOrDefault(envOtelEndpoint, cfg.OtlpEndpoint)
	cfg.ServiceName = envOrDefault(envOtelService, cfg.ServiceName)
	cfg.OtlpInsecure = boolEnvOrDefault(envOtelInsecure, cfg.OtlpInsecure)
	return cfg
}
