package config

import "strings"

const defaultMetricsPrefix = "runconsole"

// ObservabilityConfig holds optional telemetry sinks.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// ObservabilityMetricsConfig points the aggregator and ecosystem client
// metrics at a DogStatsD listener.
type ObservabilityMetricsConfig struct {
	Enabled       bool   `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"runconsole"`
	// Tags are attached to every metric, e.g. "env:prod,region:us-east".
	Tags map[string]string `env:"OBSERVABILITY_METRICS_TAGS" envSeparator:"," envKeyValSeparator:":"`
}

// Sanitize disables emission without an address and strips stray dots from
// the prefix so metric names never contain "..".
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	c.Enabled = c.Enabled && c.StatsdAddress != ""

	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	if c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
}

func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}
