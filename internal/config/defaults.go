package config

import "time"

// Default values for configuration options. Chosen to work for most
// deployments without any config file; the API retry and paging defaults
// match the client's own zero-value behavior.
const (
	defaultLogLevel      = "info"
	defaultLogFormat     = "auto"
	defaultMaxAttempts   = 5
	defaultMinBackoff    = 2 * time.Second
	defaultMaxBackoff    = 5 * time.Second
	defaultSettleDelay   = 5 * time.Second
	defaultRatePerSecond = 8.0
	defaultRateBurst     = 10
	defaultPageLimit     = 250
)

// DefaultConfig returns a Config populated with all default values. It is
// the starting point for TOML decoding, so fields absent from the file
// retain their defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Retry: RetryConfig{
			MaxAttempts: defaultMaxAttempts,
			MinBackoff:  Duration(defaultMinBackoff),
			MaxBackoff:  Duration(defaultMaxBackoff),
		},
		Drive: DriveConfig{
			SettleDelay:   Duration(defaultSettleDelay),
			RatePerSecond: defaultRatePerSecond,
			RateBurst:     defaultRateBurst,
			PageLimit:     defaultPageLimit,
		},
	}
}
