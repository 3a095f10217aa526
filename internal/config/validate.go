package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validation bounds.
const (
	minRetryAttempts = 1
	maxRetryAttempts = 10
	maxRateBurst     = 100
	maxPageLimit     = 1000 // Drive API pageSize ceiling
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validLogFormats = []string{"auto", "text", "json"}

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateRetry(&cfg.Retry)...)
	errs = append(errs, validateDrive(&cfg.Drive)...)

	if cfg.Domain != "" && !strings.Contains(cfg.Domain, ".") {
		errs = append(errs, fmt.Errorf("domain: %q does not look like a domain name", cfg.Domain))
	}

	for _, folder := range cfg.Scaffold {
		if strings.TrimSpace(folder) == "" {
			errs = append(errs, errors.New("scaffold: folder names must be non-empty"))

			break
		}
	}

	return errors.Join(errs...)
}

func validateLogging(lc *LoggingConfig) []error {
	var errs []error

	if !slices.Contains(validLogLevels, lc.Level) {
		errs = append(errs, fmt.Errorf("logging.level: %q is not one of %s",
			lc.Level, strings.Join(validLogLevels, ", ")))
	}

	if !slices.Contains(validLogFormats, lc.Format) {
		errs = append(errs, fmt.Errorf("logging.format: %q is not one of %s",
			lc.Format, strings.Join(validLogFormats, ", ")))
	}

	return errs
}

func validateRetry(rc *RetryConfig) []error {
	var errs []error

	if rc.MaxAttempts < minRetryAttempts || rc.MaxAttempts > maxRetryAttempts {
		errs = append(errs, fmt.Errorf("retry.max_attempts: %d outside [%d, %d]",
			rc.MaxAttempts, minRetryAttempts, maxRetryAttempts))
	}

	if rc.MinBackoff < 0 || rc.MaxBackoff < 0 {
		errs = append(errs, errors.New("retry: backoff durations must not be negative"))
	} else if rc.MinBackoff > rc.MaxBackoff {
		errs = append(errs, fmt.Errorf("retry: min_backoff %s exceeds max_backoff %s",
			rc.MinBackoff, rc.MaxBackoff))
	}

	return errs
}

func validateDrive(dc *DriveConfig) []error {
	var errs []error

	if dc.RatePerSecond <= 0 {
		errs = append(errs, fmt.Errorf("drive.rate_per_second: must be positive, got %g", dc.RatePerSecond))
	}

	if dc.RateBurst < 1 || dc.RateBurst > maxRateBurst {
		errs = append(errs, fmt.Errorf("drive.rate_burst: %d outside [1, %d]", dc.RateBurst, maxRateBurst))
	}

	if dc.PageLimit < 1 || dc.PageLimit > maxPageLimit {
		errs = append(errs, fmt.Errorf("drive.page_limit: %d outside [1, %d]", dc.PageLimit, maxPageLimit))
	}

	return errs
}
