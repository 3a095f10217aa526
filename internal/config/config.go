// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for teamdrive. The override chain is
// defaults -> config file -> environment -> CLI flags, with later layers
// winning.
package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	// Domain is the Google Workspace domain granted commenter access to
	// archived files. Required for the archive command.
	Domain string `toml:"domain"`
	// CredentialsFile points at a service account key file. Empty means
	// application default credentials.
	CredentialsFile string `toml:"credentials_file"`
	// ArchiveDriveID is the shared drive that receives archived workspaces.
	ArchiveDriveID string `toml:"archive_drive_id"`
	// Scaffold lists subfolders created in every new workspace.
	Scaffold []string `toml:"scaffold"`

	Logging LoggingConfig `toml:"logging"`
	Retry   RetryConfig   `toml:"retry"`
	Drive   DriveConfig   `toml:"drive"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // auto, text, json
}

// RetryConfig bounds the retry loop applied to transient API failures.
type RetryConfig struct {
	MaxAttempts int      `toml:"max_attempts"`
	MinBackoff  Duration `toml:"min_backoff"`
	MaxBackoff  Duration `toml:"max_backoff"`
}

// DriveConfig tunes the Drive API client.
type DriveConfig struct {
	// SettleDelay is the pause between listing a drive's files and deleting
	// them, giving the backend time to surface very recent writes. Negative
	// disables the pause.
	SettleDelay   Duration `toml:"settle_delay"`
	RatePerSecond float64  `toml:"rate_per_second"`
	RateBurst     int      `toml:"rate_burst"`
	PageLimit     int64    `toml:"page_limit"`
}

// Duration wraps time.Duration so TOML values can be written as "5s", "2m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}

	*d = Duration(parsed)

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
