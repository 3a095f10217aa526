package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration

	require.NoError(t, d.UnmarshalText([]byte("2m30s")))
	assert.Equal(t, Duration(150*time.Second), d)

	err := d.UnmarshalText([]byte("soon"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "soon")
}

func TestDuration_RoundTrip(t *testing.T) {
	d := Duration(5 * time.Second)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5s", string(text))
	assert.Equal(t, "5s", d.String())
}

func TestDefaultConfig_Validates(t *testing.T) {
	require.NoError(t, Validate(DefaultConfig()))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	cfg.Retry.MaxAttempts = 0
	cfg.Drive.PageLimit = 5000

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "logging.level")
	assert.ErrorContains(t, err, "retry.max_attempts")
	assert.ErrorContains(t, err, "drive.page_limit")
}

func TestValidate_BackoffOrdering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retry.MinBackoff = Duration(10 * time.Second)
	cfg.Retry.MaxBackoff = Duration(2 * time.Second)

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "min_backoff")
}

func TestValidate_Domain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Domain = "not a domain"

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "domain")

	cfg.Domain = "example.com"
	require.NoError(t, Validate(cfg))
}
