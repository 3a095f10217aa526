package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig          = "TEAMDRIVE_CONFIG"
	EnvDomain          = "TEAMDRIVE_DOMAIN"
	EnvCredentialsFile = "TEAMDRIVE_CREDENTIALS_FILE"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath      string // TEAMDRIVE_CONFIG: override config file path
	Domain          string // TEAMDRIVE_DOMAIN: workspace domain override
	CredentialsFile string // TEAMDRIVE_CREDENTIALS_FILE: key file override
}

// ReadEnvOverrides reads environment variables and returns any overrides
// found. It does not modify a Config; callers apply the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:      os.Getenv(EnvConfig),
		Domain:          os.Getenv(EnvDomain),
		CredentialsFile: os.Getenv(EnvCredentialsFile),
	}
}
