package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names the resolver honours. They intentionally match
// the ThingsBoard-side .env convention (lowercase) so existing device
// credentials files keep working.
const (
	EnvServer      = "server"
	EnvDeviceToken = "device_token"
)

// DefaultTimeout bounds each telemetry POST, connection included. A hung
// endpoint must surface as a failed round, never stall the run.
const DefaultTimeout = 10 * time.Second

// Endpoint is the resolved telemetry target. Immutable once resolved;
// construct it exactly once per run via Resolve.
type Endpoint struct {
	// Server is the base URL of the ThingsBoard instance,
	// e.g. "http://localhost:8080".
	Server string `yaml:"server"`

	// DeviceToken is the device access token used to authenticate
	// telemetry uploads.
	DeviceToken string `yaml:"device_token"`

	// Timeout bounds a single publish attempt end to end.
	Timeout time.Duration `yaml:"timeout"`

	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this against internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// MissingKeyError reports a required configuration value that was found
// neither in the config file nor in the environment.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("config: required key %q not set (config file or environment)", e.Key)
}

// Resolve builds the Endpoint from the optional YAML file at path overlaid
// with the "server" and "device_token" environment variables (environment
// wins). A missing file is fine — env-only operation is supported; a file
// that exists but does not parse is an error.
//
// Each required key is checked independently so the caller can tell the
// operator exactly which one is absent.
func Resolve(path string) (Endpoint, error) {
	ep := Endpoint{Timeout: DefaultTimeout}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &ep); err != nil {
			return Endpoint{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// No config file — rely on the environment alone.
	default:
		return Endpoint{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if v := os.Getenv(EnvServer); v != "" {
		ep.Server = v
	}
	if v := os.Getenv(EnvDeviceToken); v != "" {
		ep.DeviceToken = v
	}

	if ep.Server == "" {
		return Endpoint{}, &MissingKeyError{Key: EnvServer}
	}
	if ep.DeviceToken == "" {
		return Endpoint{}, &MissingKeyError{Key: EnvDeviceToken}
	}
	if ep.Timeout <= 0 {
		ep.Timeout = DefaultTimeout
	}

	return ep, nil
}
