// Package config resolves the telemetry endpoint credentials.
//
// Resolve(path) reads the optional YAML config file (server, device_token,
// timeout, insecure_skip_verify), then overlays the "server" and
// "device_token" environment variables, which take precedence. The file may
// be absent entirely; either required key still missing after the overlay
// yields a MissingKeyError naming that key, so startup diagnostics can say
// which credential the operator forgot.
package config
