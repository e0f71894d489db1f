// Package config provides user configuration management for the InkBridge CLI.
//
// This package manages a YAML-based configuration file holding the backend location,
// the credential store location and the transport policy. The configuration follows
// OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/inkbridge/config.yaml or $HOME/.config/inkbridge/config.yaml
//   - macOS: $HOME/.config/inkbridge/config.yaml
//   - Windows: %LOCALAPPDATA%\inkbridge\config.yaml
//
// # Security
//
// The API key and device identity are NOT stored in this file. They live in the
// credential store named by the store setting, which defaults to credentials.yaml in
// the same directory.
//
// # Environment Overrides
//
// INKBRIDGE_API_URL, INKBRIDGE_STORE and INKBRIDGE_INTERFACE override the matching
// file settings after loading.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b := bridge.New(bridge.Options{
//	    APIBaseURL: cfg.APIBaseURL,
//	    Transport:  cfg.BridgeTransport(),
//	    Cache:      cfg.CachePolicy(),
//	})
package config
