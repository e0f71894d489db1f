package credstore

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Namespace is the single namespace all device records are stored under.
const Namespace = "dev_conf"

// Record keys persisted by the bridge.
const (
	KeyDeviceID     = "deviceId"
	KeyUID          = "uid"
	KeyAPIKey       = "apikey"
	KeyAPIURL       = "apiurl"
	KeyFriendlyUser = "friendlyuser"
)

// Keys lists every record the bridge persists, in load order.
var Keys = []string{KeyDeviceID, KeyUID, KeyAPIKey, KeyAPIURL, KeyFriendlyUser}

// ErrUnavailable is returned when the backing storage cannot be opened.
var ErrUnavailable = errors.New("credential storage unavailable")

// Store is durable string persistence for a single namespace.
type Store interface {
	// Init prepares the backing storage. It is idempotent.
	Init() error

	// IsInit reports whether Init has completed successfully.
	IsInit() bool

	// Save persists value under key, committing before it returns.
	Save(key, value string) error

	// Load returns the stored value and true, or "" and false if the key was never set
	// or the storage could not be opened.
	Load(key string) (string, bool)

	// FactoryReset erases every record in the namespace and reinitializes it empty.
	FactoryReset() error

	// Location returns the URI the store was opened from.
	Location() string
}

// Open creates a store from a location URI.
//
// Supported schemes:
//   - file:// - YAML file backend
//   - sqlite:// - SQLite backend
//   - memory:// - in-process backend
func Open(location string) (Store, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("store location is required")
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid store location %q: %w", location, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		path := locationPath(u)
		if path == "" {
			return nil, fmt.Errorf("file store location %q has no path", location)
		}
		return NewFileStore(path), nil
	case "sqlite":
		path := locationPath(u)
		if path == "" {
			return nil, fmt.Errorf("sqlite store location %q has no path", location)
		}
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store scheme: %q", u.Scheme)
	}
}

// locationPath joins host and path so both "file:///abs/x" and "file://rel/x" work.
func locationPath(u *url.URL) string {
	return u.Host + u.Path
}
