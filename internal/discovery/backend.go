package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Backend represents a discovered backend deployment on the network
type Backend struct {
	// Instance is the advertised service instance name
	Instance string

	// Host is the mDNS hostname (e.g., "buildbox.local.")
	Host string

	// IP is the preferred address (IPv4 when available)
	IP string

	// Port is the service port
	Port int

	// Scheme is "http" or "https"
	Scheme string

	// Path is the API root path, e.g. "/api"
	Path string

	// Metadata contains all TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the backend was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the backend
func (b *Backend) String() string {
	return fmt.Sprintf("InkBridge backend %q (%s) at %s", b.Instance, b.Host, b.BaseURL())
}

// BaseURL returns the API base URL for the backend
func (b *Backend) BaseURL() string {
	scheme := b.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	path := b.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(b.IP, strconv.Itoa(b.Port)), strings.TrimSuffix(path, "/"))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Backend) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
