package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/logging"
)

const (
	// ServiceType is the mDNS service type for InkBridge backends
	ServiceType = "_inkbridge._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for backend discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultScheme is used when a backend does not advertise one
	DefaultScheme = "https"
)

// Scanner handles mDNS backend discovery
type Scanner struct {
	// Timeout is the maximum time to wait for backends
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all backends on the local network until the timeout elapses or ctx
// is cancelled. Results are sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu       sync.Mutex
		backends []*Backend
		seen     = make(map[string]bool)
		done     = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			backend := parseServiceEntry(entry)
			if backend == nil {
				continue
			}
			mu.Lock()
			if !seen[backend.Instance] {
				seen[backend.Instance] = true
				backends = append(backends, backend)
				logging.Debug("Discovered backend",
					zap.String("instance", backend.Instance),
					zap.String("base_url", backend.BaseURL()),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once browsing stops.
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	sort.Slice(backends, func(i, j int) bool { return backends[i].Instance < backends[j].Instance })
	return backends, nil
}

// parseServiceEntry converts a zeroconf service entry to a Backend
// Returns nil if the entry has no usable address
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Backend {
	if entry == nil {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" || entry.Port <= 0 {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	scheme := strings.ToLower(metadata["scheme"])
	if scheme != "http" && scheme != "https" {
		scheme = DefaultScheme
	}

	return &Backend{
		Instance:     entry.Instance,
		Host:         entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Scheme:       scheme,
		Path:         metadata["path"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForBackends is a convenience function to scan with a custom timeout
func ScanForBackends(timeout time.Duration) ([]*Backend, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(context.Background())
}

// Advertise registers a backend instance on the local network. Call Shutdown on the
// returned server to withdraw it.
func Advertise(instance string, port int, txt map[string]string) (*zeroconf.Server, error) {
	records := make([]string, 0, len(txt))
	for k, v := range txt {
		records = append(records, k+"="+v)
	}
	sort.Strings(records)

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, records, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to advertise %s: %w", instance, err)
	}

	logging.Info("Advertising backend",
		zap.String("instance", instance),
		zap.Int("port", port),
		zap.Strings("txt", records),
	)
	return server, nil
}
