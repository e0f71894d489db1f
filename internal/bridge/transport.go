package bridge

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/identity"
	"github.com/Cgriz365/inkbridge/internal/logging"
	"github.com/Cgriz365/inkbridge/internal/metrics"
	"github.com/Cgriz365/inkbridge/internal/version"
)

const (
	// DefaultMaxAttempts is how many times a request is tried before giving up
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed delay between attempts
	DefaultRetryDelay = 1 * time.Second

	// DefaultTimeout is the per-attempt HTTP timeout
	DefaultTimeout = 15 * time.Second

	// DefaultHandshakeTimeout bounds the TLS handshake
	DefaultHandshakeTimeout = 10 * time.Second

	// DefaultMaxResponseBytes caps the size of a response body
	DefaultMaxResponseBytes = 1 << 20
)

// HTTP methods the backend accepts.
const (
	MethodGet  = http.MethodGet
	MethodPost = http.MethodPost
)

// TransportConfig holds the retry and timeout policy.
type TransportConfig struct {
	MaxAttempts      int
	RetryDelay       time.Duration
	Timeout          time.Duration
	HandshakeTimeout time.Duration

	// VerifyTLS enables certificate validation. Off by default.
	VerifyTLS bool

	MaxResponseBytes int64
}

// DefaultTransportConfig returns the stock policy.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		MaxAttempts:      DefaultMaxAttempts,
		RetryDelay:       DefaultRetryDelay,
		Timeout:          DefaultTimeout,
		HandshakeTimeout: DefaultHandshakeTimeout,
		MaxResponseBytes: DefaultMaxResponseBytes,
	}
}

// withDefaults fills zero fields from DefaultTransportConfig.
func (c TransportConfig) withDefaults() TransportConfig {
	d := DefaultTransportConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = d.MaxResponseBytes
	}
	return c
}

// NewHTTPClient builds a client applying the TLS policy and timeouts in cfg.
// Connections are not reused between requests.
func NewHTTPClient(cfg TransportConfig) *http.Client {
	cfg = cfg.withDefaults()
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: cfg.Timeout,
			}).DialContext,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !cfg.VerifyTLS, //nolint:gosec // Matches device firmware policy; opt in with VerifyTLS
			},
			TLSHandshakeTimeout: cfg.HandshakeTimeout,
			DisableKeepAlives:   true,
		},
	}
}

// Call describes one backend request.
type Call struct {
	Method   string
	BaseURL  string
	Endpoint string
	DeviceID string
	APIKey   string

	// Body is encoded as JSON for POST. Ignored for GET.
	Body any
}

// Transport performs backend calls with bounded retries.
type Transport struct {
	HTTPClient       *http.Client
	Network          identity.Network
	MaxAttempts      int
	RetryDelay       time.Duration
	MaxResponseBytes int64
	Metrics          *metrics.Metrics
}

// NewTransport creates a transport from cfg. If client is nil one is built with
// NewHTTPClient.
func NewTransport(cfg TransportConfig, client *http.Client, network identity.Network, m *metrics.Metrics) *Transport {
	cfg = cfg.withDefaults()
	if client == nil {
		client = NewHTTPClient(cfg)
	}
	return &Transport{
		HTTPClient:       client,
		Network:          network,
		MaxAttempts:      cfg.MaxAttempts,
		RetryDelay:       cfg.RetryDelay,
		MaxResponseBytes: cfg.MaxResponseBytes,
		Metrics:          m,
	}
}

// Do sends the call and classifies the result. It never returns an error; failures are
// carried in the response outcome.
func (t *Transport) Do(ctx context.Context, call Call) Response {
	start := time.Now()
	resp, attempts := t.do(ctx, call)

	logging.LogOutcome(call.Endpoint, resp.Outcome.String(), attempts, time.Since(start))
	t.Metrics.ObserveRequest(call.Endpoint, resp.Outcome.String())
	return resp
}

func (t *Transport) do(ctx context.Context, call Call) (Response, int) {
	if t.Network != nil && !t.Network.Connected() {
		return Response{Outcome: WifiDisconnected}, 0
	}

	target, payload, err := buildRequest(call)
	if err != nil {
		return Response{Outcome: ConnectFailed, cause: err}, 0
	}

	maxAttempts := t.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attempts = attempt
		req, err := http.NewRequestWithContext(ctx, call.Method, target, bytes.NewReader(payload))
		if err != nil {
			return Response{Outcome: ConnectFailed, cause: err}, attempt - 1
		}
		setHeaders(req, call)

		t.Metrics.ObserveAttempt(call.Endpoint)
		logging.LogRequest(call.Method, target, call.DeviceID, call.APIKey, attempt)

		resp, err := t.HTTPClient.Do(req)
		if err == nil {
			return t.classify(resp), attempt
		}

		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < maxAttempts {
			logging.Warn("Request attempt failed, retrying",
				zap.String("endpoint", call.Endpoint),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if !sleep(ctx, t.RetryDelay) {
				break
			}
		}
	}

	return Response{Outcome: TransportError, cause: lastErr}, attempts
}

// classify reads the body and maps status and body to an outcome.
func (t *Transport) classify(resp *http.Response) Response {
	defer func() { _ = resp.Body.Close() }()

	limit := t.MaxResponseBytes
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return Response{Outcome: TransportError, cause: fmt.Errorf("reading response body: %w", err)}
	}
	if int64(len(body)) > limit {
		return Response{
			Outcome: AllocationError,
			cause:   fmt.Errorf("response body exceeds %d bytes", limit),
		}
	}

	data, parseErr := parseJSON(body)

	if resp.StatusCode >= 400 {
		return Response{
			Outcome: HTTPError(resp.StatusCode),
			Data:    data,
			cause:   fmt.Errorf("status %s", resp.Status),
		}
	}
	if parseErr != nil {
		return Response{Outcome: JSONParseError, cause: parseErr}
	}
	return Response{Outcome: OK, Data: data}
}

// buildRequest returns the target URL and encoded body for a call.
func buildRequest(call Call) (string, []byte, error) {
	if call.Method != MethodGet && call.Method != MethodPost {
		return "", nil, fmt.Errorf("unsupported method %q", call.Method)
	}
	if call.BaseURL == "" {
		return "", nil, errors.New("API base URL is empty")
	}

	target := strings.TrimSuffix(call.BaseURL, "/") + call.Endpoint
	if _, err := url.Parse(target); err != nil {
		return "", nil, fmt.Errorf("invalid URL %q: %w", target, err)
	}

	if call.Method == MethodGet {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + "device_id=" + url.QueryEscape(call.DeviceID)
		if call.APIKey != "" {
			target += "&api_key=" + url.QueryEscape(call.APIKey)
		}
		return target, nil, nil
	}

	if call.Body == nil {
		return target, []byte("{}"), nil
	}
	payload, err := json.Marshal(call.Body)
	if err != nil {
		return "", nil, fmt.Errorf("encoding request body: %w", err)
	}
	return target, payload, nil
}

func setHeaders(req *http.Request, call Call) {
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-device-id", call.DeviceID)
	if call.APIKey != "" {
		req.Header.Set("x-api-key", call.APIKey)
	}
	if call.Method == MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
}

// parseJSON decodes exactly one JSON value, keeping numbers as json.Number.
func parseJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("parsing response JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parsing response JSON: trailing data after value")
	}
	return data, nil
}

// sleep waits for d or until ctx is done. It reports whether the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
