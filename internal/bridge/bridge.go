package bridge

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/credstore"
	"github.com/Cgriz365/inkbridge/internal/identity"
	"github.com/Cgriz365/inkbridge/internal/logging"
	"github.com/Cgriz365/inkbridge/internal/metrics"
	"github.com/Cgriz365/inkbridge/internal/urls"
)

// DefaultFriendlyName is reported until the backend assigns one.
const DefaultFriendlyName = "Unknown"

// Options configures a Bridge.
type Options struct {
	// ResetDevice wipes persisted state at the start of Begin.
	ResetDevice bool

	// APIBaseURL overrides the default backend root. A persisted URL still takes
	// precedence once Begin has loaded it.
	APIBaseURL string

	// PinAPIBaseURL keeps APIBaseURL for this session even when a URL is persisted.
	PinAPIBaseURL bool

	// Store is the durable backing for identity and credentials. Defaults to memory.
	Store credstore.Store

	// Network reports connectivity and the hardware address. Defaults to SystemNetwork.
	Network identity.Network

	Transport  TransportConfig
	Cache      CachePolicy
	Metrics    *metrics.Metrics
	HTTPClient *http.Client
}

// Identity is the device's identity as known to the backend.
type Identity struct {
	DeviceID     string
	UID          string
	FriendlyName string
}

// Bridge owns the device identity and credentials and sends requests on their behalf.
type Bridge struct {
	store     credstore.Store
	network   identity.Network
	transport *Transport
	cache     *Cache
	metrics   *metrics.Metrics
	reset     bool
	pinURL    bool
	baseURL   string

	mu                sync.RWMutex
	deviceID          string
	uid               string
	apiKey            string
	apiBaseURL        string
	friendlyName      string
	registeredOnBegin bool
}

// New creates a bridge. Nothing is loaded or sent until Begin.
func New(opts Options) *Bridge {
	store := opts.Store
	if store == nil {
		store = credstore.NewMemoryStore()
	}
	network := opts.Network
	if network == nil {
		network = identity.SystemNetwork{}
	}
	baseURL := opts.APIBaseURL
	if baseURL == "" {
		baseURL = urls.DefaultAPIBaseURL
	}

	return &Bridge{
		store:        store,
		network:      network,
		transport:    NewTransport(opts.Transport, opts.HTTPClient, network, opts.Metrics),
		cache:        NewCache(opts.Cache, opts.Metrics),
		metrics:      opts.Metrics,
		reset:        opts.ResetDevice,
		pinURL:       opts.PinAPIBaseURL && opts.APIBaseURL != "",
		baseURL:      baseURL,
		apiBaseURL:   baseURL,
		friendlyName: DefaultFriendlyName,
	}
}

// Begin loads persisted state, derives the device id if needed and registers an
// unregistered device. It returns whether the device ends up registered.
func (b *Bridge) Begin(ctx context.Context) (bool, error) {
	if !b.store.IsInit() {
		logging.Debug("Initializing credential store", zap.String("location", b.store.Location()))
		if err := b.store.Init(); err != nil {
			logging.Warn("Credential store unavailable; state will not persist", zap.Error(err))
		}
	}

	if b.reset {
		logging.Info("Resetting device configuration as requested")
		if err := b.FactoryReset(); err != nil {
			logging.Warn("Factory reset failed", zap.Error(err))
		}
	}

	stored := make(map[string]string, len(credstore.Keys))
	present := make(map[string]bool, len(credstore.Keys))
	for _, key := range credstore.Keys {
		stored[key], present[key] = b.store.Load(key)
	}

	resolver := identity.Resolver{Network: b.network, Store: b.store}
	deviceID, err := resolver.ResolveDeviceID(stored[credstore.KeyDeviceID], present[credstore.KeyDeviceID])
	if err != nil {
		logging.Error("Cannot establish device id", zap.Error(err))
		return false, &Error{
			Type:    ErrTypeIdentityUnavailable,
			Message: "device id could not be derived",
			Err:     err,
		}
	}

	adopt := func(key string, dst *string) {
		if v := stored[key]; !identity.IsAbsent(v, present[key]) && v != "" {
			*dst = v
		}
	}

	b.mu.Lock()
	b.deviceID = deviceID
	adopt(credstore.KeyAPIKey, &b.apiKey)
	adopt(credstore.KeyFriendlyUser, &b.friendlyName)
	adopt(credstore.KeyUID, &b.uid)
	if !b.pinURL {
		adopt(credstore.KeyAPIURL, &b.apiBaseURL)
	}
	needsRegistration := b.deviceID != "" && b.apiKey == ""
	b.registeredOnBegin = false
	b.mu.Unlock()

	logging.Info("Loaded device state",
		zap.String("device_id", deviceID),
		zap.Bool("has_api_key", !needsRegistration),
		zap.String("api_base_url", b.APIBaseURL()),
	)

	if needsRegistration {
		logging.Info("Device not registered, attempting registration")
		if err := b.Register(ctx); err != nil {
			return false, err
		}
		b.mu.Lock()
		b.registeredOnBegin = true
		b.mu.Unlock()
		return true, nil
	}

	return b.IsRegistered(), nil
}

// RegisteredOnBegin reports whether the last Begin ran the registration handshake.
func (b *Bridge) RegisteredOnBegin() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.registeredOnBegin
}

// IsRegistered reports whether the device holds an API key, a device id and a uid.
func (b *Bridge) IsRegistered() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.apiKey != "" && b.deviceID != "" && b.uid != ""
}

// SetAPIKey sets and persists an API key. An empty key is ignored.
func (b *Bridge) SetAPIKey(key string) error {
	if key == "" {
		return nil
	}
	b.mu.Lock()
	b.apiKey = key
	b.mu.Unlock()

	logging.Info("API key set manually", zap.String("api_key", logging.Redact(key)))
	return b.store.Save(credstore.KeyAPIKey, key)
}

// SetAPIBaseURL sets and persists the backend root. An empty URL is ignored.
func (b *Bridge) SetAPIBaseURL(baseURL string) error {
	if baseURL == "" {
		return nil
	}
	b.mu.Lock()
	b.apiBaseURL = baseURL
	b.mu.Unlock()

	logging.Info("API base URL set", zap.String("api_base_url", baseURL))
	return b.store.Save(credstore.KeyAPIURL, baseURL)
}

func (b *Bridge) DeviceID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.deviceID
}

func (b *Bridge) UID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.uid
}

func (b *Bridge) APIKey() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.apiKey
}

func (b *Bridge) APIBaseURL() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.apiBaseURL
}

func (b *Bridge) FriendlyName() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.friendlyName
}

// Identity returns a copy of the current identity.
func (b *Bridge) Identity() Identity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Identity{DeviceID: b.deviceID, UID: b.uid, FriendlyName: b.friendlyName}
}

// Store returns the credential store backing the bridge.
func (b *Bridge) Store() credstore.Store {
	return b.store
}

// Cache returns the resource cache.
func (b *Bridge) Cache() *Cache {
	return b.cache
}

// Send issues a request to endpoint with the held identity and credentials.
func (b *Bridge) Send(ctx context.Context, endpoint, method string, body any) Response {
	b.mu.RLock()
	call := Call{
		Method:   method,
		BaseURL:  b.apiBaseURL,
		Endpoint: endpoint,
		DeviceID: b.deviceID,
		APIKey:   b.apiKey,
		Body:     body,
	}
	b.mu.RUnlock()

	return b.transport.Do(ctx, call)
}

// Get issues a GET request. Identity travels as query parameters and headers.
func (b *Bridge) Get(ctx context.Context, endpoint string) Response {
	return b.Send(ctx, endpoint, MethodGet, nil)
}

// Post issues a POST request with a JSON body.
func (b *Bridge) Post(ctx context.Context, endpoint string, body Body) Response {
	return b.Send(ctx, endpoint, MethodPost, body)
}

// NewBody returns a request body pre-filled with uid and device_id.
func (b *Bridge) NewBody() Body {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Body{"uid": b.uid, "device_id": b.deviceID}
}

// FactoryReset erases persisted state and returns the bridge to its pre-identity state,
// including the base URL it was constructed with.
func (b *Bridge) FactoryReset() error {
	err := b.store.FactoryReset()

	b.mu.Lock()
	b.deviceID = ""
	b.uid = ""
	b.apiKey = ""
	b.apiBaseURL = b.baseURL
	b.friendlyName = DefaultFriendlyName
	b.registeredOnBegin = false
	b.mu.Unlock()

	b.cache.Clear()
	return err
}

// Body is a JSON request body.
type Body map[string]any

// Set stores value under key and returns the body for chaining.
func (b Body) Set(key string, value any) Body {
	b[key] = value
	return b
}

// SetString stores value under key unless it is empty.
func (b Body) SetString(key, value string) Body {
	if value != "" {
		b[key] = value
	}
	return b
}

// SetIf stores value under key when cond holds.
func (b Body) SetIf(cond bool, key string, value any) Body {
	if cond {
		b[key] = value
	}
	return b
}
