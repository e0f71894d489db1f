package mockbackend

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/discovery"
	"github.com/Cgriz365/inkbridge/internal/logging"
)

// Config holds the mock backend configuration
type Config struct {
	Addr     string
	CertPath string // Serve TLS when both CertPath and KeyPath are set
	KeyPath  string

	// SelfSigned serves TLS with a certificate generated at startup.
	SelfSigned bool

	// Prefix mounts every route under a path, e.g. "/api".
	Prefix string

	RejectRegistration bool
	RejectMessage      string

	// Advertise registers the backend over mDNS as Instance.
	Advertise bool
	Instance  string
}

// Device is a registered device as the backend sees it.
type Device struct {
	DeviceID     string
	UID          string
	APIKey       string
	FriendlyUser string
	RegisteredAt time.Time
}

// Request is the last request received on a path.
type Request struct {
	Method string
	Header http.Header
	Query  map[string]string
	Body   map[string]any
}

// Server is the mock backend.
type Server struct {
	config Config
	router chi.Router

	mu      sync.Mutex
	devices map[string]*Device
	hits    map[string]int
	forced  map[string]int
	last    map[string]Request
	reject  bool
	message string
}

// New creates a mock backend.
func New(config Config) *Server {
	s := &Server{
		config:  config,
		devices: make(map[string]*Device),
		hits:    make(map[string]int),
		forced:  make(map[string]int),
		last:    make(map[string]Request),
		reject:  config.RejectRegistration,
		message: config.RejectMessage,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	mount := func(r chi.Router) {
		r.Use(s.track)
		r.Get("/setup", s.handleSetup)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/weather", s.handleWeather)
			r.Post("/weather/forecast", s.handleForecast)
			r.Post("/weather/history", s.handleHistory)
			r.Post("/weather/astronomy", s.handleAstronomy)
			r.Post("/stock", s.handleStock)
			r.Post("/stock/array", s.handleStock)
			r.Post("/crypto", s.handleCrypto)
			r.Post("/crypto/array", s.handleCrypto)
			r.Post("/news", s.handleNews)
			r.Post("/calendar", s.handleCalendar)
			r.Post("/travel", s.handleTravel)
			r.Post("/canvas", s.handleCanvas)
			r.Post("/spotify/{action}", s.handleSpotify)
		})
	}

	if s.config.Prefix != "" {
		r.Route(s.config.Prefix, mount)
	} else {
		mount(r)
	}
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.config.Addr
	if addr == "" {
		addr = ":8080"
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	tlsConfig, err := s.tlsConfig()
	if err != nil {
		_ = listener.Close()
		return err
	}
	tlsEnabled := tlsConfig != nil
	if tlsEnabled {
		listener = tls.NewListener(listener, tlsConfig)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	if s.config.Advertise {
		scheme := "http"
		if tlsEnabled {
			scheme = "https"
		}
		instance := s.config.Instance
		if instance == "" {
			instance = "inkbridge-mock"
		}
		adv, err := discovery.Advertise(instance, port, map[string]string{
			"scheme": scheme,
			"path":   s.config.Prefix,
		})
		if err != nil {
			_ = listener.Close()
			return err
		}
		defer adv.Shutdown()
	}

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(listener)
	}()

	logging.Info("Mock backend listening",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("tls", tlsEnabled),
		zap.String("prefix", s.config.Prefix),
	)

	select {
	case <-ctx.Done():
		logging.Info("Shutting down mock backend")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// tlsConfig returns the TLS configuration to serve with, or nil for plain HTTP.
func (s *Server) tlsConfig() (*tls.Config, error) {
	switch {
	case s.config.CertPath != "" && s.config.KeyPath != "":
		return NewTLSConfig(s.config.CertPath, s.config.KeyPath)
	case s.config.SelfSigned:
		cert, err := GenerateSelfSigned("localhost", "127.0.0.1", "::1")
		if err != nil {
			return nil, err
		}
		return NewTLSConfigFromMemory(cert.CertPEM, cert.KeyPEM)
	default:
		return nil, nil
	}
}

// Hits returns how many requests arrived for path (without prefix).
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests across all paths.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// LastRequest returns the most recent request for path.
func (s *Server) LastRequest(path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.last[path]
	return req, ok
}

// ForceStatus makes every request to path answer with code. Zero clears it.
func (s *Server) ForceStatus(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.forced, path)
		return
	}
	s.forced[path] = code
}

// SetRejectRegistration toggles rejection of /setup with message.
func (s *Server) SetRejectRegistration(reject bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = reject
	s.message = message
}

// AddDevice registers a device out of band.
func (s *Server) AddDevice(d Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.RegisteredAt.IsZero() {
		d.RegisteredAt = time.Now()
	}
	s.devices[d.DeviceID] = &d
}

// Device returns the registration for deviceID.
func (s *Server) Device(deviceID string) (Device, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return Device{}, false
	}
	return *d, true
}

// register returns the credentials for deviceID, issuing new ones on first contact.
func (s *Server) register(deviceID string) Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.devices[deviceID]; ok {
		return *d
	}

	uid := uuid.NewString()
	d := &Device{
		DeviceID:     deviceID,
		UID:          uid,
		APIKey:       "ik_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		FriendlyUser: "user-" + uid[:8],
		RegisteredAt: time.Now(),
	}
	s.devices[deviceID] = d
	return *d
}

func (s *Server) endpoint(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Path, s.config.Prefix)
}
