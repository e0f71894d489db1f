package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Cgriz365/inkbridge/internal/logging"
	"github.com/Cgriz365/inkbridge/internal/metrics"
)

// Kind names a resource with its own cache slot.
type Kind string

const (
	KindWeather   Kind = "weather"
	KindForecast  Kind = "forecast"
	KindHistory   Kind = "history"
	KindAstronomy Kind = "astronomy"
	KindStock     Kind = "stock"
	KindCrypto    Kind = "crypto"
	KindNews      Kind = "news"
	KindCalendar  Kind = "calendar"
	KindTravel    Kind = "travel"
	KindLMSTodos  Kind = "lms-todos"
	KindLMSGrades Kind = "lms-grades"
)

// Kinds lists every cached resource kind.
var Kinds = []Kind{
	KindWeather, KindForecast, KindHistory, KindAstronomy,
	KindStock, KindCrypto, KindNews, KindCalendar, KindTravel,
	KindLMSTodos, KindLMSGrades,
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// CachePolicy controls when a slot counts as populated.
type CachePolicy struct {
	// RefetchFailures makes a slot holding a non-OK response count as empty, so the next
	// read fetches again. By default any response with data is kept for the session.
	RefetchFailures bool
}

// FetchFunc performs the network call that fills a slot. It must not call back into the
// cache for the same kind.
type FetchFunc func(ctx context.Context) Response

type slot struct {
	mu   sync.Mutex
	resp Response
}

// Cache holds the last response for each resource kind. Slots start empty, are
// overwritten whole on every fetch and never expire.
type Cache struct {
	policy  CachePolicy
	metrics *metrics.Metrics
	slots   map[Kind]*slot
}

// NewCache creates a cache with one empty slot per kind.
func NewCache(policy CachePolicy, m *metrics.Metrics) *Cache {
	c := &Cache{
		policy:  policy,
		metrics: m,
		slots:   make(map[Kind]*slot, len(Kinds)),
	}
	for _, k := range Kinds {
		c.slots[k] = &slot{}
	}
	return c
}

func (c *Cache) populated(r Response) bool {
	if !r.Populated() {
		return false
	}
	return !c.policy.RefetchFailures || r.OK()
}

// GetOrFetch returns the cached response for kind, calling fetch and storing its result
// when the slot is empty. Concurrent callers for one kind are serialized.
func (c *Cache) GetOrFetch(ctx context.Context, kind Kind, fetch FetchFunc) Response {
	s, ok := c.slots[kind]
	if !ok {
		logging.Warn("Uncached resource kind", zap.String("kind", string(kind)))
		return fetch(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.populated(s.resp) {
		c.metrics.CacheHit(string(kind))
		logging.Debug("Cache hit", zap.String("kind", string(kind)), zap.String("outcome", s.resp.Outcome.String()))
		return s.resp
	}

	c.metrics.CacheMiss(string(kind))
	s.resp = fetch(ctx)
	return s.resp
}

// Put overwrites the slot for kind.
func (c *Cache) Put(kind Kind, resp Response) {
	s, ok := c.slots[kind]
	if !ok {
		return
	}
	s.mu.Lock()
	s.resp = resp
	s.mu.Unlock()
}

// Peek returns the slot contents without fetching, and whether the slot is populated.
func (c *Cache) Peek(kind Kind) (Response, bool) {
	s, ok := c.slots[kind]
	if !ok {
		return Response{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resp, c.populated(s.resp)
}

// Invalidate empties the slot for kind.
func (c *Cache) Invalidate(kind Kind) {
	c.Put(kind, Response{})
}

// Clear empties every slot.
func (c *Cache) Clear() {
	for k := range c.slots {
		c.Invalidate(k)
	}
}
