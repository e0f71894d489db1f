package resources

import (
	"context"

	"github.com/Cgriz365/inkbridge/internal/bridge"
)

// Client issues domain requests with a bridge's identity and caches the results.
type Client struct {
	bridge *bridge.Bridge
}

// New wraps b. The bridge should have completed Begin.
func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// Bridge returns the underlying bridge.
func (c *Client) Bridge() *bridge.Bridge {
	return c.bridge
}

// fetch sends body to endpoint and stores the response in the slot for kind.
func (c *Client) fetch(ctx context.Context, kind bridge.Kind, endpoint string, body bridge.Body) bridge.Response {
	resp := c.bridge.Post(ctx, endpoint, body)
	c.bridge.Cache().Put(kind, resp)
	return resp
}

// cached returns the slot for kind, filling it by posting the body built by build.
// A failed slot is returned without data so accessors read zero values.
func (c *Client) cached(ctx context.Context, kind bridge.Kind, endpoint string, build func(bridge.Body) bridge.Body) bridge.Response {
	return readable(c.bridge.Cache().GetOrFetch(ctx, kind, func(ctx context.Context) bridge.Response {
		return c.bridge.Post(ctx, endpoint, build(c.bridge.NewBody()))
	}))
}

// peek returns the slot for kind without fetching, stripped like cached.
func (c *Client) peek(kind bridge.Kind) bridge.Response {
	resp, _ := c.bridge.Cache().Peek(kind)
	return readable(resp)
}

// readable drops the body of a failed response. The cache slot keeps it.
func readable(resp bridge.Response) bridge.Response {
	if resp.OK() {
		return resp
	}
	return bridge.Response{Outcome: resp.Outcome}
}

// Cached returns the response held for kind, if any.
func (c *Client) Cached(kind bridge.Kind) (bridge.Response, bool) {
	return c.bridge.Cache().Peek(kind)
}

// Fetch issues the default request for kind and stores it. Travel needs a route and
// is fetched with Travel instead.
func (c *Client) Fetch(ctx context.Context, kind bridge.Kind) bridge.Response {
	switch kind {
	case bridge.KindWeather:
		return c.Weather(ctx, "")
	case bridge.KindForecast:
		return c.Forecast(ctx, "", DefaultForecastDays)
	case bridge.KindHistory:
		return c.History(ctx, "", "")
	case bridge.KindAstronomy:
		return c.Astronomy(ctx, "")
	case bridge.KindStock:
		return c.Stock(ctx, "")
	case bridge.KindCrypto:
		return c.Crypto(ctx, "")
	case bridge.KindNews:
		return c.News(ctx, DefaultNewsCategory)
	case bridge.KindCalendar:
		return c.Calendar(ctx, DefaultCalendarRange)
	case bridge.KindLMSTodos:
		return c.Canvas(ctx, CanvasTodo, "", "")
	case bridge.KindLMSGrades:
		return c.Canvas(ctx, CanvasGrades, "", "")
	default:
		resp, _ := c.Cached(kind)
		return resp
	}
}
