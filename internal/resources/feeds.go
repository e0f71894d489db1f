package resources

import (
	"context"

	"github.com/Cgriz365/inkbridge/internal/bridge"
)

const (
	DefaultNewsCategory  = "general"
	DefaultCalendarRange = "1d"
)

// News fetches headlines for category.
func (c *Client) News(ctx context.Context, category string) bridge.Response {
	return c.fetch(ctx, bridge.KindNews, "/news", c.bridge.NewBody().Set("category", category))
}

func (c *Client) news(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindNews, "/news", func(b bridge.Body) bridge.Body {
		return b.Set("category", DefaultNewsCategory)
	})
}

func (c *Client) NewsArticleCount(ctx context.Context) int {
	return c.news(ctx).Len("articles")
}

func (c *Client) NewsArticleTitle(ctx context.Context, index int) string {
	return c.news(ctx).String("articles", index, "title")
}

func (c *Client) NewsArticleSource(ctx context.Context, index int) string {
	return c.news(ctx).String("articles", index, "source", "name")
}

// Calendar fetches events within rng, e.g. "1d" or "7d".
func (c *Client) Calendar(ctx context.Context, rng string) bridge.Response {
	return c.fetch(ctx, bridge.KindCalendar, "/calendar", c.bridge.NewBody().Set("range", rng))
}

func (c *Client) calendar(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindCalendar, "/calendar", func(b bridge.Body) bridge.Body {
		return b.Set("range", DefaultCalendarRange)
	})
}

func (c *Client) CalendarEventCount(ctx context.Context) int {
	return c.calendar(ctx).Len("events")
}

func (c *Client) CalendarEventStart(ctx context.Context, index int) string {
	return c.calendar(ctx).String("events", index, "start")
}

func (c *Client) CalendarEventSummary(ctx context.Context, index int) string {
	return c.calendar(ctx).String("events", index, "summary")
}

func (c *Client) CalendarEventLocation(ctx context.Context, index int) string {
	return c.calendar(ctx).String("events", index, "location")
}

// Travel fetches a route. Empty origin or destination are omitted from the request.
func (c *Client) Travel(ctx context.Context, origin, destination, mode string) bridge.Response {
	body := c.bridge.NewBody().
		SetString("origin", origin).
		SetString("destination", destination).
		Set("mode", mode)
	return c.fetch(ctx, bridge.KindTravel, "/travel", body)
}

// The travel accessors read the last Travel result and return "" until there is one.

func (c *Client) TravelDuration() string {
	return c.peek(bridge.KindTravel).String("duration_traffic_text")
}

func (c *Client) TravelDistance() string {
	return c.peek(bridge.KindTravel).String("distance_text")
}

func (c *Client) TravelOrigin() string {
	return c.peek(bridge.KindTravel).String("start_address")
}

func (c *Client) TravelDestination() string {
	return c.peek(bridge.KindTravel).String("end_address")
}

func (c *Client) TravelMode() string {
	return c.peek(bridge.KindTravel).String("mode")
}
