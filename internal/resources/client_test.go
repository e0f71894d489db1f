package resources

import (
	"context"
	"math"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/Cgriz365/inkbridge/internal/bridge"
	"github.com/Cgriz365/inkbridge/internal/credstore"
	"github.com/Cgriz365/inkbridge/internal/identity"
	"github.com/Cgriz365/inkbridge/internal/mockbackend"
)

func newClient(t *testing.T) (*Client, *mockbackend.Server) {
	t.Helper()
	backend := mockbackend.New(mockbackend.Config{})
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	b := bridge.New(bridge.Options{
		APIBaseURL: server.URL,
		Store:      credstore.NewMemoryStore(),
		Network:    identity.StaticNetwork{Online: true, MAC: "AA:BB:CC:11:22:33"},
		Transport:  bridge.TransportConfig{RetryDelay: time.Millisecond},
	})
	ok, err := b.Begin(context.Background())
	if err != nil || !ok {
		t.Fatalf("Begin() = %v, %v", ok, err)
	}
	return New(b), backend
}

func TestWeatherAccessorsFetchOnce(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	if got := c.WeatherTemperature(ctx); got != 18.5 {
		t.Errorf("WeatherTemperature() = %v, want 18.5", got)
	}
	if got := c.WeatherCondition(ctx); got != "Clouds" {
		t.Errorf("WeatherCondition() = %q", got)
	}
	if got := c.WeatherDescription(ctx); got != "overcast clouds" {
		t.Errorf("WeatherDescription() = %q", got)
	}
	if got := c.WeatherLocation(ctx); got != "London" {
		t.Errorf("WeatherLocation() = %q", got)
	}
	if backend.Hits("/weather") != 1 {
		t.Errorf("/weather hits = %d, want 1", backend.Hits("/weather"))
	}

	req, _ := backend.LastRequest("/weather")
	if _, ok := req.Body["location"]; ok {
		t.Error("default fetch should not send a location")
	}
}

func TestExplicitFetchOverwritesSlot(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	_ = c.WeatherLocation(ctx)
	resp := c.Weather(ctx, "Paris")
	if !resp.OK() {
		t.Fatalf("Weather() outcome = %v", resp.Outcome)
	}
	if got := c.WeatherLocation(ctx); got != "Paris" {
		t.Errorf("WeatherLocation() = %q, want Paris", got)
	}
	if backend.Hits("/weather") != 2 {
		t.Errorf("/weather hits = %d, want 2", backend.Hits("/weather"))
	}
}

func TestForecast(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	if got := c.ForecastDayCount(ctx); got != DefaultForecastDays {
		t.Errorf("ForecastDayCount() = %d, want %d", got, DefaultForecastDays)
	}
	req, _ := backend.LastRequest("/weather/forecast")
	if req.Body["days"] != float64(DefaultForecastDays) {
		t.Errorf("days sent = %v", req.Body["days"])
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"date", c.ForecastDate(ctx, 0), "2025-03-03"},
		{"min", c.ForecastMinTemp(ctx, 0), "10"},
		{"max", c.ForecastMaxTemp(ctx, 1), "19.5"},
		{"condition", c.ForecastCondition(ctx, 2), "Rain"},
		{"out of range", c.ForecastCondition(ctx, 9), ""},
		{"min on", c.ForecastMinTempOn(ctx, "2025-03-04"), "11"},
		{"max on", c.ForecastMaxTempOn(ctx, "2025-03-05"), "20.5"},
		{"condition on", c.ForecastConditionOn(ctx, "2025-03-04"), "Clouds"},
		{"unknown date", c.ForecastConditionOn(ctx, "1999-01-01"), ""},
		{"trend", c.ForecastTrend(ctx), "warming"},
		{"location", c.ForecastLocation(ctx), "London"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	c.Forecast(ctx, "Oslo", 5)
	if got := c.ForecastDayCount(ctx); got != 5 {
		t.Errorf("ForecastDayCount() after Forecast(5) = %d", got)
	}
	if backend.Hits("/weather/forecast") != 2 {
		t.Errorf("/weather/forecast hits = %d, want 2", backend.Hits("/weather/forecast"))
	}
}

func TestHistory(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	if got := c.HistoryCount(ctx); got != 3 {
		t.Errorf("HistoryCount() = %d, want 3", got)
	}
	if got := c.HistoryDate(ctx, 0); got != "2025-02-28" {
		t.Errorf("HistoryDate(0) = %q", got)
	}
	if got := c.HistoryAvgTemp(ctx, 0); got != "15" {
		t.Errorf("HistoryAvgTemp(0) = %q", got)
	}
	if got := c.HistoryAvgTempOn(ctx, "2025-03-02"); got != "13" {
		t.Errorf("HistoryAvgTempOn() = %q", got)
	}
	if got := c.HistoryConditionOn(ctx, "2025-03-01"); got != "Clouds" {
		t.Errorf("HistoryConditionOn() = %q", got)
	}
	if got := c.HistoryTrend(ctx); got != "cooling" {
		t.Errorf("HistoryTrend() = %q", got)
	}
}

func TestAstronomy(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	if got := c.Sunrise(ctx); got != "06:42 AM" {
		t.Errorf("Sunrise() = %q", got)
	}
	if got := c.MoonPhase(ctx); got != "Waxing Crescent" {
		t.Errorf("MoonPhase() = %q", got)
	}
	if got := c.MoonIllumination(ctx); got != 17 {
		t.Errorf("MoonIllumination() = %d", got)
	}
	if !c.IsDaytime(ctx) {
		t.Error("IsDaytime() = false")
	}
	if backend.Hits("/weather/astronomy") != 1 {
		t.Errorf("/weather/astronomy hits = %d, want 1", backend.Hits("/weather/astronomy"))
	}
}

func TestStockSlotSharedWithArray(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	resp := c.StockArray(ctx, "MSFT", DefaultPriceHistoryDays)
	if got := resp.Len("history"); got != DefaultPriceHistoryDays {
		t.Errorf("history length = %d", got)
	}
	if got := c.StockSymbol(ctx); got != "MSFT" {
		t.Errorf("StockSymbol() = %q, want MSFT", got)
	}
	if got := c.StockDayLow(ctx); got != 187.6 {
		t.Errorf("StockDayLow() = %v", got)
	}
	if backend.Hits("/stock") != 0 {
		t.Error("accessors should read the array response instead of fetching /stock")
	}
}

func TestCrypto(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	if got := c.CryptoName(ctx); got != "Bitcoin" {
		t.Errorf("CryptoName() = %q", got)
	}
	if got := c.CryptoChangePercent(ctx); got != -0.8 {
		t.Errorf("CryptoChangePercent() = %v", got)
	}
	c.CryptoArray(ctx, "ETH", 3)
	if got := c.CryptoSymbol(ctx); got != "ETH" {
		t.Errorf("CryptoSymbol() = %q, want ETH", got)
	}
}

func TestNewsAndCalendarDefaults(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	if got := c.NewsArticleCount(ctx); got != 2 {
		t.Errorf("NewsArticleCount() = %d", got)
	}
	if got := c.NewsArticleSource(ctx, 1); got != "Tech Daily" {
		t.Errorf("NewsArticleSource(1) = %q", got)
	}
	req, _ := backend.LastRequest("/news")
	if req.Body["category"] != DefaultNewsCategory {
		t.Errorf("category sent = %v", req.Body["category"])
	}

	if got := c.CalendarEventSummary(ctx, 0); got != "Standup" {
		t.Errorf("CalendarEventSummary(0) = %q", got)
	}
	if got := c.CalendarEventLocation(ctx, 1); got != "" {
		t.Errorf("CalendarEventLocation(1) = %q", got)
	}
	req, _ = backend.LastRequest("/calendar")
	if req.Body["range"] != DefaultCalendarRange {
		t.Errorf("range sent = %v", req.Body["range"])
	}
}

func TestTravelNeverAutoFetches(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	if c.TravelDuration() != "" || c.TravelMode() != "" {
		t.Error("travel accessors should be empty before a fetch")
	}
	if backend.Hits("/travel") != 0 {
		t.Fatal("travel accessors must not send requests")
	}

	resp := c.Travel(ctx, "Home", "Office", "transit")
	if !resp.OK() {
		t.Fatalf("Travel() outcome = %v", resp.Outcome)
	}
	if c.TravelDuration() != "27 mins" || c.TravelDistance() != "14.2 km" {
		t.Errorf("duration/distance = %q / %q", c.TravelDuration(), c.TravelDistance())
	}
	if c.TravelOrigin() != "Home" || c.TravelDestination() != "Office" || c.TravelMode() != "transit" {
		t.Errorf("route = %q -> %q by %q", c.TravelOrigin(), c.TravelDestination(), c.TravelMode())
	}
}

func TestTravelMissingDestination(t *testing.T) {
	c, _ := newClient(t)

	resp := c.Travel(context.Background(), "Home", "", "driving")
	if resp.Outcome != bridge.HTTPError(400) {
		t.Errorf("Outcome = %v, want HTTP_ERROR_400", resp.Outcome)
	}
	if !bridge.IsHTTPError(resp.Err()) {
		t.Errorf("Err() = %v, want HTTP error", resp.Err())
	}
	if c.TravelDuration() != "" || c.TravelOrigin() != "" || c.TravelMode() != "" {
		t.Errorf("travel accessors after a failed fetch = %q %q %q, want empty",
			c.TravelDuration(), c.TravelOrigin(), c.TravelMode())
	}
}

func TestAccessorsReadZeroAfterFailedFetch(t *testing.T) {
	tests := []struct {
		name string
		path string
		kind bridge.Kind
		read func(ctx context.Context, c *Client) map[string]any
	}{
		{
			name: "weather",
			path: "/weather",
			kind: bridge.KindWeather,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"temperature": c.WeatherTemperature(ctx),
					"condition":   c.WeatherCondition(ctx),
					"description": c.WeatherDescription(ctx),
					"location":    c.WeatherLocation(ctx),
				}
			},
		},
		{
			name: "forecast",
			path: "/weather/forecast",
			kind: bridge.KindForecast,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"count":    c.ForecastDayCount(ctx),
					"location": c.ForecastLocation(ctx),
					"trend":    c.ForecastTrend(ctx),
					"date":     c.ForecastDate(ctx, 0),
					"max":      c.ForecastMaxTemp(ctx, 0),
					"min on":   c.ForecastMinTempOn(ctx, "2025-03-01"),
				}
			},
		},
		{
			name: "history",
			path: "/weather/history",
			kind: bridge.KindHistory,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"count":     c.HistoryCount(ctx),
					"location":  c.HistoryLocation(ctx),
					"avg":       c.HistoryAvgTemp(ctx, 0),
					"condition": c.HistoryConditionOn(ctx, "2025-02-28"),
				}
			},
		},
		{
			name: "astronomy",
			path: "/weather/astronomy",
			kind: bridge.KindAstronomy,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"sunrise":      c.Sunrise(ctx),
					"moon phase":   c.MoonPhase(ctx),
					"illumination": c.MoonIllumination(ctx),
					"daytime":      c.IsDaytime(ctx),
				}
			},
		},
		{
			name: "stock",
			path: "/stock",
			kind: bridge.KindStock,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"price":  c.StockPrice(ctx),
					"change": c.StockChangePercent(ctx),
					"symbol": c.StockSymbol(ctx),
					"high":   c.StockDayHigh(ctx),
				}
			},
		},
		{
			name: "crypto",
			path: "/crypto",
			kind: bridge.KindCrypto,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"price":  c.CryptoPrice(ctx),
					"symbol": c.CryptoSymbol(ctx),
					"name":   c.CryptoName(ctx),
				}
			},
		},
		{
			name: "news",
			path: "/news",
			kind: bridge.KindNews,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"count":  c.NewsArticleCount(ctx),
					"title":  c.NewsArticleTitle(ctx, 0),
					"source": c.NewsArticleSource(ctx, 0),
				}
			},
		},
		{
			name: "calendar",
			path: "/calendar",
			kind: bridge.KindCalendar,
			read: func(ctx context.Context, c *Client) map[string]any {
				return map[string]any{
					"count":   c.CalendarEventCount(ctx),
					"summary": c.CalendarEventSummary(ctx, 0),
				}
			},
		},
		{
			name: "todos",
			path: "/canvas",
			kind: bridge.KindLMSTodos,
			read: func(ctx context.Context, c *Client) map[string]any {
				byIndex, _ := c.Assignment(ctx, 0)
				byID, found := c.AssignmentByID(ctx, "4102")
				return map[string]any{
					"count":    c.AssignmentCount(ctx),
					"by index": byIndex,
					"by id":    byID,
					"found":    found,
				}
			},
		},
		{
			name: "grades",
			path: "/canvas",
			kind: bridge.KindLMSGrades,
			read: func(ctx context.Context, c *Client) map[string]any {
				byIndex, _ := c.GradeSet(ctx, 0)
				byCourse, found := c.GradeSetByCourse(ctx, "Biology")
				return map[string]any{
					"count":     c.GradeSetCount(ctx),
					"by index":  byIndex,
					"by course": byCourse,
					"found":     found,
					"gpa":       c.GPAEstimate(ctx, nil),
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, backend := newClient(t)
			ctx := context.Background()
			backend.ForceStatus(tt.path, 404)

			for field, got := range tt.read(ctx, c) {
				if !reflect.ValueOf(got).IsZero() {
					t.Errorf("%s = %v, want zero value", field, got)
				}
			}

			slot, ok := c.Cached(tt.kind)
			if !ok || slot.Outcome != bridge.HTTPError(404) {
				t.Fatalf("Cached(%s) = %v, %v; want HTTP_ERROR_404", tt.kind, slot.Outcome, ok)
			}
			if slot.Data == nil {
				t.Error("cache slot should keep the error body")
			}
			if hits := backend.Hits(tt.path); hits != 1 {
				t.Errorf("Hits(%s) = %d, want 1", tt.path, hits)
			}
		})
	}
}

func TestCanvasAssignments(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	if got := c.AssignmentCount(ctx); got != 2 {
		t.Errorf("AssignmentCount() = %d", got)
	}
	a, ok := c.AssignmentByID(ctx, "4102")
	if !ok || a.Name != "Quiz 3" || a.Type != "quiz" {
		t.Errorf("AssignmentByID(4102) = %+v, %v", a, ok)
	}
	if _, ok := c.AssignmentByID(ctx, "9999"); ok {
		t.Error("unknown id should not be found")
	}
	first, ok := c.Assignment(ctx, 0)
	if !ok || first.DueAt != "2025-03-05T23:59:00Z" {
		t.Errorf("Assignment(0) = %+v, %v", first, ok)
	}
	if _, ok := c.Assignment(ctx, 5); ok {
		t.Error("out-of-range index should not be found")
	}

	req, _ := backend.LastRequest("/canvas")
	if req.Body["type"] != "todo" {
		t.Errorf("type sent = %v", req.Body["type"])
	}
	if _, ok := req.Body["domain"]; ok {
		t.Error("empty domain should be omitted")
	}
	if backend.Hits("/canvas") != 1 {
		t.Errorf("/canvas hits = %d, want 1", backend.Hits("/canvas"))
	}
}

func TestCanvasGradesAndGPA(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	g, ok := c.GradeSetByCourse(ctx, "History")
	if !ok || g.Grade != "B+" || g.NumericGrade() != 88 {
		t.Errorf("GradeSetByCourse(History) = %+v, %v", g, ok)
	}
	if got, _ := c.GradeSet(ctx, 0); got.Score != 91.2 || got.NumericGrade() != 91 {
		t.Errorf("GradeSet(0) = %+v", got)
	}

	want := (3.7 + 3.3 + 4.0) / 3
	if got := c.GPAEstimate(ctx, nil); math.Abs(got-want) > 1e-9 {
		t.Errorf("GPAEstimate(default) = %v, want %v", got, want)
	}
	if got := c.GPAEstimate(ctx, GradeScale{"A": 4, "A-": 4, "B+": 4}); got != 4 {
		t.Errorf("GPAEstimate(flat) = %v, want 4", got)
	}
	if got := c.GPAEstimate(ctx, GradeScale{"A": 4}); math.Abs(got-4.0/3) > 1e-9 {
		t.Errorf("GPAEstimate(unknown letters as F) = %v", got)
	}

	if backend.Hits("/canvas") != 1 {
		t.Errorf("/canvas hits = %d, want 1", backend.Hits("/canvas"))
	}
	if _, populated := c.Cached(bridge.KindLMSTodos); populated {
		t.Error("grades must not fill the to-do slot")
	}
}

func TestGradeScalePoints(t *testing.T) {
	scale := DefaultGradeScale()
	tests := []struct {
		letter string
		want   float64
	}{
		{"A+", 4.0}, {"A-", 3.7}, {"B", 3.0}, {"C-", 1.7}, {"D-", 0.7}, {"F", 0}, {"P", 0},
	}
	for _, tt := range tests {
		if got := scale.Points(tt.letter); got != tt.want {
			t.Errorf("Points(%q) = %v, want %v", tt.letter, got, tt.want)
		}
	}
}

func TestMusicRequestsAreNotCached(t *testing.T) {
	c, backend := newClient(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		resp := c.Albums(ctx, 2, 0)
		if got := resp.Len("items"); got != 2 {
			t.Errorf("items = %d, want 2", got)
		}
	}
	if backend.Hits("/spotify/user_albums") != 2 {
		t.Errorf("/spotify/user_albums hits = %d, want 2", backend.Hits("/spotify/user_albums"))
	}

	resp := c.MusicRequest(ctx, "/me/player", "", "")
	if resp.String("method") != "GET" {
		t.Errorf("method = %q, want GET", resp.String("method"))
	}

	c.FollowedArtists(ctx, DefaultMusicLimit, "")
	req, _ := backend.LastRequest("/spotify/followed_artists")
	if _, ok := req.Body["after"]; ok {
		t.Error("empty cursor should be omitted")
	}

	if got := c.PlaybackDevices(ctx).String("devices", 0, "name"); got != "Kitchen" {
		t.Errorf("device name = %q", got)
	}
}

func TestPlaybackControl(t *testing.T) {
	c, backend := newClient(t)
	volume := 30

	resp := c.Control(context.Background(), Playback{Action: "volume", VolumePercent: &volume})
	if !resp.OK() {
		t.Fatalf("Control() outcome = %v", resp.Outcome)
	}

	req, _ := backend.LastRequest("/spotify/playback")
	if req.Body["volume_percent"] != float64(30) {
		t.Errorf("volume_percent = %v", req.Body["volume_percent"])
	}
	for _, key := range []string{"position_ms", "uri", "state", "target_device_id"} {
		if _, ok := req.Body[key]; ok {
			t.Errorf("%s should be omitted", key)
		}
	}
}

func TestFetchByKindAndReset(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	for _, kind := range []bridge.Kind{bridge.KindWeather, bridge.KindNews, bridge.KindLMSGrades} {
		if resp := c.Fetch(ctx, kind); !resp.OK() {
			t.Errorf("Fetch(%s) outcome = %v", kind, resp.Outcome)
		}
		if _, populated := c.Cached(kind); !populated {
			t.Errorf("Fetch(%s) did not populate the slot", kind)
		}
	}

	if err := c.Bridge().FactoryReset(); err != nil {
		t.Fatalf("FactoryReset() error = %v", err)
	}
	if _, populated := c.Cached(bridge.KindWeather); populated {
		t.Error("factory reset should clear the cache")
	}
}
