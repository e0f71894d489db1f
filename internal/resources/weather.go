package resources

import (
	"context"

	"github.com/Cgriz365/inkbridge/internal/bridge"
)

// DefaultForecastDays is the forecast length used when accessors fetch on demand.
const DefaultForecastDays = 3

// Weather fetches current conditions. An empty location lets the backend pick the
// account default.
func (c *Client) Weather(ctx context.Context, location string) bridge.Response {
	return c.fetch(ctx, bridge.KindWeather, "/weather", c.bridge.NewBody().SetString("location", location))
}

func (c *Client) weather(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindWeather, "/weather", func(b bridge.Body) bridge.Body { return b })
}

func (c *Client) WeatherTemperature(ctx context.Context) float64 {
	return c.weather(ctx).Float("temperature")
}

func (c *Client) WeatherCondition(ctx context.Context) string {
	return c.weather(ctx).String("condition")
}

func (c *Client) WeatherDescription(ctx context.Context) string {
	return c.weather(ctx).String("description")
}

func (c *Client) WeatherLocation(ctx context.Context) string {
	return c.weather(ctx).String("location")
}

// Forecast fetches a daily forecast of days entries.
func (c *Client) Forecast(ctx context.Context, location string, days int) bridge.Response {
	body := c.bridge.NewBody().SetString("location", location).Set("days", days)
	return c.fetch(ctx, bridge.KindForecast, "/weather/forecast", body)
}

func (c *Client) forecast(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindForecast, "/weather/forecast", func(b bridge.Body) bridge.Body {
		return b.Set("days", DefaultForecastDays)
	})
}

// ForecastDayCount returns the number of forecast entries.
func (c *Client) ForecastDayCount(ctx context.Context) int {
	return c.forecast(ctx).Len("forecast")
}

func (c *Client) ForecastLocation(ctx context.Context) string {
	return c.forecast(ctx).String("location")
}

func (c *Client) ForecastTrend(ctx context.Context) string {
	return c.forecast(ctx).String("trend")
}

func (c *Client) ForecastDate(ctx context.Context, index int) string {
	return c.forecast(ctx).String("forecast", index, "date")
}

func (c *Client) ForecastMinTemp(ctx context.Context, index int) string {
	return c.forecast(ctx).String("forecast", index, "min_temp")
}

func (c *Client) ForecastMaxTemp(ctx context.Context, index int) string {
	return c.forecast(ctx).String("forecast", index, "max_temp")
}

func (c *Client) ForecastCondition(ctx context.Context, index int) string {
	return c.forecast(ctx).String("forecast", index, "condition")
}

// forecastOn returns the forecast entry dated date (YYYY-MM-DD).
func (c *Client) forecastOn(ctx context.Context, date string) any {
	return bridge.FindBy(c.forecast(ctx).Get("forecast"), "date", date)
}

func (c *Client) ForecastMinTempOn(ctx context.Context, date string) string {
	return bridge.String(bridge.ByKey(c.forecastOn(ctx, date), "min_temp"))
}

func (c *Client) ForecastMaxTempOn(ctx context.Context, date string) string {
	return bridge.String(bridge.ByKey(c.forecastOn(ctx, date), "max_temp"))
}

func (c *Client) ForecastConditionOn(ctx context.Context, date string) string {
	return bridge.String(bridge.ByKey(c.forecastOn(ctx, date), "condition"))
}

// History fetches past daily observations. An empty date lets the backend choose the
// range.
func (c *Client) History(ctx context.Context, location, date string) bridge.Response {
	body := c.bridge.NewBody().SetString("location", location).SetString("date", date)
	return c.fetch(ctx, bridge.KindHistory, "/weather/history", body)
}

func (c *Client) history(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindHistory, "/weather/history", func(b bridge.Body) bridge.Body { return b })
}

func (c *Client) HistoryCount(ctx context.Context) int {
	return c.history(ctx).Len("history")
}

func (c *Client) HistoryLocation(ctx context.Context) string {
	return c.history(ctx).String("location")
}

func (c *Client) HistoryTrend(ctx context.Context) string {
	return c.history(ctx).String("trend")
}

func (c *Client) HistoryDate(ctx context.Context, index int) string {
	return c.history(ctx).String("history", index, "date")
}

func (c *Client) HistoryAvgTemp(ctx context.Context, index int) string {
	return c.history(ctx).String("history", index, "avg_temp")
}

func (c *Client) HistoryCondition(ctx context.Context, index int) string {
	return c.history(ctx).String("history", index, "condition")
}

func (c *Client) HistoryAvgTempOn(ctx context.Context, date string) string {
	day := bridge.FindBy(c.history(ctx).Get("history"), "date", date)
	return bridge.String(bridge.ByKey(day, "avg_temp"))
}

func (c *Client) HistoryConditionOn(ctx context.Context, date string) string {
	day := bridge.FindBy(c.history(ctx).Get("history"), "date", date)
	return bridge.String(bridge.ByKey(day, "condition"))
}

// Astronomy fetches sun and moon times.
func (c *Client) Astronomy(ctx context.Context, location string) bridge.Response {
	return c.fetch(ctx, bridge.KindAstronomy, "/weather/astronomy", c.bridge.NewBody().SetString("location", location))
}

func (c *Client) astronomy(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindAstronomy, "/weather/astronomy", func(b bridge.Body) bridge.Body { return b })
}

func (c *Client) Sunrise(ctx context.Context) string {
	return c.astronomy(ctx).String("sunrise")
}

func (c *Client) Sunset(ctx context.Context) string {
	return c.astronomy(ctx).String("sunset")
}

func (c *Client) Moonrise(ctx context.Context) string {
	return c.astronomy(ctx).String("moonrise")
}

func (c *Client) Moonset(ctx context.Context) string {
	return c.astronomy(ctx).String("moonset")
}

func (c *Client) AstronomyLocation(ctx context.Context) string {
	return c.astronomy(ctx).String("location")
}

func (c *Client) MoonPhase(ctx context.Context) string {
	return c.astronomy(ctx).String("moon_phase")
}

// MoonIllumination returns the lit fraction of the moon in percent.
func (c *Client) MoonIllumination(ctx context.Context) int {
	return c.astronomy(ctx).Int("moon_illumination")
}

func (c *Client) IsDaytime(ctx context.Context) bool {
	return c.astronomy(ctx).Bool("is_daytime")
}
