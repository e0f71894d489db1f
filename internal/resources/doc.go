// Package resources exposes the backend's domain endpoints as typed fetches and field
// accessors on top of a registered bridge.
//
// Every domain has an explicit fetch that sends the request and overwrites that domain's
// cache slot:
//
//	c := resources.New(b)
//	c.Weather(ctx, "Paris")
//	temp := c.WeatherTemperature(ctx)
//
// Field accessors read the slot, fetching with default parameters first when it is
// empty. Travel accessors never fetch, because a route has no sensible default. Music
// requests are never cached.
package resources
