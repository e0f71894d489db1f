package resources

import (
	"context"

	"github.com/Cgriz365/inkbridge/internal/bridge"
)

// DefaultPriceHistoryDays is the history length for array fetches.
const DefaultPriceHistoryDays = 7

// Stock fetches a quote. Stock and StockArray share one cache slot.
func (c *Client) Stock(ctx context.Context, symbol string) bridge.Response {
	return c.fetch(ctx, bridge.KindStock, "/stock", c.bridge.NewBody().SetString("symbol", symbol))
}

// StockArray fetches a quote with days of price history.
func (c *Client) StockArray(ctx context.Context, symbol string, days int) bridge.Response {
	body := c.bridge.NewBody().SetString("symbol", symbol).Set("days", days)
	return c.fetch(ctx, bridge.KindStock, "/stock/array", body)
}

func (c *Client) stock(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindStock, "/stock", func(b bridge.Body) bridge.Body { return b })
}

func (c *Client) StockPrice(ctx context.Context) float64 {
	return c.stock(ctx).Float("price")
}

func (c *Client) StockChangePercent(ctx context.Context) float64 {
	return c.stock(ctx).Float("change_percent")
}

func (c *Client) StockSymbol(ctx context.Context) string {
	return c.stock(ctx).String("symbol")
}

func (c *Client) StockDayHigh(ctx context.Context) float64 {
	return c.stock(ctx).Float("day_high")
}

func (c *Client) StockDayLow(ctx context.Context) float64 {
	return c.stock(ctx).Float("day_low")
}

// Crypto fetches a coin quote. Crypto and CryptoArray share one cache slot.
func (c *Client) Crypto(ctx context.Context, symbol string) bridge.Response {
	return c.fetch(ctx, bridge.KindCrypto, "/crypto", c.bridge.NewBody().SetString("symbol", symbol))
}

func (c *Client) CryptoArray(ctx context.Context, symbol string, days int) bridge.Response {
	body := c.bridge.NewBody().SetString("symbol", symbol).Set("days", days)
	return c.fetch(ctx, bridge.KindCrypto, "/crypto/array", body)
}

func (c *Client) crypto(ctx context.Context) bridge.Response {
	return c.cached(ctx, bridge.KindCrypto, "/crypto", func(b bridge.Body) bridge.Body { return b })
}

func (c *Client) CryptoPrice(ctx context.Context) float64 {
	return c.crypto(ctx).Float("price")
}

func (c *Client) CryptoChangePercent(ctx context.Context) float64 {
	return c.crypto(ctx).Float("change_percent")
}

func (c *Client) CryptoSymbol(ctx context.Context) string {
	return c.crypto(ctx).String("symbol")
}

func (c *Client) CryptoName(ctx context.Context) string {
	return c.crypto(ctx).String("name")
}
