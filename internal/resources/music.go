package resources

import (
	"context"

	"github.com/Cgriz365/inkbridge/internal/bridge"
)

// Default page size for music listings.
const DefaultMusicLimit = 5

// MusicRequest proxies an arbitrary call to the music service. An empty method means GET.
func (c *Client) MusicRequest(ctx context.Context, endpoint, method, body string) bridge.Response {
	if method == "" {
		method = bridge.MethodGet
	}
	b := c.bridge.NewBody().
		Set("endpoint", endpoint).
		Set("method", method).
		SetString("body", body)
	return c.bridge.Post(ctx, "/spotify/request", b)
}

func (c *Client) musicPage(ctx context.Context, endpoint string, limit, offset int) bridge.Response {
	b := c.bridge.NewBody().Set("limit", limit).Set("offset", offset)
	return c.bridge.Post(ctx, endpoint, b)
}

func (c *Client) Albums(ctx context.Context, limit, offset int) bridge.Response {
	return c.musicPage(ctx, "/spotify/user_albums", limit, offset)
}

func (c *Client) Playlists(ctx context.Context, limit, offset int) bridge.Response {
	return c.musicPage(ctx, "/spotify/user_playlists", limit, offset)
}

func (c *Client) LikedSongs(ctx context.Context, limit, offset int) bridge.Response {
	return c.musicPage(ctx, "/spotify/liked_songs", limit, offset)
}

// FollowedArtists pages by cursor; after is the last artist id of the previous page.
func (c *Client) FollowedArtists(ctx context.Context, limit int, after string) bridge.Response {
	b := c.bridge.NewBody().Set("limit", limit).SetString("after", after)
	return c.bridge.Post(ctx, "/spotify/followed_artists", b)
}

// PlaybackDevices lists the devices that can play music.
func (c *Client) PlaybackDevices(ctx context.Context) bridge.Response {
	return c.bridge.Post(ctx, "/spotify/devices", c.bridge.NewBody())
}

// Playback is a playback control command. Nil and empty fields are not sent.
type Playback struct {
	Action         string // play, pause, next, previous, volume, seek, shuffle, repeat
	URI            string
	VolumePercent  *int
	PositionMS     *int
	State          string
	TargetDeviceID string
}

// Control sends a playback command.
func (c *Client) Control(ctx context.Context, p Playback) bridge.Response {
	b := c.bridge.NewBody().
		Set("action", p.Action).
		SetString("uri", p.URI).
		SetIf(p.VolumePercent != nil, "volume_percent", deref(p.VolumePercent)).
		SetIf(p.PositionMS != nil, "position_ms", deref(p.PositionMS)).
		SetString("state", p.State).
		SetString("target_device_id", p.TargetDeviceID)
	return c.bridge.Post(ctx, "/spotify/playback", b)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
