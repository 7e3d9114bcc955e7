package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

// Devices lists the operator's available Spotify Connect devices.
func (c *Client) Devices(ctx context.Context) ([]models.Device, error) {
	var resp devicesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// PlaybackState returns the current playback snapshot, or nil when nothing
// is playing on any device.
func (c *Client) PlaybackState(ctx context.Context) (*models.PlaybackState, error) {
	var state models.PlaybackState
	err := c.doRequest(ctx, http.MethodGet, "/me/player", nil, nil, &state)
	if errors.Is(err, errNoContent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// CurrentlyPlaying returns the currently playing item, or nil when idle.
func (c *Client) CurrentlyPlaying(ctx context.Context) (*models.PlaybackState, error) {
	var state models.PlaybackState
	err := c.doRequest(ctx, http.MethodGet, "/me/player/currently-playing", nil, nil, &state)
	if errors.Is(err, errNoContent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// TransferPlayback moves playback to the given device.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	body := map[string]interface{}{
		"device_ids": []string{deviceID},
		"play":       play,
	}
	return c.doRequest(ctx, http.MethodPut, "/me/player", nil, body, nil)
}

// Play starts or resumes playback.
func (c *Client) Play(ctx context.Context, req models.PlayRequest) error {
	q := url.Values{}
	if req.DeviceID != "" {
		q.Set("device_id", req.DeviceID)
	}
	body := map[string]interface{}{}
	if req.ContextURI != "" {
		body["context_uri"] = req.ContextURI
	}
	if len(req.URIs) > 0 {
		body["uris"] = req.URIs
	}
	if req.Offset != nil {
		body["offset"] = map[string]int{"position": *req.Offset}
	}
	return c.doRequest(ctx, http.MethodPut, "/me/player/play", q, body, nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	return c.doRequest(ctx, http.MethodPut, "/me/player/pause", deviceQuery(deviceID), nil, nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context, deviceID string) error {
	return c.doRequest(ctx, http.MethodPost, "/me/player/next", deviceQuery(deviceID), nil, nil)
}

// Previous skips to the previous track.
func (c *Client) Previous(ctx context.Context, deviceID string) error {
	return c.doRequest(ctx, http.MethodPost, "/me/player/previous", deviceQuery(deviceID), nil, nil)
}

// Queue appends an item to the playback queue.
func (c *Client) Queue(ctx context.Context, uri, deviceID string) error {
	q := deviceQuery(deviceID)
	if q == nil {
		q = url.Values{}
	}
	q.Set("uri", uri)
	return c.doRequest(ctx, http.MethodPost, "/me/player/queue", q, nil, nil)
}

func deviceQuery(deviceID string) url.Values {
	if deviceID == "" {
		return nil
	}
	q := url.Values{}
	q.Set("device_id", deviceID)
	return q
}
