// Package api implements the HTTP JSON API for SpotiPi.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
	"github.com/Vincent1Vincent2/spotipi-go/internal/spotify"
)

// Player is the interface the handlers use to drive Spotify playback.
type Player interface {
	Devices(ctx context.Context) ([]models.Device, error)
	PlaybackState(ctx context.Context) (*models.PlaybackState, error)
	CurrentlyPlaying(ctx context.Context) (*models.PlaybackState, error)
	TransferPlayback(ctx context.Context, deviceID string, play bool) error
	Play(ctx context.Context, req models.PlayRequest) error
	Pause(ctx context.Context, deviceID string) error
	Next(ctx context.Context, deviceID string) error
	Previous(ctx context.Context, deviceID string) error
	Queue(ctx context.Context, uri, deviceID string) error
	Search(ctx context.Context, query, types string, limit, offset int) (*models.SearchResults, error)
	UserPlaylists(ctx context.Context, limit, offset int) (*models.PlaylistPage, error)
	Playlist(ctx context.Context, id string) (*models.Playlist, error)
	PlaylistTracks(ctx context.Context, id string, limit, offset int) (*models.TrackPage, error)
	SavedAlbums(ctx context.Context, limit, offset int) (*models.AlbumPage, error)
	Album(ctx context.Context, id string) (*models.Album, error)
	SavedTracks(ctx context.Context, limit, offset int) (*models.TrackPage, error)
	Discover(ctx context.Context) (*models.Discover, error)
}

// Authenticator is the OAuth surface the auth handlers use.
type Authenticator interface {
	AuthURL(state string) (string, error)
	Exchange(ctx context.Context, code string) error
	Authenticated() bool
	Logout() error
	AccessToken(ctx context.Context) (string, time.Time, error)
}

// Wizard runs the first-boot setup flow.
type Wizard interface {
	AudioOptions() []models.AudioOptionView
	Run(ctx context.Context, req models.SetupRequest) (*models.SetupResult, error)
}

// System exposes appliance facts and the reboot action.
type System interface {
	Version() string
	Hostname() string
	LocalIP() string
	PiModel() string
	Kernel() string
	Reboot(ctx context.Context) error
}

// EventBus is the interface for subscribing to appliance events.
type EventBus interface {
	Subscribe(id string) <-chan models.Event
	Unsubscribe(id string)
}

// WifiScanner lists nearby WiFi networks for the setup UI.
type WifiScanner func(ctx context.Context) ([]models.WifiNetwork, error)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	player     Player
	auth       Authenticator
	wizard     Wizard
	system     System
	events     EventBus
	scan       WifiScanner
	configured func() bool
	online     func() bool

	states *stateStore
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error onto an AppError JSON response.
func writeError(w http.ResponseWriter, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = mapError(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(appErr)
}

// mapError translates Spotify client failures into API errors.
func mapError(err error) *models.AppError {
	switch {
	case errors.Is(err, spotify.ErrNotAuthenticated):
		return models.ErrUnauthorized
	case errors.Is(err, spotify.ErrNotConfigured):
		return models.ErrBadRequest("Spotify credentials not configured; run setup first")
	}
	var apiErr *spotify.APIError
	if errors.As(err, &apiErr) {
		return models.ErrUpstream(apiErr.StatusCode, apiErr.Message)
	}
	return models.ErrInternal(err.Error())
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.ErrBadRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// pathParam reads a string path parameter by name.
func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// pageParams reads limit/offset query parameters with defaults, clamped to
// the bounds the Spotify API accepts (limit 1-50, offset >= 0).
func pageParams(r *http.Request) (limit, offset int) {
	limit, offset = 20, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
