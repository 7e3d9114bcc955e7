package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Vincent1Vincent2/spotipi-go/internal/api"
	"github.com/Vincent1Vincent2/spotipi-go/internal/events"
	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
	"github.com/Vincent1Vincent2/spotipi-go/internal/spotify"
)

type fakePlayer struct {
	state      *models.PlaybackState
	nowPlaying *models.PlaybackState
	err        error
	lastPlay   models.PlayRequest
	pauseDev   string
	queuedURI  string
	lastLimit  int
	lastOffset int
}

func (f *fakePlayer) Devices(context.Context) ([]models.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Device{{ID: "d1", Name: "Living Room", Type: "Speaker"}}, nil
}

func (f *fakePlayer) PlaybackState(context.Context) (*models.PlaybackState, error) {
	return f.state, f.err
}

func (f *fakePlayer) CurrentlyPlaying(context.Context) (*models.PlaybackState, error) {
	return f.nowPlaying, f.err
}

func (f *fakePlayer) TransferPlayback(_ context.Context, deviceID string, play bool) error {
	return f.err
}

func (f *fakePlayer) Play(_ context.Context, req models.PlayRequest) error {
	f.lastPlay = req
	return f.err
}

func (f *fakePlayer) Pause(_ context.Context, deviceID string) error {
	f.pauseDev = deviceID
	return f.err
}

func (f *fakePlayer) Next(context.Context, string) error     { return f.err }
func (f *fakePlayer) Previous(context.Context, string) error { return f.err }

func (f *fakePlayer) Queue(_ context.Context, uri, _ string) error {
	f.queuedURI = uri
	return f.err
}

func (f *fakePlayer) Search(context.Context, string, string, int, int) (*models.SearchResults, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SearchResults{}, nil
}

func (f *fakePlayer) UserPlaylists(_ context.Context, limit, offset int) (*models.PlaylistPage, error) {
	f.lastLimit, f.lastOffset = limit, offset
	if f.err != nil {
		return nil, f.err
	}
	return &models.PlaylistPage{Items: []models.Playlist{{ID: "p1", Name: "Liked"}}}, nil
}

func (f *fakePlayer) Playlist(_ context.Context, id string) (*models.Playlist, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Playlist{ID: id, Name: "Road Trip"}, nil
}

func (f *fakePlayer) PlaylistTracks(context.Context, string, int, int) (*models.TrackPage, error) {
	return &models.TrackPage{}, f.err
}

func (f *fakePlayer) SavedAlbums(context.Context, int, int) (*models.AlbumPage, error) {
	return &models.AlbumPage{}, f.err
}

func (f *fakePlayer) Album(_ context.Context, id string) (*models.Album, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Album{ID: id, Name: "Blue Album"}, nil
}

func (f *fakePlayer) SavedTracks(context.Context, int, int) (*models.TrackPage, error) {
	return &models.TrackPage{}, f.err
}

func (f *fakePlayer) Discover(context.Context) (*models.Discover, error) {
	return &models.Discover{}, f.err
}

type fakeAuth struct {
	authd    bool
	exchErr  error
	lastCode string
}

func (f *fakeAuth) AuthURL(state string) (string, error) {
	return "https://accounts.spotify.com/authorize?state=" + state, nil
}

func (f *fakeAuth) Exchange(_ context.Context, code string) error {
	f.lastCode = code
	return f.exchErr
}

func (f *fakeAuth) Authenticated() bool { return f.authd }
func (f *fakeAuth) Logout() error       { return nil }

func (f *fakeAuth) AccessToken(context.Context) (string, time.Time, error) {
	if !f.authd {
		return "", time.Time{}, spotify.ErrNotAuthenticated
	}
	return "tok-123", time.Now().Add(time.Hour), nil
}

type fakeWizard struct {
	lastReq models.SetupRequest
	err     error
}

func (f *fakeWizard) AudioOptions() []models.AudioOptionView {
	return []models.AudioOptionView{{Value: "analog", Name: "Analog (3.5mm jack)"}}
}

func (f *fakeWizard) Run(_ context.Context, req models.SetupRequest) (*models.SetupResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.SetupResult{Configured: true}, nil
}

type fakeSystem struct{ rebooted bool }

func (f *fakeSystem) Version() string  { return "test" }
func (f *fakeSystem) Hostname() string { return "spotipi-test" }
func (f *fakeSystem) LocalIP() string  { return "192.168.1.50" }
func (f *fakeSystem) PiModel() string  { return "Raspberry Pi 4 Model B" }
func (f *fakeSystem) Kernel() string   { return "6.6.0" }

func (f *fakeSystem) Reboot(context.Context) error {
	f.rebooted = true
	return nil
}

type testEnv struct {
	player *fakePlayer
	auth   *fakeAuth
	wizard *fakeWizard
	system *fakeSystem
	bus    *events.Bus
	srv    *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		player: &fakePlayer{},
		auth:   &fakeAuth{authd: true},
		wizard: &fakeWizard{},
		system: &fakeSystem{},
		bus:    events.NewBus(),
	}
	router := api.NewRouter(api.Deps{
		Player: env.player,
		Auth:   env.auth,
		Wizard: env.wizard,
		System: env.system,
		Events: env.bus,
		Scan: func(context.Context) ([]models.WifiNetwork, error) {
			return []models.WifiNetwork{{SSID: "HomeNet", Signal: 80, Encrypted: true}}, nil
		},
		Configured: func() bool { return true },
		Online:     func() bool { return true },
	})
	env.srv = httptest.NewServer(router)
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(e.srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestGetDevices(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/devices")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Devices []models.Device `json:"devices"`
	}
	decodeBody(t, resp, &body)
	if len(body.Devices) != 1 || body.Devices[0].Name != "Living Room" {
		t.Errorf("devices = %+v", body.Devices)
	}
}

func TestGetPlayback_Idle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/playback")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if playing, _ := body["is_playing"].(bool); playing {
		t.Errorf("idle playback = %v", body)
	}
}

func TestGetNowPlaying(t *testing.T) {
	env := newTestEnv(t)
	env.player.nowPlaying = &models.PlaybackState{
		IsPlaying: true,
		Item:      &models.Track{ID: "t1", Name: "Song"},
	}

	resp := env.get(t, "/api/now-playing")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var state models.PlaybackState
	decodeBody(t, resp, &state)
	if !state.IsPlaying || state.Item == nil || state.Item.ID != "t1" {
		t.Errorf("state = %+v", state)
	}
}

func TestGetNowPlaying_Idle(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/now-playing")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	if playing, _ := body["is_playing"].(bool); playing {
		t.Errorf("idle now-playing = %v", body)
	}
}

func TestGetPlaylistByID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/playlists/p42")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var playlist models.Playlist
	decodeBody(t, resp, &playlist)
	if playlist.ID != "p42" || playlist.Name != "Road Trip" {
		t.Errorf("playlist = %+v", playlist)
	}
}

func TestGetAlbumByID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/albums/a7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var album models.Album
	decodeBody(t, resp, &album)
	if album.ID != "a7" || album.Name != "Blue Album" {
		t.Errorf("album = %+v", album)
	}
}

func TestPageParamsClamped(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 20, 0},
		{"negative", "?limit=-5&offset=-3", 1, 0},
		{"oversized", "?limit=500&offset=10", 50, 10},
		{"zero limit", "?limit=0", 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.get(t, "/api/playlists"+tc.query)
			resp.Body.Close()
			if env.player.lastLimit != tc.wantLimit || env.player.lastOffset != tc.wantOffset {
				t.Errorf("forwarded limit=%d offset=%d, want %d/%d",
					env.player.lastLimit, env.player.lastOffset, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestPlay_ForwardsRequest(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/play", `{"context_uri":"spotify:playlist:abc","device_id":"d1"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.player.lastPlay.ContextURI != "spotify:playlist:abc" || env.player.lastPlay.DeviceID != "d1" {
		t.Errorf("lastPlay = %+v", env.player.lastPlay)
	}
}

func TestQueue_RequiresURI(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/queue", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var appErr models.AppError
	decodeBody(t, resp, &appErr)
	if appErr.Code != "BAD_REQUEST" {
		t.Errorf("error = %+v", appErr)
	}
}

func TestUnauthenticatedMapsTo401(t *testing.T) {
	env := newTestEnv(t)
	env.player.err = spotify.ErrNotAuthenticated

	resp := env.get(t, "/api/devices")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	var appErr models.AppError
	decodeBody(t, resp, &appErr)
	if appErr.Code != "UNAUTHORIZED" {
		t.Errorf("error = %+v", appErr)
	}
}

func TestUpstreamErrorKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	env.player.err = &spotify.APIError{StatusCode: 429, Message: "rate limited"}

	resp := env.get(t, "/api/devices")
	if resp.StatusCode != 429 {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	var appErr models.AppError
	decodeBody(t, resp, &appErr)
	if appErr.Code != "SPOTIFY_API" || appErr.Message != "rate limited" {
		t.Errorf("error = %+v", appErr)
	}
}

func TestGetSetup(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/setup")
	var body struct {
		Configured         bool                     `json:"configured"`
		AudioOptions       []models.AudioOptionView `json:"audio_options"`
		DefaultRedirectURI string                   `json:"default_redirect_uri"`
	}
	decodeBody(t, resp, &body)
	if !body.Configured || len(body.AudioOptions) == 0 {
		t.Errorf("setup = %+v", body)
	}
	if body.DefaultRedirectURI != "http://192.168.1.50:8000/callback" {
		t.Errorf("default_redirect_uri = %q", body.DefaultRedirectURI)
	}
}

func TestPostSetup(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/setup", `{"client_id":"id","client_secret":"sec","redirect_uri":"http://x/callback","audio_output":"analog"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var result models.SetupResult
	decodeBody(t, resp, &result)
	if !result.Configured {
		t.Errorf("result = %+v", result)
	}
	if env.wizard.lastReq.ClientID != "id" || env.wizard.lastReq.AudioOutput != "analog" {
		t.Errorf("wizard request = %+v", env.wizard.lastReq)
	}
}

func TestPostSetup_ValidationError(t *testing.T) {
	env := newTestEnv(t)
	appErr := models.ErrBadRequest("client_id is required")
	appErr.Field = "client_id"
	env.wizard.err = appErr

	resp := env.post(t, "/api/setup", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var got models.AppError
	decodeBody(t, resp, &got)
	if got.Field != "client_id" {
		t.Errorf("error = %+v", got)
	}
}

func TestWifiScan(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/setup/wifi-scan")
	var body struct {
		Networks []models.WifiNetwork `json:"networks"`
	}
	decodeBody(t, resp, &body)
	if len(body.Networks) != 1 || body.Networks[0].SSID != "HomeNet" {
		t.Errorf("networks = %+v", body.Networks)
	}
}

func TestGetInfo(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/info")
	var info models.Info
	decodeBody(t, resp, &info)
	if info.Hostname != "spotipi-test" || info.LocalIP != "192.168.1.50" || !info.Online {
		t.Errorf("info = %+v", info)
	}
}

func TestReboot(t *testing.T) {
	env := newTestEnv(t)

	resp := env.post(t, "/api/reboot", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	if !env.system.rebooted {
		t.Error("reboot not invoked")
	}
}

func TestGetToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/token")
	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	decodeBody(t, resp, &body)
	if body.AccessToken != "tok-123" || body.ExpiresAt == 0 {
		t.Errorf("token = %+v", body)
	}
}

func TestLoginRedirectsWithState(t *testing.T) {
	env := newTestEnv(t)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(env.srv.URL + "/login")
	if err != nil {
		t.Fatalf("GET /login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.Contains(loc, "accounts.spotify.com") || !strings.Contains(loc, "state=") {
		t.Errorf("Location = %q", loc)
	}
}

func TestCallback_RejectsUnknownState(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/callback?code=abc&state=forged")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
	if env.auth.lastCode != "" {
		t.Error("Exchange called despite forged state")
	}
}

func TestCallback_ExchangesValidState(t *testing.T) {
	env := newTestEnv(t)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(env.srv.URL + "/login")
	if err != nil {
		t.Fatalf("GET /login: %v", err)
	}
	resp.Body.Close()
	loc := resp.Header.Get("Location")
	state := loc[strings.Index(loc, "state=")+len("state="):]

	resp2, err := client.Get(env.srv.URL + "/callback?code=authcode&state=" + state)
	if err != nil {
		t.Fatalf("GET /callback: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusFound {
		t.Errorf("status = %d, want 302", resp2.StatusCode)
	}
	if env.auth.lastCode != "authcode" {
		t.Errorf("exchanged code = %q", env.auth.lastCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodOptions, env.srv.URL+"/api/devices", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS headers")
	}
}

func TestSSEStreamsEvents(t *testing.T) {
	env := newTestEnv(t)
	env.auth.authd = false // skip the initial snapshot

	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/api/subscribe", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		t.Fatalf("GET /api/subscribe: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	// Wait for the subscription to register, then publish.
	for i := 0; i < 100 && env.bus.SubscriberCount() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	online := true
	env.bus.Publish(models.Event{Type: "online", Online: &online})

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev models.Event
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("bad SSE payload %q: %v", line, err)
		}
		if ev.Type != "online" || ev.Online == nil || !*ev.Online {
			t.Errorf("event = %+v", ev)
		}
		return
	}
	t.Fatal("no SSE event received")
}
