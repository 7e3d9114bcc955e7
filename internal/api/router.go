package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps bundles the services the router wires into the handlers.
type Deps struct {
	Player     Player
	Auth       Authenticator
	Wizard     Wizard
	System     System
	Events     EventBus
	Scan       WifiScanner
	Configured func() bool
	Online     func() bool
}

// NewRouter creates and returns the main HTTP router.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{
		player:     deps.Player,
		auth:       deps.Auth,
		wizard:     deps.Wizard,
		system:     deps.System,
		events:     deps.Events,
		scan:       deps.Scan,
		configured: deps.Configured,
		online:     deps.Online,
		states:     newStateStore(),
	}

	// OAuth flow
	r.Get("/login", h.login)
	r.Get("/callback", h.callback)
	r.Post("/logout", h.logout)

	// Setup wizard
	r.Get("/api/setup", h.getSetup)
	r.Post("/api/setup", h.postSetup)
	r.Get("/api/setup/wifi-scan", h.wifiScan)

	// Player
	r.Get("/api/token", h.getToken)
	r.Get("/api/devices", h.getDevices)
	r.Post("/api/transfer", h.transfer)
	r.Get("/api/playback", h.getPlayback)
	r.Get("/api/now-playing", h.getNowPlaying)
	r.Post("/api/play", h.play)
	r.Post("/api/pause", h.pause)
	r.Post("/api/next", h.next)
	r.Post("/api/previous", h.previous)
	r.Post("/api/queue", h.queue)

	// Library
	r.Get("/api/search", h.search)
	r.Get("/api/playlists", h.getPlaylists)
	r.Get("/api/playlists/{id}", h.getPlaylist)
	r.Get("/api/playlists/{id}/tracks", h.getPlaylistTracks)
	r.Get("/api/albums", h.getAlbums)
	r.Get("/api/albums/{id}", h.getAlbum)
	r.Get("/api/tracks", h.getTracks)
	r.Get("/api/discover", h.getDiscover)

	// System
	r.Get("/api/info", h.getInfo)
	r.Post("/api/reboot", h.reboot)

	// SSE
	r.Get("/api/subscribe", h.sseEvents)

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
