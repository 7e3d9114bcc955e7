package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

const stateTTL = 10 * time.Minute

// stateStore tracks outstanding OAuth state tokens so the callback can
// reject forged redirects.
type stateStore struct {
	mu     sync.Mutex
	issued map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{issued: make(map[string]time.Time)}
}

func (s *stateStore) issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for state, at := range s.issued {
		if now.Sub(at) > stateTTL {
			delete(s.issued, state)
		}
	}
	state := uuid.New().String()
	s.issued[state] = now
	return state
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.issued[state]
	if !ok {
		return false
	}
	delete(s.issued, state)
	return time.Since(at) <= stateTTL
}

// login redirects the browser to the Spotify authorization page.
func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	url, err := h.auth.AuthURL(h.states.issue())
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// callback finishes the authorization-code exchange and stores the token.
func (h *Handlers) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		writeError(w, models.ErrBadRequest("authorization denied: "+errParam))
		return
	}
	if !h.states.consume(q.Get("state")) {
		writeError(w, models.ErrBadRequest("state mismatch; restart the login flow"))
		return
	}
	code := q.Get("code")
	if code == "" {
		writeError(w, models.ErrBadRequest("missing authorization code"))
		return
	}
	if err := h.auth.Exchange(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// logout discards the stored Spotify token.
func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// getToken hands the current access token to the web playback SDK.
func (h *Handlers) getToken(w http.ResponseWriter, r *http.Request) {
	token, expiry, err := h.auth.AccessToken(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"expires_at":   expiry.Unix(),
	})
}
