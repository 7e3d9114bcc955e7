package api

import (
	"net/http"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

func (h *Handlers) getDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.player.Devices(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": devices})
}

func (h *Handlers) getPlayback(w http.ResponseWriter, r *http.Request) {
	state, err := h.player.PlaybackState(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if state == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"is_playing": false})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) getNowPlaying(w http.ResponseWriter, r *http.Request) {
	state, err := h.player.CurrentlyPlaying(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if state == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"is_playing": false})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.DeviceID == "" {
		writeError(w, models.ErrBadRequest("device_id is required"))
		return
	}
	if err := h.player.TransferPlayback(r.Context(), req.DeviceID, req.Play); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) play(w http.ResponseWriter, r *http.Request) {
	var req models.PlayRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	if err := h.player.Play(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) pause(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Pause(r.Context(), r.URL.Query().Get("device_id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) next(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Next(r.Context(), r.URL.Query().Get("device_id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) previous(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Previous(r.Context(), r.URL.Query().Get("device_id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) queue(w http.ResponseWriter, r *http.Request) {
	var req models.QueueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.URI == "" {
		writeError(w, models.ErrBadRequest("uri is required"))
		return
	}
	if err := h.player.Queue(r.Context(), req.URI, req.DeviceID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, models.ErrBadRequest("q is required"))
		return
	}
	types := r.URL.Query().Get("type")
	if types == "" {
		types = "track,album,artist,playlist"
	}
	limit, offset := pageParams(r)
	results, err := h.player.Search(r.Context(), query, types, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handlers) getPlaylists(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.player.UserPlaylists(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getPlaylist(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, models.ErrBadRequest("missing playlist id"))
		return
	}
	playlist, err := h.player.Playlist(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (h *Handlers) getPlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, models.ErrBadRequest("missing playlist id"))
		return
	}
	limit, offset := pageParams(r)
	page, err := h.player.PlaylistTracks(r.Context(), id, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getAlbums(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.player.SavedAlbums(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getAlbum(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, models.ErrBadRequest("missing album id"))
		return
	}
	album, err := h.player.Album(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *Handlers) getTracks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.player.SavedTracks(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) getDiscover(w http.ResponseWriter, r *http.Request) {
	discover, err := h.player.Discover(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, discover)
}
