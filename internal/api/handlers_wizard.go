package api

import (
	"fmt"
	"net/http"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

// getSetup returns the data the setup page needs: the audio output options
// and a redirect URI default built from the appliance's LAN address.
func (h *Handlers) getSetup(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"configured":           h.configured(),
		"audio_options":        h.wizard.AudioOptions(),
		"default_redirect_uri": fmt.Sprintf("http://%s:8000/callback", h.system.LocalIP()),
	})
}

// postSetup runs the wizard with the submitted settings.
func (h *Handlers) postSetup(w http.ResponseWriter, r *http.Request) {
	var req models.SetupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.wizard.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// wifiScan lists nearby networks for the setup page.
func (h *Handlers) wifiScan(w http.ResponseWriter, r *http.Request) {
	networks, err := h.scan(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"networks": networks})
}
