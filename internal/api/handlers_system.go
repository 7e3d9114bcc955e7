package api

import (
	"net/http"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

// getInfo returns appliance information for the UI footer and diagnostics.
func (h *Handlers) getInfo(w http.ResponseWriter, r *http.Request) {
	info := models.Info{
		Version:    h.system.Version(),
		Hostname:   h.system.Hostname(),
		LocalIP:    h.system.LocalIP(),
		PiModel:    h.system.PiModel(),
		Kernel:     h.system.Kernel(),
		Configured: h.configured(),
		Online:     h.online(),
	}
	writeJSON(w, http.StatusOK, info)
}

// reboot restarts the appliance, typically after the wizard changed the
// boot configuration.
func (h *Handlers) reboot(w http.ResponseWriter, r *http.Request) {
	if err := h.system.Reboot(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "rebooting"})
}
