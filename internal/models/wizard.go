package models

// AudioOptionView is an audio output choice as presented to the setup UI.
type AudioOptionView struct {
	Value       string `json:"value"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SetupRequest carries everything the first-boot wizard collects in one POST.
type SetupRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
	AudioOutput  string `json:"audio_output"`
	WifiSSID     string `json:"wifi_ssid,omitempty"`
	WifiPassword string `json:"wifi_password,omitempty"`
	SkipWifi     bool   `json:"skip_wifi,omitempty"`
}

// StepResult is the outcome of one wizard step. Non-fatal steps report
// OK=false with a message instead of aborting the whole flow.
type StepResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// SetupResult is the aggregate outcome of a wizard run.
type SetupResult struct {
	Configured bool         `json:"configured"`
	Steps      []StepResult `json:"steps"`
}

// WifiNetwork is one network found by a WiFi scan.
type WifiNetwork struct {
	SSID      string `json:"ssid"`
	Signal    int    `json:"signal"` // 0-100
	Encrypted bool   `json:"encrypted"`
}

// Info is the system information returned by /api/info.
type Info struct {
	Version    string `json:"version"`
	Hostname   string `json:"hostname"`
	LocalIP    string `json:"local_ip"`
	PiModel    string `json:"pi_model,omitempty"`
	Kernel     string `json:"kernel,omitempty"`
	Configured bool   `json:"configured"`
	Online     bool   `json:"online"`
}

// Event is a server-sent event pushed to subscribed UIs.
type Event struct {
	Type     string         `json:"type"` // "playback" or "online"
	Playback *PlaybackState `json:"playback,omitempty"`
	Online   *bool          `json:"online,omitempty"`
}
