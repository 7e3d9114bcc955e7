// Package models defines the shared request/response types and error model
// used across the SpotiPi daemon.
package models

// Device is a Spotify Connect playback device.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent int    `json:"volume_percent"`
}

// Image is an image resource (album art, playlist cover).
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist is a simplified Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album is a simplified Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date,omitempty"`
	TotalTracks int      `json:"total_tracks,omitempty"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// Track is a Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Explicit   bool     `json:"explicit"`
	URI        string   `json:"uri"`
}

// Playlist is a simplified Spotify playlist.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Owner       string  `json:"owner"`
	TrackCount  int     `json:"track_count"`
	Images      []Image `json:"images"`
	URI         string  `json:"uri"`
}

// PlaybackState is the current playback snapshot for a device.
// A nil PlaybackState means nothing is playing anywhere.
type PlaybackState struct {
	Device       *Device `json:"device,omitempty"`
	IsPlaying    bool    `json:"is_playing"`
	ShuffleState bool    `json:"shuffle_state"`
	RepeatState  string  `json:"repeat_state,omitempty"`
	ProgressMS   int     `json:"progress_ms"`
	Item         *Track  `json:"item,omitempty"`
}

// PlayRequest starts or resumes playback.
type PlayRequest struct {
	DeviceID   string   `json:"device_id,omitempty"`
	ContextURI string   `json:"context_uri,omitempty"`
	URIs       []string `json:"uris,omitempty"`
	// Offset is a position within ContextURI; nil means "from the start".
	Offset *int `json:"offset,omitempty"`
}

// TransferRequest moves playback to another device.
type TransferRequest struct {
	DeviceID string `json:"device_id"`
	Play     bool   `json:"play"`
}

// QueueRequest appends an item to the playback queue.
type QueueRequest struct {
	URI      string `json:"uri"`
	DeviceID string `json:"device_id,omitempty"`
}

// SearchResults groups search matches by type.
type SearchResults struct {
	Tracks    []Track    `json:"tracks,omitempty"`
	Albums    []Album    `json:"albums,omitempty"`
	Artists   []Artist   `json:"artists,omitempty"`
	Playlists []Playlist `json:"playlists,omitempty"`
}

// Page is pagination metadata shared by list responses.
type Page struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PlaylistPage is a paginated list of playlists.
type PlaylistPage struct {
	Page
	Items []Playlist `json:"items"`
}

// AlbumPage is a paginated list of saved albums.
type AlbumPage struct {
	Page
	Items []Album `json:"items"`
}

// TrackPage is a paginated list of tracks.
type TrackPage struct {
	Page
	Items []Track `json:"items"`
}

// Discover bundles the browse content shown on the discover page.
type Discover struct {
	NewReleases []Album    `json:"new_releases"`
	Featured    []Playlist `json:"featured"`
}
