package spotify

import "github.com/Vincent1Vincent2/spotipi-go/internal/models"

// Wire types for the handful of Spotify responses whose shape differs from
// our own models. Everything else (devices, playback state, tracks, albums)
// decodes straight into the models package, whose JSON tags follow the
// Spotify wire format.

type devicesResponse struct {
	Devices []models.Device `json:"devices"`
}

type pageMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type playlistJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
	Images []models.Image `json:"images"`
	URI    string         `json:"uri"`
}

func (p playlistJSON) toModel() models.Playlist {
	return models.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner.DisplayName,
		TrackCount:  p.Tracks.Total,
		Images:      p.Images,
		URI:         p.URI,
	}
}

func playlistsToModel(items []playlistJSON) []models.Playlist {
	out := make([]models.Playlist, len(items))
	for i, p := range items {
		out[i] = p.toModel()
	}
	return out
}

type playlistPageJSON struct {
	pageMeta
	Items []playlistJSON `json:"items"`
}

type savedTrackJSON struct {
	AddedAt string       `json:"added_at"`
	Track   models.Track `json:"track"`
}

type savedAlbumJSON struct {
	AddedAt string       `json:"added_at"`
	Album   models.Album `json:"album"`
}

type playlistTrackJSON struct {
	AddedAt string       `json:"added_at"`
	Track   models.Track `json:"track"`
}

type searchResponse struct {
	Tracks *struct {
		Items []models.Track `json:"items"`
	} `json:"tracks"`
	Albums *struct {
		Items []models.Album `json:"items"`
	} `json:"albums"`
	Artists *struct {
		Items []models.Artist `json:"items"`
	} `json:"artists"`
	Playlists *struct {
		Items []playlistJSON `json:"items"`
	} `json:"playlists"`
}

type apiErrorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
