package spotify

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Vincent1Vincent2/spotipi-go/internal/models"
)

// Search queries the Spotify catalog. types is a comma-separated list of
// item types ("track,album,artist,playlist").
func (c *Client) Search(ctx context.Context, query, types string, limit, offset int) (*models.SearchResults, error) {
	if types == "" {
		types = "track"
	}
	q := pageQuery(limit, offset)
	q.Set("q", query)
	q.Set("type", types)

	var resp searchResponse
	if err := c.doRequest(ctx, http.MethodGet, "/search", q, nil, &resp); err != nil {
		return nil, err
	}

	results := &models.SearchResults{}
	if resp.Tracks != nil {
		results.Tracks = resp.Tracks.Items
	}
	if resp.Albums != nil {
		results.Albums = resp.Albums.Items
	}
	if resp.Artists != nil {
		results.Artists = resp.Artists.Items
	}
	if resp.Playlists != nil {
		results.Playlists = playlistsToModel(resp.Playlists.Items)
	}
	return results, nil
}

// UserPlaylists lists the operator's playlists.
func (c *Client) UserPlaylists(ctx context.Context, limit, offset int) (*models.PlaylistPage, error) {
	var resp playlistPageJSON
	if err := c.doRequest(ctx, http.MethodGet, "/me/playlists", pageQuery(limit, offset), nil, &resp); err != nil {
		return nil, err
	}
	return &models.PlaylistPage{
		Page:  models.Page{Total: resp.Total, Limit: resp.Limit, Offset: resp.Offset},
		Items: playlistsToModel(resp.Items),
	}, nil
}

// Playlist fetches one playlist by ID.
func (c *Client) Playlist(ctx context.Context, id string) (*models.Playlist, error) {
	var resp playlistJSON
	if err := c.doRequest(ctx, http.MethodGet, "/playlists/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	pl := resp.toModel()
	return &pl, nil
}

// PlaylistTracks lists the tracks of a playlist.
func (c *Client) PlaylistTracks(ctx context.Context, id string, limit, offset int) (*models.TrackPage, error) {
	var resp struct {
		pageMeta
		Items []playlistTrackJSON `json:"items"`
	}
	path := "/playlists/" + url.PathEscape(id) + "/tracks"
	if err := c.doRequest(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &resp); err != nil {
		return nil, err
	}
	page := &models.TrackPage{Page: models.Page{Total: resp.Total, Limit: resp.Limit, Offset: resp.Offset}}
	for _, item := range resp.Items {
		page.Items = append(page.Items, item.Track)
	}
	return page, nil
}

// SavedAlbums lists the operator's saved albums.
func (c *Client) SavedAlbums(ctx context.Context, limit, offset int) (*models.AlbumPage, error) {
	var resp struct {
		pageMeta
		Items []savedAlbumJSON `json:"items"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/me/albums", pageQuery(limit, offset), nil, &resp); err != nil {
		return nil, err
	}
	page := &models.AlbumPage{Page: models.Page{Total: resp.Total, Limit: resp.Limit, Offset: resp.Offset}}
	for _, item := range resp.Items {
		page.Items = append(page.Items, item.Album)
	}
	return page, nil
}

// SavedTracks lists the operator's saved tracks.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int) (*models.TrackPage, error) {
	var resp struct {
		pageMeta
		Items []savedTrackJSON `json:"items"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/me/tracks", pageQuery(limit, offset), nil, &resp); err != nil {
		return nil, err
	}
	page := &models.TrackPage{Page: models.Page{Total: resp.Total, Limit: resp.Limit, Offset: resp.Offset}}
	for _, item := range resp.Items {
		page.Items = append(page.Items, item.Track)
	}
	return page, nil
}

// Album fetches one album by ID.
func (c *Client) Album(ctx context.Context, id string) (*models.Album, error) {
	var album models.Album
	if err := c.doRequest(ctx, http.MethodGet, "/albums/"+url.PathEscape(id), nil, nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Discover gathers the browse content for the discover page: new releases
// plus featured playlists. Featured playlists are best-effort — some markets
// return 404 there, which should not blank the whole page.
func (c *Client) Discover(ctx context.Context) (*models.Discover, error) {
	var releases struct {
		Albums struct {
			Items []models.Album `json:"items"`
		} `json:"albums"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/browse/new-releases", pageQuery(24, 0), nil, &releases); err != nil {
		return nil, err
	}
	out := &models.Discover{NewReleases: releases.Albums.Items}

	var featured struct {
		Playlists struct {
			Items []playlistJSON `json:"items"`
		} `json:"playlists"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/browse/featured-playlists", pageQuery(24, 0), nil, &featured); err == nil {
		out.Featured = playlistsToModel(featured.Playlists.Items)
	}
	return out, nil
}
