//go:generate go run go.uber.org/mock/mockgen -source spotify.go -package spotify -destination mock.go . transport

// Package spotify describes the resources returned by the Spotify Web API.
// Field names follow the upstream's snake_case JSON and nullability.
package spotify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is used when no upstream root is configured.
const DefaultBaseURL = "https://api.spotify.com/v1"

// transport is mocked in tests to stand in for the upstream.
type transport interface {
	http.RoundTripper
}

// Image is shared by users, artists, albums and playlists.
type Image struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
	Width  *int   `json:"width"`
}

// User is returned by /me and embedded as a playlist owner.
type User struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
	Images      []Image `json:"images"`
}

// Artist is a full or simplified artist object. Simplified artists (embedded
// in tracks) omit genres, popularity and images.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity *int     `json:"popularity"`
	Images     []Image  `json:"images"`
}

// Album is a full or simplified album object.
type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ReleaseDate *string `json:"release_date"`
	TotalTracks *int    `json:"total_tracks"`
	Images      []Image `json:"images"`
}

// Track is a full track object.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DurationMS int      `json:"duration_ms"`
	PreviewURL *string  `json:"preview_url"`
	Album      Album    `json:"album"`
	Artists    []Artist `json:"artists"`
}

// PlaylistTrack wraps a track inside a playlist. Track is null for tracks
// that were removed from the catalog.
type PlaylistTrack struct {
	Track *Track `json:"track"`
}

// Playlist is a full or simplified playlist object.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Public      *bool   `json:"public"`
	Images      []Image `json:"images"`
	Owner       User    `json:"owner"`
}

// NewPlaylist is the body of a playlist creation request.
type NewPlaylist struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

// Page is the upstream's offset/limit paging object. Individual items can be
// null and Next/Previous are URLs to adjacent pages, if any.
type Page[T any] struct {
	Items    []*T    `json:"items"`
	Total    int     `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// ErrorBody is the upstream's error envelope.
type ErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Endpoints used by the gateway.
const (
	MeEndpoint           = "/me"
	MyTopArtistsEndpoint = "/me/top/artists"
	MyPlaylistsEndpoint  = "/me/playlists"
)

// ArtistEndpoint returns the path for a single artist.
func ArtistEndpoint(id string) string {
	return fmt.Sprintf("/artists/%s", segment(id))
}

// ArtistAlbumsEndpoint returns the path for an artist's albums.
func ArtistAlbumsEndpoint(id string) string {
	return fmt.Sprintf("/artists/%s/albums", segment(id))
}

// AlbumEndpoint returns the path for a single album.
func AlbumEndpoint(id string) string {
	return fmt.Sprintf("/albums/%s", segment(id))
}

// PlaylistEndpoint returns the path for a single playlist.
func PlaylistEndpoint(id string) string {
	return fmt.Sprintf("/playlists/%s", segment(id))
}

// PlaylistTracksEndpoint returns the path for a playlist's tracks.
func PlaylistTracksEndpoint(id string) string {
	return fmt.Sprintf("/playlists/%s/tracks", segment(id))
}

// UserPlaylistsEndpoint returns the path used to create a playlist for a user.
func UserPlaylistsEndpoint(userID string) string {
	return fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
}

// segment escapes id as a single path segment. Dot-only ids are
// percent-encoded so they can't be resolved as "." or "..".
func segment(id string) string {
	if id != "" && strings.Trim(id, ".") == "" {
		return strings.Repeat("%2E", len(id))
	}
	return url.PathEscape(id)
}
