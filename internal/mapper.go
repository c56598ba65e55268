package internal

import (
	"github.com/dcoutinho96/spotify-gateway/spotify"
)

// The types below are the GraphQL-facing shapes. graphql-go resolves their
// fields by json tag.

// User is a GraphQL User.
type User struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	Images      []spotify.Image `json:"images"`
}

// Album is a GraphQL Album.
type Album struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ReleaseDate *string         `json:"releaseDate"`
	TotalTracks *int            `json:"totalTracks"`
	Images      []spotify.Image `json:"images"`
}

// Artist is a GraphQL Artist. Its albums are resolved separately.
type Artist struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Genres     []string        `json:"genres"`
	Popularity *int            `json:"popularity"`
	Images     []spotify.Image `json:"images"`
}

// Track is a GraphQL Track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	DurationMs int      `json:"durationMs"`
	PreviewURL *string  `json:"previewUrl"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

// Playlist is a GraphQL Playlist. Its tracks are resolved separately.
type Playlist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Public      *bool           `json:"public"`
	Images      []spotify.Image `json:"images"`
	Owner       User            `json:"owner"`
}

func mapUser(u spotify.User) User {
	return User{
		ID:          u.ID,
		DisplayName: valueOr(u.DisplayName, ""),
		Images:      images(u.Images),
	}
}

func mapAlbum(a spotify.Album) Album {
	return Album{
		ID:          a.ID,
		Name:        a.Name,
		ReleaseDate: a.ReleaseDate,
		TotalTracks: a.TotalTracks,
		Images:      images(a.Images),
	}
}

func mapArtist(a spotify.Artist) Artist {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return Artist{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     genres,
		Popularity: a.Popularity,
		Images:     images(a.Images),
	}
}

func mapTrack(t spotify.Track) Track {
	artists := make([]Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, mapArtist(a))
	}
	return Track{
		ID:         t.ID,
		Name:       t.Name,
		DurationMs: t.DurationMS,
		PreviewURL: t.PreviewURL,
		Artists:    artists,
		Album:      mapAlbum(t.Album),
	}
}

func mapPlaylist(p spotify.Playlist) Playlist {
	return Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Public:      p.Public,
		Images:      images(p.Images),
		Owner:       mapUser(p.Owner),
	}
}

// playlistTracks unwraps playlist items. Items whose track was removed
// upstream become null items so ToConnection drops them.
func playlistTracks(page *spotify.Page[spotify.PlaylistTrack]) *spotify.Page[spotify.Track] {
	items := make([]*spotify.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item == nil {
			items = append(items, nil)
			continue
		}
		items = append(items, item.Track)
	}
	return &spotify.Page[spotify.Track]{
		Items:    items,
		Total:    page.Total,
		Next:     page.Next,
		Previous: page.Previous,
	}
}

func images(in []spotify.Image) []spotify.Image {
	if in == nil {
		return []spotify.Image{}
	}
	return in
}
