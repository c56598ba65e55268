package internal

import (
	"encoding/json"
	"testing"

	"github.com/dcoutinho96/spotify-gateway/spotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapUser(t *testing.T) {
	t.Parallel()

	var u spotify.User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","display_name":"Ann","images":null}`), &u))

	assert.Equal(t, User{ID: "u1", DisplayName: "Ann", Images: []spotify.Image{}}, mapUser(u))

	require.NoError(t, json.Unmarshal([]byte(`{"id":"u2","display_name":null}`), &u))
	assert.Equal(t, "", mapUser(u).DisplayName)
}

func TestMapTrack(t *testing.T) {
	t.Parallel()

	var tr spotify.Track
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "t1",
		"name": "Song",
		"duration_ms": 201000,
		"preview_url": null,
		"album": {"id": "al1", "name": "Record", "release_date": "1999-01-01", "total_tracks": 12},
		"artists": [{"id": "ar1", "name": "Band"}]
	}`), &tr))

	got := mapTrack(tr)

	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, 201000, got.DurationMs)
	assert.Nil(t, got.PreviewURL)

	require.Len(t, got.Artists, 1)
	assert.Equal(t, "Band", got.Artists[0].Name)
	assert.Equal(t, []string{}, got.Artists[0].Genres)
	assert.Equal(t, []spotify.Image{}, got.Artists[0].Images)
	assert.Nil(t, got.Artists[0].Popularity)

	assert.Equal(t, "Record", got.Album.Name)
	require.NotNil(t, got.Album.ReleaseDate)
	assert.Equal(t, "1999-01-01", *got.Album.ReleaseDate)
	require.NotNil(t, got.Album.TotalTracks)
	assert.Equal(t, 12, *got.Album.TotalTracks)
	assert.Equal(t, []spotify.Image{}, got.Album.Images)
}

func TestMapPlaylist(t *testing.T) {
	t.Parallel()

	var p spotify.Playlist
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "p1",
		"name": "Mix",
		"description": "",
		"public": false,
		"images": [{"url": "https://i.scdn.co/x", "height": 640, "width": null}],
		"owner": {"id": "u1", "display_name": null}
	}`), &p))

	got := mapPlaylist(p)

	require.NotNil(t, got.Description)
	assert.Equal(t, "", *got.Description)
	require.NotNil(t, got.Public)
	assert.False(t, *got.Public)
	require.Len(t, got.Images, 1)
	assert.Nil(t, got.Images[0].Width)
	assert.Equal(t, User{ID: "u1", Images: []spotify.Image{}}, got.Owner)
}

func TestPlaylistTracks(t *testing.T) {
	t.Parallel()

	var page spotify.Page[spotify.PlaylistTrack]
	require.NoError(t, json.Unmarshal([]byte(`{
		"items": [{"track": {"id": "t1"}}, {"track": null}, null, {"track": {"id": "t2"}}],
		"total": 7,
		"next": null,
		"previous": "prev"
	}`), &page))

	conn := ToConnection(playlistTracks(&page), 4, mapTrack)

	require.Len(t, conn.Edges, 2)
	assert.Equal(t, "4", conn.Edges[0].Cursor)
	assert.Equal(t, "t1", conn.Edges[0].Node.ID)
	assert.Equal(t, "5", conn.Edges[1].Cursor)
	assert.Equal(t, "t2", conn.Edges[1].Node.ID)
	assert.Equal(t, 7, conn.TotalCount)
	assert.False(t, conn.PageInfo.HasNextPage)
	assert.True(t, conn.PageInfo.HasPreviousPage)
}
