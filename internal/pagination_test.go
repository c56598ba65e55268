package internal

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/dcoutinho96/spotify-gateway/spotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"
)

func identity[T any](v T) T { return v }

func TestToConnection(t *testing.T) {
	t.Parallel()

	a, b := "a", "b"
	next := "x"
	page := &spotify.Page[string]{
		Items: []*string{&a, nil, &b},
		Total: 5,
		Next:  &next,
	}

	conn := ToConnection(page, 10, identity[string])

	assert.Equal(t, []Edge[string]{
		{Cursor: "10", Node: "a"},
		{Cursor: "11", Node: "b"},
	}, conn.Edges)
	assert.True(t, conn.PageInfo.HasNextPage)
	assert.False(t, conn.PageInfo.HasPreviousPage)
	require.NotNil(t, conn.PageInfo.StartCursor)
	require.NotNil(t, conn.PageInfo.EndCursor)
	assert.Equal(t, "10", *conn.PageInfo.StartCursor)
	assert.Equal(t, "11", *conn.PageInfo.EndCursor)
	assert.Equal(t, 5, conn.TotalCount)
}

func TestToConnectionEmpty(t *testing.T) {
	t.Parallel()

	prev := "p"
	for _, items := range [][]*int{nil, {}, {nil, nil}} {
		page := &spotify.Page[int]{Items: items, Total: 42, Previous: &prev}

		conn := ToConnection(page, 3, identity[int])

		assert.NotNil(t, conn.Edges)
		assert.Empty(t, conn.Edges)
		assert.Nil(t, conn.PageInfo.StartCursor)
		assert.Nil(t, conn.PageInfo.EndCursor)
		assert.True(t, conn.PageInfo.HasPreviousPage)
		assert.Equal(t, 42, conn.TotalCount)
	}
}

func TestToConnectionProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		items := rapid.SliceOf(rapid.Ptr(rapid.Int(), true)).Draw(t, "items")
		offset := rapid.IntRange(0, 10_000).Draw(t, "offset")
		total := rapid.IntRange(0, 100_000).Draw(t, "total")

		page := &spotify.Page[int]{Items: items, Total: total}
		if rapid.Bool().Draw(t, "next") {
			page.Next = new(string)
		}
		if rapid.Bool().Draw(t, "previous") {
			page.Previous = new(string)
		}

		conn := ToConnection(page, offset, identity[int])

		var survivors []int
		for _, item := range items {
			if item != nil {
				survivors = append(survivors, *item)
			}
		}

		require.Len(t, conn.Edges, len(survivors))
		for i, edge := range conn.Edges {
			assert.Equal(t, strconv.Itoa(offset+i), edge.Cursor)
			assert.Equal(t, survivors[i], edge.Node)
		}

		assert.Equal(t, total, conn.TotalCount)
		assert.Equal(t, page.Next != nil, conn.PageInfo.HasNextPage)
		assert.Equal(t, page.Previous != nil, conn.PageInfo.HasPreviousPage)

		if len(survivors) == 0 {
			assert.Nil(t, conn.PageInfo.StartCursor)
			assert.Nil(t, conn.PageInfo.EndCursor)
			return
		}
		assert.Equal(t, strconv.Itoa(offset), *conn.PageInfo.StartCursor)
		assert.Equal(t, strconv.Itoa(offset+len(survivors)-1), *conn.PageInfo.EndCursor)
	})
}

func TestEmptyConnection(t *testing.T) {
	t.Parallel()

	conn := EmptyConnection[Playlist]()

	assert.NotNil(t, conn.Edges)
	assert.Empty(t, conn.Edges)
	assert.Equal(t, PageInfo{}, conn.PageInfo)
	assert.Zero(t, conn.TotalCount)
}

func TestFetchPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c, upstream := newMockClient(t, "tok")
		upstream.EXPECT().RoundTrip(gomock.Any()).DoAndReturn(func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/me/playlists", r.URL.Path)
			assert.Equal(t, "20", r.URL.Query().Get("limit"))
			assert.Equal(t, "0", r.URL.Query().Get("offset"))
			return jsonResponse(http.StatusOK, `{"items":[{"id":"p1","name":"One"},null],"total":9,"next":"n","previous":null}`), nil
		})

		page, err := FetchPage[spotify.Playlist](ctx, c, spotify.MyPlaylistsEndpoint, nil, nil)
		require.NoError(t, err)

		require.Len(t, page.Items, 2)
		assert.Equal(t, "p1", page.Items[0].ID)
		assert.Nil(t, page.Items[1])
		assert.Equal(t, 9, page.Total)
		assert.NotNil(t, page.Next)
		assert.Nil(t, page.Previous)
	})

	t.Run("explicit limit and offset", func(t *testing.T) {
		t.Parallel()

		limit, offset := 2, 40
		c, upstream := newMockClient(t, "tok")
		upstream.EXPECT().RoundTrip(gomock.Any()).DoAndReturn(func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			assert.Equal(t, "40", r.URL.Query().Get("offset"))
			return jsonResponse(http.StatusOK, `{"items":[],"total":0}`), nil
		})

		page, err := FetchPage[spotify.Artist](ctx, c, spotify.MyTopArtistsEndpoint, &limit, &offset)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("classifies failures", func(t *testing.T) {
		t.Parallel()

		c, upstream := newMockClient(t, "tok")
		upstream.EXPECT().RoundTrip(gomock.Any()).Return(
			jsonResponse(http.StatusNotFound, `{"error":{"status":404,"message":"Non existing id"}}`), nil)

		page, err := FetchPage[spotify.Album](ctx, c, spotify.ArtistAlbumsEndpoint("nope"), nil, nil)
		assert.Nil(t, page)
		assert.ErrorIs(t, err, ErrNotFound)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "Non existing id", se.Message)
		assert.Equal(t, "/v1/artists/nope/albums", se.Endpoint)
	})

	t.Run("classifies undecodable bodies", func(t *testing.T) {
		t.Parallel()

		c, upstream := newMockClient(t, "tok")
		upstream.EXPECT().RoundTrip(gomock.Any()).Return(jsonResponse(http.StatusOK, `<html>`), nil)

		page, err := FetchPage[spotify.Album](ctx, c, spotify.ArtistAlbumsEndpoint("a"), nil, nil)
		assert.Nil(t, page)
		assert.ErrorIs(t, err, ErrUpstream)
	})
}
