package internal

import (
	"context"

	"github.com/dcoutinho96/spotify-gateway/spotify"
	"github.com/graphql-go/graphql"
)

// requestClient returns the caller's upstream client. Every operation routed
// through the handler carries a RequestContext, so a missing one is a bug on
// our side and is reported as a generic upstream failure.
func requestClient(ctx context.Context) (*RequestContext, error) {
	rc, ok := RequestContextFrom(ctx)
	if !ok {
		Log(ctx).Error("missing request context")
		return nil, ErrUpstream
	}
	return rc, nil
}

// authenticated is like requestClient but fails before any upstream call if
// the caller didn't send a token.
func authenticated(ctx context.Context) (*RequestContext, error) {
	rc, err := requestClient(ctx)
	if err != nil {
		return nil, err
	}
	if !rc.IsAuthenticated() {
		_classifiedErrors.WithLabelValues(string(CodeUnauthorized)).Inc()
		return nil, errTokenMissing
	}
	return rc, nil
}

func intArg(args map[string]any, name string) *int {
	if v, ok := args[name].(int); ok {
		return &v
	}
	return nil
}

// connection fetches one page of endpoint using the field's limit and offset
// arguments.
func connection[T, R any](p graphql.ResolveParams, c *Client, endpoint string, mapFn func(T) R) (any, error) {
	limit, offset := intArg(p.Args, "limit"), intArg(p.Args, "offset")

	page, err := FetchPage[T](p.Context, c, endpoint, limit, offset)
	if err != nil {
		return nil, err
	}
	return ToConnection(page, valueOr(offset, 0), mapFn), nil
}

func resolveMe(p graphql.ResolveParams) (any, error) {
	rc, err := authenticated(p.Context)
	if err != nil {
		return nil, err
	}
	u, err := FetchResource[spotify.User](p.Context, rc.Client(), spotify.MeEndpoint)
	if err != nil {
		return nil, err
	}
	return mapUser(*u), nil
}

func resolveMyTopArtists(p graphql.ResolveParams) (any, error) {
	rc, err := authenticated(p.Context)
	if err != nil {
		return nil, err
	}
	return connection(p, rc.Client(), spotify.MyTopArtistsEndpoint, mapArtist)
}

// resolveMyPlaylists returns an empty connection to anonymous callers instead
// of an error.
func resolveMyPlaylists(p graphql.ResolveParams) (any, error) {
	rc, err := requestClient(p.Context)
	if err != nil {
		return nil, err
	}
	if !rc.IsAuthenticated() {
		return EmptyConnection[Playlist](), nil
	}
	return connection(p, rc.Client(), spotify.MyPlaylistsEndpoint, mapPlaylist)
}

func resolveArtistByID(p graphql.ResolveParams) (any, error) {
	rc, err := requestClient(p.Context)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	a, err := FetchResource[spotify.Artist](p.Context, rc.Client(), spotify.ArtistEndpoint(id))
	if err != nil {
		return nil, err
	}
	return mapArtist(*a), nil
}

func resolveArtistAlbums(p graphql.ResolveParams) (any, error) {
	rc, err := requestClient(p.Context)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["artistId"].(string)
	return connection(p, rc.Client(), spotify.ArtistAlbumsEndpoint(id), mapAlbum)
}

// resolveAlbums resolves Artist.albums.
func resolveAlbums(p graphql.ResolveParams) (any, error) {
	rc, err := requestClient(p.Context)
	if err != nil {
		return nil, err
	}
	artist, ok := p.Source.(Artist)
	if !ok {
		return nil, ErrUpstream
	}
	return connection(p, rc.Client(), spotify.ArtistAlbumsEndpoint(artist.ID), mapAlbum)
}

func resolveAlbumByID(p graphql.ResolveParams) (any, error) {
	rc, err := requestClient(p.Context)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	a, err := FetchResource[spotify.Album](p.Context, rc.Client(), spotify.AlbumEndpoint(id))
	if err != nil {
		return nil, err
	}
	return mapAlbum(*a), nil
}

func resolvePlaylistByID(p graphql.ResolveParams) (any, error) {
	rc, err := requestClient(p.Context)
	if err != nil {
		return nil, err
	}
	id, _ := p.Args["id"].(string)
	pl, err := FetchResource[spotify.Playlist](p.Context, rc.Client(), spotify.PlaylistEndpoint(id))
	if err != nil {
		return nil, err
	}
	return mapPlaylist(*pl), nil
}

// resolveTracks resolves Playlist.tracks.
func resolveTracks(p graphql.ResolveParams) (any, error) {
	rc, err := requestClient(p.Context)
	if err != nil {
		return nil, err
	}
	playlist, ok := p.Source.(Playlist)
	if !ok {
		return nil, ErrUpstream
	}

	limit, offset := intArg(p.Args, "limit"), intArg(p.Args, "offset")
	page, err := FetchPage[spotify.PlaylistTrack](p.Context, rc.Client(), spotify.PlaylistTracksEndpoint(playlist.ID), limit, offset)
	if err != nil {
		return nil, err
	}
	return ToConnection(playlistTracks(page), valueOr(offset, 0), mapTrack), nil
}

// resolveCreatePlaylist creates a playlist owned by the caller. Anonymous
// callers always get an error.
func resolveCreatePlaylist(p graphql.ResolveParams) (any, error) {
	ctx := p.Context
	rc, err := authenticated(ctx)
	if err != nil {
		return nil, err
	}

	me, err := FetchResource[spotify.User](ctx, rc.Client(), spotify.MeEndpoint)
	if err != nil {
		return nil, err
	}

	name, _ := p.Args["name"].(string)
	body := spotify.NewPlaylist{Name: name}
	if d, ok := p.Args["description"].(string); ok {
		body.Description = d
	}
	if pub, ok := p.Args["public"].(bool); ok {
		body.Public = pub
	}

	var created spotify.Playlist
	if err := rc.Client().Post(ctx, spotify.UserPlaylistsEndpoint(me.ID), body, &created); err != nil {
		return nil, classified(ctx, err)
	}

	Log(ctx).Info("created playlist", "id", created.ID, "owner", me.ID)
	return mapPlaylist(created), nil
}
