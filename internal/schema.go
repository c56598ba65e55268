package internal

import (
	"github.com/graphql-go/graphql"
)

// NewSchema returns the gateway's executable schema.
func NewSchema() (graphql.Schema, error) {
	nonNullString := graphql.NewNonNull(graphql.String)

	image := graphql.NewObject(graphql.ObjectConfig{
		Name: "Image",
		Fields: graphql.Fields{
			"url":    &graphql.Field{Type: nonNullString},
			"height": &graphql.Field{Type: graphql.Int},
			"width":  &graphql.Field{Type: graphql.Int},
		},
	})
	imageList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(image)))

	pageInfo := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"startCursor":     &graphql.Field{Type: graphql.String},
			"endCursor":       &graphql.Field{Type: graphql.String},
		},
	})

	// connectionOf builds the XConnection and XEdge types for a node type.
	connectionOf := func(node *graphql.Object) graphql.Output {
		edge := graphql.NewObject(graphql.ObjectConfig{
			Name: node.Name() + "Edge",
			Fields: graphql.Fields{
				"cursor": &graphql.Field{Type: nonNullString},
				"node":   &graphql.Field{Type: graphql.NewNonNull(node)},
			},
		})
		return graphql.NewNonNull(graphql.NewObject(graphql.ObjectConfig{
			Name: node.Name() + "Connection",
			Fields: graphql.Fields{
				"edges":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edge)))},
				"pageInfo":   &graphql.Field{Type: graphql.NewNonNull(pageInfo)},
				"totalCount": &graphql.Field{Type: graphql.Int},
			},
		}))
	}

	paging := func() graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
			"offset": &graphql.ArgumentConfig{Type: graphql.Int},
		}
	}

	user := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"displayName": &graphql.Field{Type: nonNullString},
			"images":      &graphql.Field{Type: imageList},
		},
	})

	album := graphql.NewObject(graphql.ObjectConfig{
		Name: "Album",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: nonNullString},
			"releaseDate": &graphql.Field{Type: graphql.String},
			"totalTracks": &graphql.Field{Type: graphql.Int},
			"images":      &graphql.Field{Type: imageList},
		},
	})
	albumConnection := connectionOf(album)

	artist := graphql.NewObject(graphql.ObjectConfig{
		Name: "Artist",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":       &graphql.Field{Type: nonNullString},
			"genres":     &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(nonNullString))},
			"popularity": &graphql.Field{Type: graphql.Int},
			"images":     &graphql.Field{Type: imageList},
			"albums": &graphql.Field{
				Type:    albumConnection,
				Args:    paging(),
				Resolve: resolveAlbums,
			},
		},
	})

	track := graphql.NewObject(graphql.ObjectConfig{
		Name: "Track",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":       &graphql.Field{Type: nonNullString},
			"durationMs": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"previewUrl": &graphql.Field{Type: graphql.String},
			"artists":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(artist)))},
			"album":      &graphql.Field{Type: graphql.NewNonNull(album)},
		},
	})

	playlist := graphql.NewObject(graphql.ObjectConfig{
		Name: "Playlist",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":        &graphql.Field{Type: nonNullString},
			"description": &graphql.Field{Type: graphql.String},
			"public":      &graphql.Field{Type: graphql.Boolean},
			"images":      &graphql.Field{Type: imageList},
			"owner":       &graphql.Field{Type: graphql.NewNonNull(user)},
			"tracks": &graphql.Field{
				Type:    connectionOf(track),
				Args:    paging(),
				Resolve: resolveTracks,
			},
		},
	})

	byID := func(name string) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			name: &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		}
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    graphql.NewNonNull(user),
				Resolve: resolveMe,
			},
			"myTopArtists": &graphql.Field{
				Type:    connectionOf(artist),
				Args:    paging(),
				Resolve: resolveMyTopArtists,
			},
			"artistById": &graphql.Field{
				Type:    artist,
				Args:    byID("id"),
				Resolve: resolveArtistByID,
			},
			"artistAlbums": &graphql.Field{
				Type: albumConnection,
				Args: graphql.FieldConfigArgument{
					"artistId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: resolveArtistAlbums,
			},
			"myPlaylists": &graphql.Field{
				Type:    connectionOf(playlist),
				Args:    paging(),
				Resolve: resolveMyPlaylists,
			},
			"playlistById": &graphql.Field{
				Type:    playlist,
				Args:    byID("id"),
				Resolve: resolvePlaylistByID,
			},
			"albumById": &graphql.Field{
				Type:    album,
				Args:    byID("id"),
				Resolve: resolveAlbumByID,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPlaylist": &graphql.Field{
				Type: graphql.NewNonNull(playlist),
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: nonNullString},
					"description": &graphql.ArgumentConfig{Type: graphql.String},
					"public":      &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: resolveCreatePlaylist,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
