package internal

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dcoutinho96/spotify-gateway/spotify"
)

// _defaultLimit is the page size used when a caller doesn't ask for one.
const _defaultLimit = 20

// PageInfo describes a connection's position in the upstream list.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// Edge pairs a node with its cursor.
type Edge[R any] struct {
	Cursor string `json:"cursor"`
	Node   R      `json:"node"`
}

// Connection is a Relay-style page of nodes.
//
// Cursors are decimal offsets into the upstream list rather than opaque
// tokens. The upstream only pages by offset/limit, so there is nothing more
// stable to hand out.
type Connection[R any] struct {
	Edges      []Edge[R] `json:"edges"`
	PageInfo   PageInfo  `json:"pageInfo"`
	TotalCount int       `json:"totalCount"`
}

// EmptyConnection returns a connection with no edges and a zero total.
func EmptyConnection[R any]() Connection[R] {
	return Connection[R]{Edges: []Edge[R]{}}
}

// FetchPage loads one page of endpoint. limit defaults to 20 and offset to 0.
// Failures are classified; a partial page is never returned.
func FetchPage[T any](ctx context.Context, c *Client, endpoint string, limit, offset *int) (*spotify.Page[T], error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(valueOr(limit, _defaultLimit)))
	params.Set("offset", strconv.Itoa(valueOr(offset, 0)))

	var page spotify.Page[T]
	if err := c.Get(ctx, endpoint, params, &page); err != nil {
		return nil, classified(ctx, err)
	}
	return &page, nil
}

// ToConnection maps a page onto a connection. Null items are dropped and the
// survivors get contiguous cursors starting at offset. TotalCount is the
// upstream's total, not the number of surviving items.
func ToConnection[T, R any](page *spotify.Page[T], offset int, mapFn func(T) R) Connection[R] {
	edges := make([]Edge[R], 0, len(page.Items))
	for _, item := range page.Items {
		if item == nil {
			continue
		}
		edges = append(edges, Edge[R]{
			Cursor: strconv.Itoa(offset + len(edges)),
			Node:   mapFn(*item),
		})
	}

	info := PageInfo{
		HasNextPage:     page.Next != nil,
		HasPreviousPage: page.Previous != nil,
	}
	if len(edges) > 0 {
		start, end := edges[0].Cursor, edges[len(edges)-1].Cursor
		info.StartCursor = &start
		info.EndCursor = &end
	}

	return Connection[R]{
		Edges:      edges,
		PageInfo:   info,
		TotalCount: page.Total,
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
