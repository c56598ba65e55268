package internal

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/source"
	"github.com/graphql-go/graphql/language/visitor"
)

// RawRequest is the part of an inbound request the builder looks at.
type RawRequest struct {
	Header http.Header
	Query  string // Raw GraphQL document, possibly empty.
}

// RequestContext is built once per operation and never mutated afterwards.
// Its client belongs to this operation alone.
type RequestContext struct {
	token           *string
	isIntrospection bool
	client          *Client
}

// Token returns the caller's bearer token. The boolean is false when no usable
// Authorization header was sent; the token may be empty even when it's true.
func (rc *RequestContext) Token() (string, bool) {
	if rc.token == nil {
		return "", false
	}
	return *rc.token, true
}

// IsAuthenticated is true when the caller sent a non-empty token.
func (rc *RequestContext) IsAuthenticated() bool {
	return rc.token != nil && *rc.token != ""
}

// IsIntrospection is true when the operation selects any "__" field.
func (rc *RequestContext) IsIntrospection() bool {
	return rc.isIntrospection
}

// Client returns the upstream client bound to the caller's token.
func (rc *RequestContext) Client() *Client {
	return rc.client
}

// ContextBuilder constructs a RequestContext for every inbound operation. It
// never rejects a request; resolvers decide whether a token is required.
type ContextBuilder struct {
	clients *ClientFactory

	// parsed remembers which documents are introspection queries. Clients
	// tend to send the same few documents over and over.
	parsed *ristretto.Cache[string, bool]
}

// NewContextBuilder returns a builder whose clients come from the factory.
func NewContextBuilder(clients *ClientFactory) (*ContextBuilder, error) {
	parsed, err := ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: 1e5,                                       // Track frequency for up to 100k documents.
		MaxCost:     min(debug.SetMemoryLimit(-1)/100, 64<<20), // Document bytes, capped at 64MiB.
		BufferItems: 64,                                        // Number of keys per Get buffer.
	})
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}
	return &ContextBuilder{clients: clients, parsed: parsed}, nil
}

// Close stops the parse cache's background workers. Build keeps working
// afterwards, it just stops memoizing.
func (b *ContextBuilder) Close() {
	b.parsed.Close()
}

// Build constructs the context for one request. Building twice from the same
// request yields equivalent contexts with distinct clients.
func (b *ContextBuilder) Build(req RawRequest) *RequestContext {
	token := bearerToken(req.Header)

	var t string
	if token != nil {
		t = *token
	}

	return &RequestContext{
		token:           token,
		isIntrospection: b.introspection(req.Query),
		client:          b.clients.New(t),
	}
}

func (b *ContextBuilder) introspection(query string) bool {
	if query == "" {
		return false
	}
	if found, ok := b.parsed.Get(query); ok {
		return found
	}
	found := isIntrospection(query)
	b.parsed.Set(query, found, int64(len(query)))
	return found
}

// isIntrospection reports whether the document selects a field starting with
// "__". Documents that fail to parse are treated as regular operations.
func isIntrospection(query string) bool {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{Body: []byte(query)}),
	})
	if err != nil {
		return false
	}

	found := false
	visitor.Visit(doc, &visitor.VisitorOptions{
		Enter: func(p visitor.VisitFuncParams) (string, interface{}) {
			field, ok := p.Node.(*ast.Field)
			if ok && field.Name != nil && strings.HasPrefix(field.Name.Value, "__") {
				found = true
				return visitor.ActionBreak, nil
			}
			return visitor.ActionNoChange, nil
		},
	}, nil)

	return found
}

// operationType returns the type of the operation a request would execute:
// the one named, or the only one in the document. It's empty when the
// document doesn't parse or the selection is ambiguous.
func operationType(query, name string) string {
	doc, err := parser.Parse(parser.ParseParams{
		Source: source.NewSource(&source.Source{Body: []byte(query)}),
	})
	if err != nil {
		return ""
	}

	var selected *ast.OperationDefinition
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		switch {
		case name == "" && selected != nil:
			return ""
		case name == "", op.Name != nil && op.Name.Value == name:
			selected = op
		}
	}
	if selected == nil {
		return ""
	}
	return selected.Operation
}

// bearerToken extracts the token from a single-valued Authorization header.
// Returns nil when the header is absent or has more than one value.
func bearerToken(h http.Header) *string {
	var values []string
	for k, v := range h {
		if strings.EqualFold(k, "Authorization") {
			values = append(values, v...)
		}
	}
	if len(values) != 1 {
		return nil
	}

	value := values[0]
	// net/http trims header values, so "Bearer " arrives as "Bearer".
	if value == "Bearer" {
		value = ""
	}
	token := strings.TrimSpace(strings.TrimPrefix(value, "Bearer "))

	return &token
}

type requestContextKey struct{}

// WithRequestContext attaches rc to ctx for resolvers to find.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom returns the RequestContext attached to ctx, if any.
func RequestContextFrom(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc, ok && rc != nil
}
