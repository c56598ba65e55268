package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves GraphQL operations. It builds a RequestContext per
// operation and hands execution to the schema.
type Handler struct {
	schema   graphql.Schema
	contexts *ContextBuilder
}

// operation is a GraphQL request as sent over HTTP.
type operation struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// NewHandler creates a new handler.
func NewHandler(contexts *ContextBuilder) (*Handler, error) {
	schema, err := NewSchema()
	if err != nil {
		return nil, fmt.Errorf("building schema: %w", err)
	}
	return &Handler{schema: schema, contexts: contexts}, nil
}

// NewMux registers a handler's routes on a new mux.
func NewMux(h *Handler) http.Handler {
	mux := chi.NewRouter()

	mux.Post("/graphql", h.serveGraphQL)
	mux.Get("/graphql", h.serveGraphQL)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// serveGraphQL executes one operation. Executed operations always respond
// 200; failures are reported in the response's errors with their status in
// extensions.
func (h *Handler) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	op, err := decodeOperation(r)
	if errors.Is(err, errMethodNotAllowed) {
		w.Header().Set("Allow", http.MethodPost)
	}
	if err != nil {
		h.error(w, err)
		return
	}

	rc := h.contexts.Build(RawRequest{Header: r.Header, Query: op.Query})
	_operations.WithLabelValues(strconv.FormatBool(rc.IsIntrospection())).Inc()

	ctx := WithRequestContext(r.Context(), rc)
	if rc.IsIntrospection() {
		Log(ctx).Debug("introspection", "op", op.OperationName)
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  op.Query,
		VariableValues: op.Variables,
		OperationName:  op.OperationName,
		Context:        ctx,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

func decodeOperation(r *http.Request) (operation, error) {
	var op operation

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		op.Query = q.Get("query")
		op.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &op.Variables); err != nil {
				return op, errors.Join(fmt.Errorf("invalid variables: %w", err), errBadRequest)
			}
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
			return op, errors.Join(fmt.Errorf("invalid body: %w", err), errBadRequest)
		}
	}

	if op.Query == "" {
		return op, errMissingQuery
	}
	if r.Method == http.MethodGet && operationType(op.Query, op.OperationName) == ast.OperationTypeMutation {
		return op, errMutationOverGet
	}
	return op, nil
}

// error writes a GraphQL-shaped error. The status code defaults to 500
// unless the error wraps a statusErr.
func (*Handler) error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var s statusErr
	if errors.As(err, &s) {
		status = s.Status()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(graphql.Result{
		Errors: []gqlerrors.FormattedError{gqlerrors.NewFormattedError(err.Error())},
	})
}
