package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want *DomainError
	}{
		{
			name: "401",
			err:  &StatusError{StatusCode: http.StatusUnauthorized, Endpoint: "/me"},
			want: ErrUnauthorized,
		},
		{
			name: "404",
			err:  &StatusError{StatusCode: http.StatusNotFound, Endpoint: "/artists/x"},
			want: ErrNotFound,
		},
		{
			name: "403 folds into not found",
			err:  &StatusError{StatusCode: http.StatusForbidden},
			want: ErrNotFound,
		},
		{
			name: "400 folds into not found",
			err:  &StatusError{StatusCode: http.StatusBadRequest},
			want: ErrNotFound,
		},
		{
			name: "429 folds into not found",
			err:  &StatusError{StatusCode: http.StatusTooManyRequests},
			want: ErrNotFound,
		},
		{
			name: "500",
			err:  &StatusError{StatusCode: http.StatusInternalServerError},
			want: ErrUpstream,
		},
		{
			name: "503",
			err:  &StatusError{StatusCode: http.StatusServiceUnavailable},
			want: ErrUpstream,
		},
		{
			name: "network error",
			err:  errors.New("dial tcp: connection refused"),
			want: ErrUpstream,
		},
		{
			name: "wrapped status",
			err:  fmt.Errorf("GET /me: %w", &StatusError{StatusCode: http.StatusUnauthorized}),
			want: ErrUnauthorized,
		},
		{
			name: "nil",
			err:  nil,
			want: ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Code, got.Code)
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.Message, got.Message)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyKeepsDetailsOutOfMessage(t *testing.T) {
	t.Parallel()

	cause := &StatusError{StatusCode: http.StatusNotFound, Endpoint: "/artists/x", Message: "non existing id"}
	got := Classify(cause)

	assert.NotContains(t, got.Error(), "non existing id")

	var se *StatusError
	require.ErrorAs(t, got, &se)
	assert.Equal(t, "/artists/x", se.Endpoint)
}

func TestClassifyIsIdempotent(t *testing.T) {
	t.Parallel()

	first := Classify(&StatusError{StatusCode: http.StatusForbidden})
	second := Classify(first)

	assert.Same(t, first, second)
	assert.Same(t, errTokenMissing, Classify(errTokenMissing))
}

func TestDomainErrorExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]any{
		"code": "NOT_FOUND_SPOTIFY",
		"http": map[string]any{"status": 404},
	}, ErrNotFound.Extensions())

	assert.Equal(t, "UNAUTHORIZED_SPOTIFY", errTokenMissing.Extensions()["code"])
	assert.ErrorIs(t, errTokenMissing, ErrUnauthorized)
	assert.NotErrorIs(t, ErrNotFound, ErrUpstream)
}

func TestClassifiedCountsCodes(t *testing.T) {
	// Not parallel: reads a process-wide counter.
	counter := _classifiedErrors.WithLabelValues(string(CodeUpstream))
	before := testutil.ToFloat64(counter)

	err := classified(context.Background(), errors.New("boom"))

	assert.ErrorIs(t, err, ErrUpstream)
	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0)
}

func TestStatusErr(t *testing.T) {
	t.Parallel()

	var s statusErr
	require.ErrorAs(t, errMissingQuery, &s)
	assert.Equal(t, http.StatusBadRequest, s.Status())
	assert.Equal(t, "HTTP 400", s.Error())
}
