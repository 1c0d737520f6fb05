package httpremote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/httpremote"
	"github.com/NUMNIMx/noteflow/pkg/core"
)

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(httpremote.ErrorBody{Code: code, Message: "test"})
}

func TestClientRoundTrip(t *testing.T) {
	var stored httpremote.Document
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/documents/u1", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			if stored.State == "" {
				writeError(w, http.StatusNotFound, httpremote.CodeDocumentAbsent)
				return
			}
			_ = json.NewEncoder(w).Encode(stored)
		}
	}))
	defer srv.Close()

	c := httpremote.New(srv.URL+"/", "tok")
	ctx := context.Background()

	_, found, err := c.Read(ctx, core.UserKey("u1"))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Write(ctx, core.UserKey("u1"), core.Record{Payload: []byte(`{"notes":[]}`), UpdatedAt: 42}))
	rec, found, err := c.Read(ctx, core.UserKey("u1"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"notes":[]}`, string(rec.Payload))
	assert.Equal(t, int64(42), rec.UpdatedAt)
}

func TestClientErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"not provisioned", http.StatusNotFound, httpremote.CodeNotFound, core.ErrNotProvisioned},
		{"forbidden", http.StatusForbidden, httpremote.CodePermissionDenied, core.ErrPermissionDenied},
		{"unauthenticated", http.StatusUnauthorized, httpremote.CodeUnauthenticated, core.ErrPermissionDenied},
		{"gateway timeout", http.StatusGatewayTimeout, httpremote.CodeTimeout, core.ErrRemoteTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, tt.status, tt.code)
			}))
			defer srv.Close()

			c := httpremote.New(srv.URL, "tok")
			_, _, err := c.Read(context.Background(), core.UserKey("u1"))
			assert.ErrorIs(t, err, tt.want)
			err = c.Write(context.Background(), core.UserKey("u1"), core.Record{Payload: []byte(`{}`)})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClientHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := httpremote.New(srv.URL, "").Read(ctx, core.UserKey("u1"))
	assert.ErrorIs(t, err, core.ErrRemoteTimeout)
}
