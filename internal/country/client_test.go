package country

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/alpha/GB", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"name": "United Kingdom of Great Britain and Northern Ireland",
			"capital": "London",
			"region": "Europe",
			"population": 65110000,
			"flag": "https://flagcdn.com/gb.svg",
			"currencies": [{"code": "GBP"}]
		}`))
	}))
	defer server.Close()

	info, err := newTestClient(server.URL + "/").Fetch(context.Background(), "GB")
	require.NoError(t, err)

	assert.Equal(t, "London", info.Field("capital"))
	assert.Equal(t, "65110000", info.Field("population"))
	assert.Equal(t, "", info.Field("missing"))
	assert.Contains(t, info, "currencies")
}

func TestClient_Fetch_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"status": 404, "message": "Not Found"}`},
		{"array payload", http.StatusOK, `[{"name": "x"}]`},
		{"garbage", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Fetch(context.Background(), "XX")
			assert.ErrorIs(t, err, ErrLookup)
		})
	}
}

func TestClient_Fetch_EmptyCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call: %s", r.URL.Path)
	}))
	defer server.Close()

	for _, code := range []string{"", " "} {
		info, err := newTestClient(server.URL).Fetch(context.Background(), code)
		require.NoError(t, err)
		assert.NotNil(t, info)
		assert.Empty(t, info)
		assert.Equal(t, "", info.Field("name"))
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, newTestClient("").baseURL)
	assert.Equal(t, "http://countries.local", newTestClient("http://countries.local/").baseURL)
}
