package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsTokenAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/players/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"local-1","display_name":"Dana","provider":"local","avatar":"https://img/d.png"}`))
	}))
	defer server.Close()

	var p Player
	require.NoError(t, NewClient(server.URL+"/", "tok").Get(context.Background(), "/api/v1/players/me", &p))
	assert.Equal(t, "Dana", p.DisplayName)
	assert.Equal(t, "https://img/d.png", p.Avatar)
}

func TestClientReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coded":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":{"code":"USERNAME_EXISTS","message":"Username already exists"}}`))
		default:
			http.Error(w, "upstream broke", http.StatusBadGateway)
		}
	}))
	defer server.Close()
	c := NewClient(server.URL, "")

	err := c.Post(context.Background(), "/coded", map[string]string{}, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "USERNAME_EXISTS", apiErr.Code)
	assert.Contains(t, err.Error(), "USERNAME_EXISTS")

	err = c.Get(context.Background(), "/plain", nil)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "HTTP 502: upstream broke", err.Error())
}

func TestWebsocketURLFollowsScheme(t *testing.T) {
	assert.Equal(t, "ws://host:8080/ws", NewClient("http://host:8080", "").WebsocketURL())
	assert.Equal(t, "wss://host/ws", NewClient("https://host/", "").WebsocketURL())
}

func TestTokenRoundTripsThroughFile(t *testing.T) {
	cfg := &Config{TokenFile: filepath.Join(t.TempDir(), "nested", "token")}

	require.NoError(t, cfg.SaveToken("sf_abc"))

	loaded := &Config{TokenFile: cfg.TokenFile}
	require.NoError(t, loaded.LoadToken())
	assert.Equal(t, "sf_abc", loaded.Token)

	require.NoError(t, loaded.ClearToken())
	require.NoError(t, loaded.ClearToken())

	again := &Config{TokenFile: cfg.TokenFile}
	require.NoError(t, again.LoadToken())
	assert.Empty(t, again.Token)
}

func TestFlagTokenWinsOverFile(t *testing.T) {
	cfg := &Config{TokenFile: filepath.Join(t.TempDir(), "token")}
	require.NoError(t, cfg.SaveToken("from-file"))

	cfg.Token = "from-flag"
	require.NoError(t, cfg.LoadToken())
	assert.Equal(t, "from-flag", cfg.Token)
}

func TestPlayerTextShowsProviderAndAvatar(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{format: "text", w: &buf}

	out.Print(Player{ID: "local-1", DisplayName: "Dana", Provider: "local", Email: "dana@example.com", Avatar: "https://img/d.png"})

	assert.Equal(t, "Player: Dana (local-1)\nGuest: no\nProvider: local\nEmail: dana@example.com\nAvatar: https://img/d.png\n", buf.String())
}
