package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/spellfight/internal/api"
	"github.com/mcoot/spellfight/internal/api/apierr"
	"github.com/mcoot/spellfight/internal/api/response"
	"github.com/mcoot/spellfight/internal/factory"
	"github.com/mcoot/spellfight/internal/model"
	"github.com/mcoot/spellfight/internal/protocol"
	"github.com/mcoot/spellfight/internal/services/identity"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

// newGraphServer fakes the parts of the Graph API the callback uses
func newGraphServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") != "good-code" {
			http.Error(w, `{"error":"bad code"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"fb-token"}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fb-token" {
			http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"fb-1","name":"Frank","email":"frank@example.com","picture":{"data":{"url":"http://img/frank"}}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())
	go app.Manager.Run(t.Context())

	fbCfg := identity.DefaultFacebookConfig()
	fbCfg.GraphURL = newGraphServer(t).URL
	fbCfg.ClientID = "app"
	fbCfg.ClientSecret = "secret"
	facebook := identity.NewFacebook(fbCfg, logger)

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Auth:     app.AuthService,
		Resolver: identity.Chain{app.AuthService, facebook},
		Users:    app.Users,
		Facebook: facebook,
		Rooms:    app.Manager,
		Words:    app.Words,
		Socket:   app.Socket,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func createGuestPlayer(t *testing.T, ts *testServer, name string) response.AuthResponse {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"name": name}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var health response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Zero(t, health.Rooms)
	assert.Equal(t, ts.app.Words.Len(), health.DictionaryWords)
	assert.Positive(t, health.DictionaryWords)
}

func TestResponsesCarryRequestID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/me", nil)
	req.Header.Set("X-Request-ID", "trace-1")
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "trace-1", rr.Header().Get("X-Request-ID"))
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	resp := createGuestPlayer(t, ts, "Alice")

	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.Equal(t, model.ProviderGuest, resp.Player.Provider)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestCreateGuestWithAvatar(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/guest",
		map[string]string{"name": "Alice", "avatar": "https://img.example.com/a.png"}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "https://img.example.com/a.png", resp.Player.Avatar)

	rr = ts.request(http.MethodPost, "/api/v1/players/guest",
		map[string]string{"name": "Alice", "avatar": "javascript:alert(1)"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/players/guest", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestCreateGuestRequiresName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username": "alice",
		"password": "secret123",
		"name":     "Alice",
		"email":    "alice@example.com",
		"avatar":   "https://img.example.com/alice.png",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.False(t, registerResp.Player.IsGuest)
	assert.Equal(t, model.ProviderLocal, registerResp.Player.Provider)
	assert.Equal(t, "alice@example.com", registerResp.Player.Email)
	assert.Equal(t, "https://img.example.com/alice.png", registerResp.Player.Avatar)

	// Duplicate username
	rr = ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeUsernameExists, errorCode(t, rr))

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.Player, loginResp.Player)

	// Wrong password
	loginBody["password"] = "wrong"
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))

	// Missing fields
	rr = ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{"username": "alice"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterValidatesProfile(t *testing.T) {
	ts := newTestServer(t)

	for name, body := range map[string]map[string]string{
		"no name":        {"username": "alice", "password": "secret123"},
		"bad email":      {"username": "alice", "password": "secret123", "name": "Alice", "email": "alice"},
		"short password": {"username": "alice", "password": "abc", "name": "Alice"},
		"bad username":   {"username": "A!", "password": "secret123", "name": "Alice"},
	} {
		rr := ts.request(http.MethodPost, "/api/v1/players/register", body, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, name)
		assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr), name)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/players/logout", nil, guest.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, guest.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	guest := createGuestPlayer(t, ts, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, guest.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.Player
	err := json.Unmarshal(rr.Body.Bytes(), &meResp)
	require.NoError(t, err)
	assert.Equal(t, "Bob", meResp.DisplayName)
}

func TestGetMeWithProviderToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "fb-token")
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.Player
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &meResp))
	assert.Equal(t, "fb-1", meResp.ID)
	assert.Equal(t, model.ProviderFacebook, meResp.Provider)
	assert.Equal(t, "http://img/frank", meResp.Avatar)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/players/me", "/api/v1/rooms", "/api/v1/users/anyone"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
}

func TestCreateAndGetUser(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuestPlayer(t, ts, "Alice")

	body := map[string]string{
		"id":       "fb-42",
		"name":     "Grace",
		"email":    "grace@example.com",
		"photo":    "http://img/grace",
		"provider": model.ProviderFacebook,
	}
	rr := ts.request(http.MethodPost, "/api/v1/users", body, guest.SessionToken)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Creating again keeps the existing record
	body["name"] = "Someone Else"
	rr = ts.request(http.MethodPost, "/api/v1/users", body, guest.SessionToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/users/fb-42", nil, guest.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "Grace", user.DisplayName)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.Equal(t, "http://img/grace", user.Avatar)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUserValidation(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/users", map[string]string{"name": "No Id"}, guest.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/users", map[string]string{"id": "x"}, guest.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetUnknownUser(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/users/nobody", nil, guest.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodePlayerNotFound, errorCode(t, rr))
}

func TestFacebookCallback(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/auth/facebook/callback?code=good-code", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.CallbackResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "fb-token", resp.AccessToken)
	assert.Equal(t, "fb-1", resp.Player.ID)

	stored, err := ts.app.Users.Get(t.Context(), "fb-1")
	require.NoError(t, err)
	assert.Equal(t, "Frank", stored.DisplayName)
	assert.Equal(t, model.ProviderFacebook, stored.Provider)
}

func TestFacebookCallbackErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/auth/facebook/callback", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/auth/facebook/callback?code=bad-code", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListRooms(t *testing.T) {
	ts := newTestServer(t)
	guest := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/rooms", nil, guest.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"rooms":[]}`, rr.Body.String())

	player, err := ts.app.Resolver.Resolve(t.Context(), guest.SessionToken)
	require.NoError(t, err)
	session := ts.app.Sessions.Create(player)
	go session.Run(t.Context())
	session.Submit(protocol.Join())

	var list response.RoomList
	require.Eventually(t, func() bool {
		rr := ts.request(http.MethodGet, "/api/v1/rooms", nil, guest.SessionToken)
		if rr.Code != http.StatusOK {
			return false
		}
		list = response.RoomList{}
		return json.Unmarshal(rr.Body.Bytes(), &list) == nil && len(list.Rooms) == 1
	}, 2*time.Second, 5*time.Millisecond)

	room := list.Rooms[0]
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, 2, room.Capacity)
	assert.False(t, room.Started)
	assert.Nil(t, room.TurnSeat)
	require.Len(t, room.Players, 1)
	assert.Equal(t, "Alice", room.Players[0].DisplayName)
}
