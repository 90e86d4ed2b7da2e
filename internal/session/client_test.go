package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	c, err := NewClient(serverURL)
	require.NoError(t, err)
	return c
}

func TestClient_LoginNotifiesSubscribers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "user_id": "u1"})
		case "/api/v1/me":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{
				"id": "u1", "name": "Dana Kim", "nickname": "dana", "avatar_url": "https://img/d.png",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	var got *Identity
	unsub := c.Subscribe(func(id *Identity) { got = id })
	defer unsub()

	require.NoError(t, c.Login("dana", "hunter22"))

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.User.ID)
	// Full name is preferred over the nickname field.
	assert.Equal(t, "Dana Kim", got.User.Nickname)
	assert.Equal(t, "tok-1", got.Token)
	assert.True(t, c.IsLoggedIn())
}

func TestClient_RestoreNicknameFallbacks(t *testing.T) {
	profile := map[string]string{"id": "u1"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(profile)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.config.Token = "tok-1"

	// Neither name nor nickname: fixed guest label.
	id, err := c.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "Guest User", id.User.Nickname)

	profile["nickname"] = "dana"
	id, err = c.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dana", id.User.Nickname)
}

func TestClient_RestoreNoToken(t *testing.T) {
	c := newTestClient(t, "http://localhost:0")

	id, err := c.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestClient_RestoreExpiredTokenDropsIt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.config.Token = "stale"

	id, err := c.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.False(t, c.IsLoggedIn())
}

func TestClient_LogoutClearsAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.config.Token = "tok-1"
	c.config.UserID = "u1"

	notified := false
	var got *Identity
	unsub := c.Subscribe(func(id *Identity) { notified, got = true, id })
	defer unsub()

	require.NoError(t, c.Logout())
	assert.True(t, notified)
	assert.Nil(t, got)
	assert.False(t, c.IsLoggedIn())
}

func TestClient_UnsubscribeStopsNotifications(t *testing.T) {
	c := newTestClient(t, "http://localhost:0")

	calls := 0
	unsub := c.Subscribe(func(*Identity) { calls++ })
	unsub()

	c.notify(nil)
	assert.Equal(t, 0, calls)
}
