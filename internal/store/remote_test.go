package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/existflow/daygrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemote_LoadCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/categories", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"categories": []wireCategory{
				{ID: "c1", Name: "Work", Color: "#A0C4FF"},
				{ID: "c2", Name: "Gym", Color: "#CAFFBF"},
			},
		})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok-1", "user-1")
	cats, err := r.LoadCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Work", cats[0].Name)
	assert.Equal(t, "Gym", cats[1].Name)
}

func TestRemote_LoadTodos_GroupsAndResolvesNullCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"todos": []wireTodo{
				{ID: "t2", Text: "second", DayKey: "2024-03-10", CreatedAt: "2024-03-10T02:00:00Z", Position: 1},
				{ID: "t1", Text: "first", CategoryID: "c1", DayKey: "2024-03-10", CreatedAt: "2024-03-10T01:00:00Z", Position: 0},
				{ID: "t3", Text: "other day", DayKey: "2024-03-11", CreatedAt: "2024-03-11T01:00:00Z", Position: 0},
			},
		})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok-1", "user-1")
	todos, err := r.LoadTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)

	day := todos["2024-03-10"]
	require.Len(t, day, 2)
	assert.Equal(t, "first", day[0].Text)
	assert.Equal(t, "c1", day[0].CategoryID)
	// Null category reference resolves under the sentinel.
	assert.Equal(t, model.DefaultCategoryID, day[1].CategoryID)
	assert.Equal(t, int64(1710032400000), day[0].CreatedAt)
}

func TestRemote_ReplaceTodosForDay_NullsLocalCategoryIDs(t *testing.T) {
	var got struct {
		Todos []wireTodo `json:"todos"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/todos/2024-03-10", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok-1", "user-1")
	err := r.ReplaceTodosForDay(context.Background(), "2024-03-10", []model.TodoItem{
		{ID: "t1", Text: "seeded cat", CategoryID: "cat-1", CreatedAt: 1710032400000},
		{ID: "t2", Text: "sentinel", CategoryID: model.DefaultCategoryID},
		{ID: "t3", Text: "real cat", CategoryID: "c9"},
	})
	require.NoError(t, err)

	require.Len(t, got.Todos, 3)
	// Sentinel and locally-seeded ids are not rows remotely: sent as null.
	assert.Empty(t, got.Todos[0].CategoryID)
	assert.Empty(t, got.Todos[1].CategoryID)
	assert.Equal(t, "c9", got.Todos[2].CategoryID)
	// Explicit list order is carried as position.
	assert.Equal(t, 0, got.Todos[0].Position)
	assert.Equal(t, 2, got.Todos[2].Position)
	assert.Equal(t, "2024-03-10", got.Todos[0].DayKey)
}

func TestRemote_ReplaceCategories_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok-1", "user-1")
	err := r.ReplaceCategories(context.Background(), []model.Category{{ID: "c1", Name: "Work"}})
	assert.Error(t, err)
	assert.False(t, Syncing(), "syncing indicator must be released on failure")
}

func TestRemote_SyncingIndicatorToggles(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, "tok-1", "user-1")
	done := make(chan error, 1)
	go func() {
		done <- r.ReplaceCategories(context.Background(), nil)
	}()

	// The indicator turns on while the write is in flight.
	assert.Eventually(t, Syncing, 2*time.Second, time.Millisecond)

	close(release)
	require.NoError(t, <-done)
	assert.Eventually(t, func() bool { return !Syncing() }, 2*time.Second, time.Millisecond)
}
