package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/existflow/daygrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := OpenLocal(filepath.Join(t.TempDir(), "guest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLocal_LoadEmpty(t *testing.T) {
	l := openTestLocal(t)
	ctx := context.Background()

	cats, err := l.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Nil(t, cats)

	todos, err := l.LoadTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestLocal_ReplaceCategoriesRoundTrip(t *testing.T) {
	l := openTestLocal(t)
	ctx := context.Background()

	cats := []model.Category{
		{ID: "cat-1", Name: "Work", Color: model.PastelColors[0]},
		{ID: "g1", Name: "Gym", Color: model.PastelColors[2]},
	}
	require.NoError(t, l.ReplaceCategories(ctx, cats))

	got, err := l.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, cats, got)

	// Replacement is exact: shrinking the sequence shrinks the store.
	require.NoError(t, l.ReplaceCategories(ctx, cats[:1]))
	got, err = l.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, cats[:1], got)
}

func TestLocal_ReplaceTodosForDay_ScopedToKey(t *testing.T) {
	l := openTestLocal(t)
	ctx := context.Background()

	monday := []model.TodoItem{{ID: "t1", Text: "Run 5k", CategoryID: "default", CreatedAt: 100}}
	tuesday := []model.TodoItem{{ID: "t2", Text: "Ship release", CategoryID: "cat-1", CreatedAt: 200}}
	require.NoError(t, l.ReplaceTodosForDay(ctx, "2024-03-10", monday))
	require.NoError(t, l.ReplaceTodosForDay(ctx, "2024-03-11", tuesday))

	todos, err := l.LoadTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, monday, todos["2024-03-10"])
	assert.Equal(t, tuesday, todos["2024-03-11"])
}

func TestLocal_ReplaceTodosForDay_EmptyClearsOnlyThatKey(t *testing.T) {
	l := openTestLocal(t)
	ctx := context.Background()

	require.NoError(t, l.ReplaceTodosForDay(ctx, "2024-03-10",
		[]model.TodoItem{{ID: "t1", Text: "Run 5k", CategoryID: "default"}}))
	require.NoError(t, l.ReplaceTodosForDay(ctx, "2024-03-11",
		[]model.TodoItem{{ID: "t2", Text: "Ship release", CategoryID: "cat-1"}}))

	require.NoError(t, l.ReplaceTodosForDay(ctx, "2024-03-10", nil))

	todos, err := l.LoadTodos(ctx)
	require.NoError(t, err)
	_, present := todos["2024-03-10"]
	assert.False(t, present, "cleared day should be absent, not an empty stored list")
	assert.Len(t, todos["2024-03-11"], 1)
}

func TestLocal_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guest.db")
	ctx := context.Background()

	l, err := OpenLocal(path)
	require.NoError(t, err)
	cats := []model.Category{{ID: "g1", Name: "Gym", Color: model.PastelColors[2]}}
	require.NoError(t, l.ReplaceCategories(ctx, cats))
	require.NoError(t, l.ReplaceTodosForDay(ctx, "2024-03-10",
		[]model.TodoItem{{ID: "t1", Text: "Run 5k", CategoryID: "g1"}}))
	require.NoError(t, l.Close())

	l, err = OpenLocal(path)
	require.NoError(t, err)
	defer l.Close()

	got, err := l.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, cats, got)

	todos, err := l.LoadTodos(ctx)
	require.NoError(t, err)
	assert.Len(t, todos["2024-03-10"], 1)
	assert.Equal(t, "Run 5k", todos["2024-03-10"][0].Text)
}
