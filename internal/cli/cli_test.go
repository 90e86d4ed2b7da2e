package cli

import (
	"testing"

	"github.com/existflow/daygrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTodoByPrefix(t *testing.T) {
	items := []model.TodoItem{
		{ID: "3fa85f64-aaaa", Text: "first"},
		{ID: "3fb91c22-bbbb", Text: "second"},
		{ID: "77e00000-cccc", Text: "third"},
	}

	got, err := findTodoByPrefix(items, "77e")
	require.NoError(t, err)
	assert.Equal(t, "third", got.Text)

	_, err = findTodoByPrefix(items, "3f")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = findTodoByPrefix(items, "zz")
	assert.ErrorContains(t, err, "no todo")
}

func TestFindCategoryByName(t *testing.T) {
	cats := model.DefaultCategories()

	got, ok := findCategoryByName(cats, "work")
	require.True(t, ok)
	assert.Equal(t, "cat-1", got.ID)

	_, ok = findCategoryByName(cats, "Gym")
	assert.False(t, ok)
}

func TestResolveDayArg(t *testing.T) {
	key, err := resolveDayArg([]string{"2024-03-10"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", key)

	_, err = resolveDayArg([]string{"10/03/2024"})
	assert.Error(t, err)

	key, err = resolveDayArg(nil)
	require.NoError(t, err)
	assert.Len(t, key, 10)
}

