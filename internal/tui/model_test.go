package tui

import (
	"testing"
	"time"

	"github.com/existflow/daygrid/internal/app"
	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/existflow/daygrid/internal/session"
	"github.com/existflow/daygrid/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *app.State) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	state := app.New()
	auth, err := session.NewClient("http://localhost:0")
	require.NoError(t, err)
	mgr := session.NewManager(auth, state, nil, "http://localhost:0")

	return NewModel(state, mgr, auth, suggest.NewClient("", "")), state
}

func TestNewModel_StartsOnToday(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, dateutil.DayKey(dateutil.Now()), m.selectedKey())
	assert.Equal(t, PaneCalendar, m.pane)
	assert.Equal(t, ModeNormal, m.mode)
}

func TestSetSelected_FollowsMonthBoundary(t *testing.T) {
	m, _ := newTestModel(t)

	day := time.Date(2024, time.March, 31, 0, 0, 0, 0, dateutil.Location())
	m.setSelected(day)
	m.setSelected(m.selected.AddDate(0, 0, 1))

	assert.Equal(t, time.April, m.month)
	assert.Equal(t, "2024-04-01", m.selectedKey())
}

func TestCurrentTodo_TracksCursor(t *testing.T) {
	m, state := newTestModel(t)

	key := m.selectedKey()
	require.True(t, state.AddTodo(key, "one", ""))
	require.True(t, state.AddTodo(key, "two", ""))

	m.todoCursor = 1
	got := m.currentTodo()
	require.NotNil(t, got)
	assert.Equal(t, "two", got.Text)

	m.todoCursor = 5
	assert.Nil(t, m.currentTodo())
	m.clampTodoCursor()
	assert.Equal(t, 1, m.todoCursor)
}

func TestHandleMove_SwapsAndPersistsOrder(t *testing.T) {
	m, state := newTestModel(t)
	key := m.selectedKey()
	require.True(t, state.AddTodo(key, "one", ""))
	require.True(t, state.AddTodo(key, "two", ""))

	m.pane = PaneDayList
	m.todoCursor = 0
	m.handleMove(1)

	items := state.TodosForDay(key)
	require.Len(t, items, 2)
	assert.Equal(t, "two", items[0].Text)
	assert.Equal(t, "one", items[1].Text)
	assert.Equal(t, 1, m.todoCursor)
}
