package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/daygrid/internal/app"
	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
	"github.com/existflow/daygrid/internal/session"
	"github.com/existflow/daygrid/internal/suggest"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneCalendar Pane = iota
	PaneDayList
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTodo
	ModeAddTag
	ModeSuggest
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	state     *app.State
	session   *session.Manager
	auth      *session.Client
	suggester *suggest.Client

	// Calendar position
	year     int
	month    time.Month
	selected time.Time // selected day, midnight in the app zone

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	todoCursor int

	// Input
	input textinput.Model

	// Tag chosen for the todo being added
	addTagID string

	// Suggestion overlay
	suggestions   []string
	suggestCursor int
	suggestBusy   bool

	message string
}

// NewModel creates a new TUI model positioned on today.
func NewModel(state *app.State, mgr *session.Manager, auth *session.Client, suggester *suggest.Client) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter todo..."
	ti.CharLimit = 256
	ti.Width = 50

	now := dateutil.Now()
	m := Model{
		state:     state,
		session:   mgr,
		auth:      auth,
		suggester: suggester,
		year:      now.Year(),
		month:     now.Month(),
		selected:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, dateutil.Location()),
		pane:      PaneCalendar,
		mode:      ModeNormal,
		input:     ti,
		addTagID:  model.DefaultCategoryID,
	}

	logger.Debug("TUI model initialized",
		logger.F("day", dateutil.DayKey(m.selected)),
		logger.F("authenticated", mgr.Authenticated()))
	return m
}

// selectedKey is the day key of the selected day.
func (m *Model) selectedKey() string {
	return dateutil.DayKey(m.selected)
}

// selectedTodos is the selected day's list in display order.
func (m *Model) selectedTodos() []model.TodoItem {
	return m.state.TodosForDay(m.selectedKey())
}

// currentTodo returns the todo under the cursor, or nil.
func (m *Model) currentTodo() *model.TodoItem {
	items := m.selectedTodos()
	if m.todoCursor < len(items) {
		return &items[m.todoCursor]
	}
	return nil
}

// clampTodoCursor keeps the cursor inside the selected day's list.
func (m *Model) clampTodoCursor() {
	n := len(m.selectedTodos())
	if m.todoCursor >= n {
		m.todoCursor = n - 1
	}
	if m.todoCursor < 0 {
		m.todoCursor = 0
	}
}

// setSelected moves the selection, following it across month boundaries.
func (m *Model) setSelected(day time.Time) {
	m.selected = day
	m.year = day.Year()
	m.month = day.Month()
	m.clampTodoCursor()
}
