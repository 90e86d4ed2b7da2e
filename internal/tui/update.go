package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
)

// tickMsg is sent every second so the clock and the syncing indicator stay
// current, and so async loads from the remote target show up.
type tickMsg time.Time

// suggestResultMsg carries the outcome of an async suggestion request.
type suggestResultMsg struct {
	suggestions []string
	err         error
}

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.clampTodoCursor()
		return m, tickCmd()

	case suggestResultMsg:
		m.suggestBusy = false
		if msg.err != nil {
			logger.Warn("Suggestion request failed", logger.F("error", msg.err))
			m.mode = ModeNormal
			m.message = "Suggestions unavailable"
			return m, nil
		}
		if len(msg.suggestions) == 0 {
			m.mode = ModeNormal
			m.message = "No suggestions this time"
			return m, nil
		}
		m.suggestions = msg.suggestions
		m.suggestCursor = 0
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeAddTodo, ModeAddTag:
			return m.updateInput(msg)
		case ModeSuggest:
			return m.handleSuggestKeys(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneCalendar {
			m.pane = PaneDayList
			m.clampTodoCursor()
		} else {
			m.pane = PaneCalendar
		}

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case key.Matches(msg, keys.Left):
		if m.pane == PaneCalendar {
			m.setSelected(m.selected.AddDate(0, 0, -1))
		} else {
			m.pane = PaneCalendar
		}

	case key.Matches(msg, keys.Right):
		if m.pane == PaneCalendar {
			m.setSelected(m.selected.AddDate(0, 0, 1))
		} else {
			m.pane = PaneCalendar
		}

	case key.Matches(msg, keys.PrevMonth):
		m.setSelected(m.selected.AddDate(0, -1, 0))

	case key.Matches(msg, keys.NextMonth):
		m.setSelected(m.selected.AddDate(0, 1, 0))

	case key.Matches(msg, keys.Today):
		m.setSelected(m.todayMidnight())

	case key.Matches(msg, keys.Add):
		return m.startAddTodo()

	case key.Matches(msg, keys.NewTag):
		return m.startAddTag()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		if m.pane == PaneCalendar && key.Matches(msg, keys.Enter) {
			m.pane = PaneDayList
			m.clampTodoCursor()
		} else {
			m.handleToggleDone()
		}

	case key.Matches(msg, keys.Delete):
		m.handleDelete()

	case key.Matches(msg, keys.MoveUp):
		m.handleMove(-1)

	case key.Matches(msg, keys.MoveDown):
		m.handleMove(1)

	case key.Matches(msg, keys.Tag):
		m.handleCycleTag()

	case key.Matches(msg, keys.Suggest):
		return m.startSuggest()

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Logout):
		m.handleLogout()

	case key.Matches(msg, keys.Refresh):
		m.state.LoadAll(context.Background())
		m.clampTodoCursor()
		m.message = "Refreshed"
	}

	return m, nil
}

func (m *Model) todayMidnight() time.Time {
	now := dateutil.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, dateutil.Location())
}

func (m *Model) handleUp() {
	if m.pane == PaneCalendar {
		m.setSelected(m.selected.AddDate(0, 0, -7))
		return
	}
	if m.todoCursor > 0 {
		m.todoCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneCalendar {
		m.setSelected(m.selected.AddDate(0, 0, 7))
		return
	}
	if m.todoCursor < len(m.selectedTodos())-1 {
		m.todoCursor++
	}
}

func (m *Model) handleToggleDone() {
	item := m.currentTodo()
	if item == nil {
		return
	}
	m.state.ToggleTodo(m.selectedKey(), item.ID)
	if item.Completed {
		m.message = fmt.Sprintf("Reopened: %s", truncate(item.Text, 30))
	} else {
		m.message = fmt.Sprintf("Done: %s", truncate(item.Text, 30))
	}
}

func (m *Model) handleDelete() {
	item := m.currentTodo()
	if item == nil {
		return
	}
	m.state.DeleteTodo(m.selectedKey(), item.ID)
	m.clampTodoCursor()
	m.message = fmt.Sprintf("Deleted: %s", truncate(item.Text, 30))
}

// handleMove swaps the todo under the cursor with its neighbor, persisting
// the new explicit order.
func (m *Model) handleMove(delta int) {
	items := m.selectedTodos()
	i := m.todoCursor
	j := i + delta
	if i < 0 || i >= len(items) || j < 0 || j >= len(items) {
		return
	}
	items[i], items[j] = items[j], items[i]
	m.state.SetDayTodos(m.selectedKey(), items)
	m.todoCursor = j
}

// handleCycleTag advances the todo under the cursor to the next tag, built-in
// tag included.
func (m *Model) handleCycleTag() {
	item := m.currentTodo()
	if item == nil {
		return
	}

	cats := m.state.Categories()
	ring := make([]string, 0, len(cats)+1)
	ring = append(ring, model.DefaultCategoryID)
	for _, c := range cats {
		ring = append(ring, c.ID)
	}

	current := model.ResolveCategory(cats, item.CategoryID).ID
	next := ring[0]
	for i, id := range ring {
		if id == current {
			next = ring[(i+1)%len(ring)]
			break
		}
	}

	items := m.selectedTodos()
	for i := range items {
		if items[i].ID == item.ID {
			items[i].CategoryID = next
		}
	}
	m.state.SetDayTodos(m.selectedKey(), items)
	m.message = fmt.Sprintf("Tagged #%s", model.ResolveCategory(cats, next).Name)
}

func (m *Model) handleLogout() {
	if !m.auth.IsLoggedIn() {
		m.message = "Not logged in"
		return
	}
	if err := m.auth.Logout(); err != nil {
		logger.Error("Logout failed", logger.F("error", err))
		m.message = "Logout failed"
		return
	}
	m.clampTodoCursor()
	m.message = "Logged out. Back to guest mode."
}

func (m Model) startAddTodo() (tea.Model, tea.Cmd) {
	m.mode = ModeAddTodo
	m.input.Placeholder = "Enter todo..."
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) startAddTag() (tea.Model, tea.Cmd) {
	m.mode = ModeAddTag
	m.input.Placeholder = "Tag name..."
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

// startSuggest fires an async suggestion request for the selected day.
func (m Model) startSuggest() (tea.Model, tea.Cmd) {
	if !m.suggester.Enabled() {
		m.message = "No suggestion API key configured"
		return m, nil
	}

	cats := m.state.Categories()
	categoryName := model.ResolveCategory(cats, m.addTagID).Name
	existing := make([]string, 0)
	for _, it := range m.selectedTodos() {
		existing = append(existing, it.Text)
	}

	m.mode = ModeSuggest
	m.suggestBusy = true
	m.suggestions = nil
	m.suggestCursor = 0

	suggester := m.suggester
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		suggestions, err := suggester.Suggest(ctx, categoryName, existing)
		return suggestResultMsg{suggestions: suggestions, err: err}
	}
}

// updateInput handles key presses while the input modal is open
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := m.input.Value()
		switch m.mode {
		case ModeAddTodo:
			if m.state.AddTodo(m.selectedKey(), value, m.addTagID) {
				m.pane = PaneDayList
				m.todoCursor = len(m.selectedTodos()) - 1
				m.message = "Added"
			}
		case ModeAddTag:
			if m.state.AddCategory(value, "") {
				m.message = "Tag added"
			}
		}
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSuggestKeys handles key presses while the suggestion overlay is open
func (m Model) handleSuggestKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		m.mode = ModeNormal
		m.suggestions = nil
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.suggestCursor > 0 {
			m.suggestCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.suggestCursor < len(m.suggestions)-1 {
			m.suggestCursor++
		}

	case key.Matches(msg, keys.Enter):
		if m.suggestCursor < len(m.suggestions) {
			text := m.suggestions[m.suggestCursor]
			if m.state.AddTodo(m.selectedKey(), text, m.addTagID) {
				m.message = fmt.Sprintf("Added: %s", truncate(text, 30))
			}
		}
		m.mode = ModeNormal
		m.suggestions = nil
		return m, nil
	}

	return m, nil
}
