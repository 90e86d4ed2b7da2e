package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/existflow/daygrid/internal/model"
	"github.com/existflow/daygrid/internal/store"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	calendar := m.renderCalendar()
	dayList := m.renderDayList()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, calendar, dayList)

	// Add modal if in input mode
	if m.mode == ModeAddTodo || m.mode == ModeAddTag {
		modal := m.renderModal()
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeSuggest {
		modal := m.renderSuggestModal()
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

const calendarWidth = 44

func (m Model) renderCalendar() string {
	var s string

	// Header: app name, user, month
	title := "daygrid"
	if user := m.session.User(); user != nil {
		title = fmt.Sprintf("daygrid · %s", truncate(user.Nickname, 16))
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n"
	s += HelpStyle.Render(fmt.Sprintf("%s %d", m.month.String(), m.year)) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", calendarWidth-6)) + "\n\n"

	s += HelpStyle.Render("  Su  Mo  Tu  We  Th  Fr  Sa") + "\n"

	todos := m.state.AllTodos()
	cats := m.state.Categories()
	firstWeekday, daysInMonth := dateutil.MonthDetails(m.year, m.month)
	todayKey := dateutil.DayKey(dateutil.Now())
	selectedKey := m.selectedKey()

	// Every cell renders 4 columns wide so weeks line up without joins.
	var row []string
	for i := 0; i < firstWeekday; i++ {
		row = append(row, "    ")
	}
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(m.year, m.month, d, 0, 0, 0, 0, dateutil.Location())
		key := dateutil.DayKey(day)

		style := DayCellStyle
		if key == todayKey {
			style = DayCellTodayStyle
		}
		if key == selectedKey {
			style = DayCellSelectedStyle
		}
		cell := style.Render(fmt.Sprintf("%2d", d))
		row = append(row, cell)

		if len(row) == 7 {
			s += " " + strings.Join(row, "") + "\n"
			s += " " + m.renderDotRow(row, d, todos, cats) + "\n"
			row = nil
		}
	}
	if len(row) > 0 {
		s += " " + strings.Join(row, "") + "\n"
		s += " " + m.renderDotRow(row, daysInMonth, todos, cats) + "\n"
	}

	// Tag legend with this month's counts
	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render(repeat("─", calendarWidth-6)) + "\n"
	s += m.renderLegend(todos, cats)

	return CalendarStyle.Width(calendarWidth).Height(m.height - 2).Render(s)
}

// renderDotRow draws one colored dot under each day of a rendered week that
// has todos, in the color of the day's first tag.
func (m Model) renderDotRow(row []string, lastDay int, todos model.DayTodos, cats []model.Category) string {
	firstDay := lastDay - len(row) + 1
	var parts []string
	for i := range row {
		d := firstDay + i
		if d < 1 || d > lastDay {
			parts = append(parts, "    ")
			continue
		}
		key := dateutil.DayKey(time.Date(m.year, m.month, d, 0, 0, 0, 0, dateutil.Location()))
		items := todos[key]
		if len(items) == 0 {
			parts = append(parts, "    ")
			continue
		}
		cat := model.ResolveCategory(cats, items[0].CategoryID)
		parts = append(parts, "  "+TagStyle(cat.Color).Render("●")+" ")
	}
	return strings.Join(parts, "")
}

// renderLegend lists tags with this month's per-tag todo counts.
func (m Model) renderLegend(todos model.DayTodos, cats []model.Category) string {
	counts := make(map[string]int)
	for _, key := range dateutil.MonthKeys(m.year, m.month) {
		for _, it := range todos[key] {
			counts[model.ResolveCategory(cats, it.CategoryID).ID]++
		}
	}

	var s string
	sentinel := model.SentinelCategory()
	if counts[sentinel.ID] > 0 {
		s += fmt.Sprintf("%s %-12s %d\n", TagStyle(sentinel.Color).Render("●"), sentinel.Name, counts[sentinel.ID])
	}
	for _, c := range cats {
		s += fmt.Sprintf("%s %-12s %d\n", TagStyle(c.Color).Render("●"), truncate(c.Name, 12), counts[c.ID])
	}
	return s
}

func (m Model) renderDayList() string {
	width := m.width - calendarWidth - 2
	var s string

	items := m.selectedTodos()
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}

	header := m.selectedKey()
	if len(items) > 0 {
		header = fmt.Sprintf("%s (%d/%d done)", m.selectedKey(), done, len(items))
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	if len(items) == 0 {
		s += HelpStyle.Render("  Nothing planned. Press 'a' to add a todo.")
	}

	cats := m.state.Categories()
	for i, it := range items {
		cursor := "  "
		style := TodoItemStyle
		if i == m.todoCursor && m.pane == PaneDayList {
			cursor = "❯ "
			style = TodoItemSelectedStyle
		}

		icon := "[ ]"
		if it.Completed {
			icon = "[x]"
			style = TodoDoneStyle
		}

		cat := model.ResolveCategory(cats, it.CategoryID)
		tag := TagStyle(cat.Color).Render("#" + truncate(cat.Name, 10))

		line := style.Render(fmt.Sprintf("%s%s %-*s", cursor, icon, width-20, truncate(it.Text, width-22)))
		s += line + " " + tag + "\n"
	}

	return DayListStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderStatusBar() string {
	help := "a:add  x:done  d:del  J/K:reorder  c:tag  g:suggest  [/]:month  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}

	syncMsg := ""
	if store.Syncing() {
		syncMsg = "Syncing..."
	}

	if syncMsg != "" {
		avail := m.width - len(help) - len(syncMsg) - 2
		if avail > 0 {
			help += strings.Repeat(" ", avail) + syncMsg
		} else {
			help += " " + syncMsg
		}
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := fmt.Sprintf("Add Todo · %s", m.selectedKey())
	if m.mode == ModeAddTag {
		title = "New Tag"
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderSuggestModal() string {
	modalWidth := 55

	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Suggestions") + "  "
	content += HelpStyle.Render(m.selectedKey()) + "\n\n"

	if m.suggestBusy {
		content += HelpStyle.Render("Thinking...") + "\n"
	} else {
		for i, s := range m.suggestions {
			marker := "  "
			style := lipgloss.NewStyle()
			if i == m.suggestCursor {
				marker = "❯ "
				style = lipgloss.NewStyle().Bold(true).Foreground(Primary)
			}
			content += style.Render(marker+truncate(s, modalWidth-10)) + "\n"
		}
	}

	content += "\n" + HelpStyle.Render("↑↓:nav  Enter:add  Esc:close")

	return ModalStyle.Width(modalWidth).Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  h/l ←/→  Prev/next day  │
│  j/k ↓/↑  Week / cursor  │
│  [ ]      Change month   │
│  t        Jump to today  │
│  Tab      Switch pane    │
│                          │
│  Actions                 │
│  ───────                 │
│  a       Add todo        │
│  x/Enter Toggle done     │
│  d       Delete          │
│  J/K     Reorder         │
│  c       Cycle tag       │
│  T       New tag         │
│  g       Suggestions     │
│                          │
│  Other                   │
│  ─────                   │
│  R       Refresh         │
│  L       Logout          │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
