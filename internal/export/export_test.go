package export

import (
	"strings"
	"testing"
	"time"

	"github.com/existflow/daygrid/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMonthCalendar(t *testing.T) {
	cats := model.DefaultCategories()
	todos := model.DayTodos{
		"2024-03-10": {
			{ID: "id-1", Text: "Buy groceries", CategoryID: "cat-1", CreatedAt: time.Now().UnixMilli()},
			{ID: "id-2", Text: "Run 5k", Completed: true, CategoryID: "missing", CreatedAt: time.Now().UnixMilli()},
		},
		// Outside the exported month, must not appear.
		"2024-04-01": {
			{ID: "id-3", Text: "April fool", CreatedAt: time.Now().UnixMilli()},
		},
	}

	out := MonthCalendar(todos, cats, 2024, time.March).Serialize()

	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:id-1@daygrid")
	assert.Contains(t, out, "Buy groceries")
	assert.Contains(t, out, "Tag: Work")
	// Dangling category reference exports under the built-in tag.
	assert.Contains(t, out, "Tag: "+model.DefaultCategoryName)
	assert.Contains(t, out, "✓ Run 5k")
	assert.NotContains(t, out, "April fool")
}

func TestMonthCalendarEmpty(t *testing.T) {
	out := MonthCalendar(model.DayTodos{}, nil, 2024, time.February).Serialize()
	assert.NotContains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "BEGIN:VCALENDAR")
}
