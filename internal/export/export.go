// Package export renders a month of todos as an iCalendar object other
// calendar apps can import.
package export

import (
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/existflow/daygrid/internal/model"
)

// MonthCalendar renders one month of todos, one all-day VEVENT per todo,
// tagged with its category name and completion state.
func MonthCalendar(todos model.DayTodos, cats []model.Category, year int, month time.Month) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//daygrid//daygrid//EN")

	keys := dateutil.MonthKeys(year, month)
	sort.Strings(keys)

	now := time.Now()
	for _, key := range keys {
		day, err := dateutil.ParseDayKey(key)
		if err != nil {
			continue
		}
		for _, it := range todos[key] {
			cat := model.ResolveCategory(cats, it.CategoryID)

			ev := cal.AddEvent(it.ID + "@daygrid")
			ev.SetCreatedTime(time.UnixMilli(it.CreatedAt))
			ev.SetDtStampTime(now)
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))

			summary := it.Text
			if it.Completed {
				summary = "✓ " + summary
			}
			ev.SetSummary(summary)
			ev.SetDescription(fmt.Sprintf("Tag: %s", cat.Name))
			if it.Completed {
				ev.SetStatus(ical.ObjectStatusCompleted)
			}
		}
	}
	return cal
}
