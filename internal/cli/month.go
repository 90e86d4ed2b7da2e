package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var monthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show the month grid with per-day todo counts",
	Long: `Show the month grid. Each day cell shows how many todos are planned
and how many of those are done.

Examples:
  daygrid month
  daygrid month 2024-03`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMonth,
}

func runMonth(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	now := dateutil.Now()
	year, month := now.Year(), now.Month()
	if len(args) == 1 {
		parsed, err := time.ParseInLocation("2006-01", args[0], dateutil.Location())
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", args[0])
		}
		year, month = parsed.Year(), parsed.Month()
	}

	todos := env.State.AllTodos()
	firstWeekday, daysInMonth := dateutil.MonthDetails(year, month)
	todayKey := dateutil.DayKey(now)

	header := color.New(color.Bold, color.FgCyan)
	header.Printf("\n   %s %d\n", month.String(), year)
	fmt.Println("   Sun    Mon    Tue    Wed    Thu    Fri    Sat")

	cells := make([]string, 0, firstWeekday+daysInMonth)
	for i := 0; i < firstWeekday; i++ {
		cells = append(cells, "      ")
	}
	for d := 1; d <= daysInMonth; d++ {
		key := dateutil.DayKey(time.Date(year, month, d, 0, 0, 0, 0, dateutil.Location()))
		items := todos[key]
		done := 0
		for _, it := range items {
			if it.Completed {
				done++
			}
		}

		cell := fmt.Sprintf("%2d    ", d)
		if len(items) > 0 {
			cell = fmt.Sprintf("%2d %d/%d", d, done, len(items))
		}
		if key == todayKey {
			cell = color.New(color.Bold, color.FgYellow).Sprint(cell)
		}
		cells = append(cells, cell)
	}

	for i := 0; i < len(cells); i += 7 {
		end := i + 7
		if end > len(cells) {
			end = len(cells)
		}
		fmt.Println("  " + strings.Join(cells[i:end], " "))
	}

	total := 0
	for _, key := range dateutil.MonthKeys(year, month) {
		total += len(todos[key])
	}
	fmt.Printf("\n  %d todos this month\n\n", total)
	return nil
}
