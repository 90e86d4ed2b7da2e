package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/existflow/daygrid/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "List one day's todos",
	Long: `List one day's todos in their explicit order, with tag and status.

Examples:
  daygrid day
  daygrid day 2024-03-10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDay,
}

// resolveDayArg turns an optional date argument into a day key, defaulting
// to today.
func resolveDayArg(args []string) (string, error) {
	if len(args) == 0 {
		return dateutil.DayKey(dateutil.Now()), nil
	}
	t, err := dateutil.ParseDayKey(args[0])
	if err != nil {
		return "", err
	}
	return dateutil.DayKey(t), nil
}

func runDay(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	dayKey, err := resolveDayArg(args)
	if err != nil {
		return err
	}

	items := env.State.TodosForDay(dayKey)
	cats := env.State.Categories()

	color.New(color.Bold).Printf("\n%s\n", dayKey)
	if len(items) == 0 {
		fmt.Println("  Nothing planned. Add one with: daygrid add \"Your todo\"")
		return nil
	}

	for i, it := range items {
		icon := "[ ]"
		if it.Completed {
			icon = "[x]"
		}
		cat := model.ResolveCategory(cats, it.CategoryID)
		shortID := it.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Printf("  %d. %s  %-8s  %-40s  %s\n", i+1, icon, shortID, it.Text,
			color.New(color.Faint).Sprintf("#%s", cat.Name))
	}

	// Per-tag breakdown, sentinel first
	counts := env.State.CountByCategory(dayKey)
	var parts []string
	ordered := append([]model.Category{model.SentinelCategory()}, cats...)
	for _, c := range ordered {
		if n := counts[c.ID]; n > 0 {
			parts = append(parts, fmt.Sprintf("#%s %d", c.Name, n))
		}
	}
	fmt.Println("\n  " + color.New(color.Faint).Sprint(strings.Join(parts, "  ")))
	return nil
}
