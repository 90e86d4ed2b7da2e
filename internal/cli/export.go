package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/existflow/daygrid/internal/dateutil"
	"github.com/existflow/daygrid/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [YYYY-MM]",
	Short: "Export a month's todos as an iCalendar file",
	Long: `Export one month's todos as all-day VEVENTs, one per todo, to stdout
or a file. Other calendar apps can import the result.

Examples:
  daygrid export
  daygrid export 2024-03 -o march.ics`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var exportOut string

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	cal := export.MonthCalendar(env.State.AllTodos(), env.State.Categories(), year, month)
	serialized := cal.Serialize()

	if exportOut == "" {
		fmt.Print(serialized)
		return nil
	}
	if err := os.WriteFile(exportOut, []byte(serialized), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	events := strings.Count(serialized, "BEGIN:VEVENT")
	fmt.Printf("✓ Wrote %d events to %s\n", events, exportOut)
	return nil
}
