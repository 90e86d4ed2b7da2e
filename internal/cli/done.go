package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/daygrid/internal/model"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [id-prefix]",
	Short: "Toggle a todo's completed flag",
	Long: `Toggle a todo by id prefix (as shown by 'daygrid day').

Examples:
  daygrid done 3fa8
  daygrid done 3fa8 --date 2024-03-10`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneDate string

func init() {
	doneCmd.Flags().StringVarP(&doneDate, "date", "d", "", "Day to look in (YYYY-MM-DD, default today)")
}

// findTodoByPrefix resolves an id prefix to exactly one item.
func findTodoByPrefix(items []model.TodoItem, prefix string) (model.TodoItem, error) {
	var matches []model.TodoItem
	for _, it := range items {
		if strings.HasPrefix(it.ID, prefix) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return model.TodoItem{}, fmt.Errorf("no todo matching %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return model.TodoItem{}, fmt.Errorf("%q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func runDone(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	var dateArgs []string
	if doneDate != "" {
		dateArgs = []string{doneDate}
	}
	dayKey, err := resolveDayArg(dateArgs)
	if err != nil {
		return err
	}

	item, err := findTodoByPrefix(env.State.TodosForDay(dayKey), args[0])
	if err != nil {
		return err
	}

	env.State.ToggleTodo(dayKey, item.ID)

	mark := "done"
	if item.Completed {
		mark = "not done"
	}
	fmt.Printf("✓ Marked %q %s\n", item.Text, mark)
	return nil
}
