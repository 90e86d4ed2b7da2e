package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [id-prefix]",
	Aliases: []string{"rm"},
	Short:   "Delete a todo",
	Long: `Delete a todo by id prefix (as shown by 'daygrid day').

Examples:
  daygrid delete 3fa8
  daygrid delete 3fa8 --date 2024-03-10`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteDate string

func init() {
	deleteCmd.Flags().StringVarP(&deleteDate, "date", "d", "", "Day to look in (YYYY-MM-DD, default today)")
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	var dateArgs []string
	if deleteDate != "" {
		dateArgs = []string{deleteDate}
	}
	dayKey, err := resolveDayArg(dateArgs)
	if err != nil {
		return err
	}

	item, err := findTodoByPrefix(env.State.TodosForDay(dayKey), args[0])
	if err != nil {
		return err
	}

	env.State.DeleteTodo(dayKey, item.ID)
	fmt.Printf("✓ Deleted %q from %s\n", item.Text, dayKey)
	return nil
}
