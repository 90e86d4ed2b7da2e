package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/daygrid/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a todo",
	Long: `Add a todo to a day's list.

Examples:
  daygrid add "Buy groceries"
  daygrid add "Run 5k" --tag Gym
  daygrid add "Team offsite" --date 2024-03-10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDate string
	addTag  string
)

func init() {
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "Day to add to (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVarP(&addTag, "tag", "t", "", "Tag name (default uncategorized)")
}

// findCategoryByName matches a tag by case-insensitive name.
func findCategoryByName(cats []model.Category, name string) (model.Category, bool) {
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return model.Category{}, false
}

func runAdd(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	var dateArgs []string
	if addDate != "" {
		dateArgs = []string{addDate}
	}
	dayKey, err := resolveDayArg(dateArgs)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")

	categoryID := model.DefaultCategoryID
	if addTag != "" {
		cat, ok := findCategoryByName(env.State.Categories(), addTag)
		if !ok {
			return fmt.Errorf("no tag named %q, see: daygrid tag list", addTag)
		}
		categoryID = cat.ID
	}

	if !env.State.AddTodo(dayKey, text, categoryID) {
		return fmt.Errorf("todo text must not be empty")
	}

	fmt.Printf("✓ Added to %s: %q\n", dayKey, strings.TrimSpace(text))
	return nil
}
