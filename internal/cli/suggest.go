package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/existflow/daygrid/internal/config"
	"github.com/existflow/daygrid/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask for todo suggestions",
	Long: `Ask the configured suggestion service for candidate todos, based on a
tag and what is already planned that day. Requires suggest_api_key in the
config file.

Examples:
  daygrid suggest
  daygrid suggest --tag Gym --date 2024-03-10`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

var (
	suggestDate string
	suggestTag  string
)

func init() {
	suggestCmd.Flags().StringVarP(&suggestDate, "date", "d", "", "Day to suggest for (YYYY-MM-DD, default today)")
	suggestCmd.Flags().StringVarP(&suggestTag, "tag", "t", "", "Tag to suggest for (default the built-in tag)")
}

// configHint names the config file path for error messages.
func configHint() string {
	dir, err := config.Dir()
	if err != nil {
		return "~/.daygrid/config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.Suggester.Enabled() {
		return fmt.Errorf("no suggestion API key configured, set suggest_api_key in %s", configHint())
	}

	var dateArgs []string
	if suggestDate != "" {
		dateArgs = []string{suggestDate}
	}
	dayKey, err := resolveDayArg(dateArgs)
	if err != nil {
		return err
	}

	categoryName := model.DefaultCategoryName
	if suggestTag != "" {
		cat, ok := findCategoryByName(env.State.Categories(), suggestTag)
		if !ok {
			return fmt.Errorf("no tag named %q, see: daygrid tag list", suggestTag)
		}
		categoryName = cat.Name
	}

	existing := make([]string, 0)
	for _, it := range env.State.TodosForDay(dayKey) {
		existing = append(existing, it.Text)
	}

	fmt.Println("Thinking...")
	suggestions, err := env.Suggester.Suggest(context.Background(), categoryName, existing)
	if err != nil {
		return fmt.Errorf("suggestion failed: %w", err)
	}
	if len(suggestions) == 0 {
		fmt.Println("No suggestions this time.")
		return nil
	}

	color.New(color.Bold).Printf("\nSuggestions for %s (#%s):\n", dayKey, categoryName)
	for i, s := range suggestions {
		fmt.Printf("  %d. %s\n", i+1, s)
	}
	fmt.Println("\nAdd one with: daygrid add \"...\"")
	return nil
}
