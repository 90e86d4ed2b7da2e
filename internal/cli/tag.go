package cli

import (
	"fmt"

	"github.com/existflow/daygrid/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
	Long: `Manage the color-coded tags todos are grouped under.

The built-in "` + model.DefaultCategoryName + `" tag collects untagged todos and cannot be
renamed or deleted.`,
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags in display order",
	Args:  cobra.NoArgs,
	RunE:  runTagList,
}

var tagAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename [name] [new-name]",
	Short: "Rename a tag",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagRename,
}

var tagDeleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm"},
	Short:   "Delete a tag (its todos fall back to the built-in tag)",
	Args:    cobra.ExactArgs(1),
	RunE:    runTagDelete,
}

var tagColor string

func init() {
	tagAddCmd.Flags().StringVarP(&tagColor, "color", "c", "", "Hex color (default next palette color)")

	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRenameCmd)
	tagCmd.AddCommand(tagDeleteCmd)
}

func runTagList(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Println()
	fmt.Printf("  ●  %-16s %s\n", model.DefaultCategoryName,
		color.New(color.Faint).Sprint(model.DefaultCategoryColor+"  (built-in)"))
	for _, c := range env.State.Categories() {
		fmt.Printf("  ●  %-16s %s\n", c.Name, color.New(color.Faint).Sprint(c.Color))
	}
	fmt.Println()
	return nil
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	name := args[0]
	if _, exists := findCategoryByName(env.State.Categories(), name); exists {
		return fmt.Errorf("tag %q already exists", name)
	}
	if !env.State.AddCategory(name, tagColor) {
		return fmt.Errorf("tag name must not be empty")
	}
	fmt.Printf("✓ Added tag %q\n", name)
	return nil
}

func runTagRename(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	cat, ok := findCategoryByName(env.State.Categories(), args[0])
	if !ok {
		return fmt.Errorf("no tag named %q", args[0])
	}
	if !env.State.RenameCategory(cat.ID, args[1]) {
		return fmt.Errorf("cannot rename %q", args[0])
	}
	fmt.Printf("✓ Renamed %q to %q\n", cat.Name, args[1])
	return nil
}

func runTagDelete(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	cat, ok := findCategoryByName(env.State.Categories(), args[0])
	if !ok {
		return fmt.Errorf("no tag named %q", args[0])
	}
	if cat.ID == model.DefaultCategoryID {
		return fmt.Errorf("the built-in tag cannot be deleted")
	}

	env.State.DeleteCategory(cat.ID)
	fmt.Printf("✓ Deleted tag %q (its todos now show under %s)\n", cat.Name, model.DefaultCategoryName)
	return nil
}
