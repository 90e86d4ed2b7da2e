package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/daygrid/internal/config"
	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "daygrid",
	Short: "daygrid - calendar todo app with tags and cloud sync",
	Long: `daygrid is a month-grid calendar where every day collects todos grouped
by color-coded tags. Guest data lives on this machine; log in to keep it
on the daygrid server instead.

Run 'daygrid' without arguments to launch the interactive calendar.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}

		logConfig := logger.Config{
			Level:    logger.ParseLevel(cfg.LogLevel),
			FilePath: cfg.LogFile,
			MaxSize:  10 * 1024 * 1024,
			Console:  cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("daygrid started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap()
		if err != nil {
			return err
		}
		defer env.Close()

		logger.Info("Launching TUI")
		m := tui.NewModel(env.State, env.Session, env.Auth, env.Suggester)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("daygrid exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(authCmd)
}
