// Package cli defines the planner command line.
package cli

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tgienger/planner/internal/api"
	"github.com/tgienger/planner/internal/config"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// New returns the root command. Without a subcommand it runs the TUI.
func New() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Plan your days, weeks, months and years from the terminal.",
		Example: `
planner
planner --base-url http://planner.local:8080
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(v)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("base-url", "", "Planner backend URL. Overrides base_url.")
	flags.String("db", "", "Path of the local settings database. Overrides db_path.")
	_ = v.BindPFlag(config.KeyBaseURL, flags.Lookup("base-url"))
	_ = v.BindPFlag(config.KeyDBPath, flags.Lookup("db"))

	addCommands(cmd, v)
	return cmd
}

func addCommands(topLevel *cobra.Command, v *viper.Viper) {
	addList(topLevel, v)
	addExport(topLevel, v)
	addTheme(topLevel, v)
	addVersion(topLevel)
}

// setupLogging sends the standard logger to file, or discards it when file
// is empty. The returned func closes the file.
func setupLogging(file string) (func(), error) {
	if file == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(file, "planner")
	if err != nil {
		return nil, err
	}
	return func() { f.Close() }, nil
}

// connect resolves the configuration, sets up logging and returns an API
// client. done must be called when the command finishes.
func connect(v *viper.Viper) (c *api.Client, cfg *config.Config, done func(), err error) {
	cfg, err = config.Load(v)
	if err != nil {
		return nil, nil, nil, err
	}
	done, err = setupLogging(cfg.LogFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return api.New(cfg.BaseURL, cfg.Timeout), cfg, done, nil
}
