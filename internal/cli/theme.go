package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tgienger/planner/internal/config"
	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/ui/styles"
)

func addTheme(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or save the TUI color theme.",
		Example: `
planner theme
planner theme dark
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{styles.Light.Name, styles.Dark.Name},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			database, err := db.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			defer database.Close()

			if len(args) == 0 {
				name, err := database.GetSetting(db.KeyTheme)
				if err != nil {
					return err
				}
				if name == "" {
					name = cfg.Theme
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			}

			t, ok := styles.ThemeByName(args[0])
			if !ok {
				return fmt.Errorf("unknown theme %q (want light or dark)", args[0])
			}
			return database.SetSetting(db.KeyTheme, t.Name)
		},
	}

	topLevel.AddCommand(cmd)
}
