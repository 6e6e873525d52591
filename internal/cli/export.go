package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui/render"
)

func addExport(topLevel *cobra.Command, v *viper.Viper) {
	fo := &FilterOptions{}
	output := ""

	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Write the plans of one kind as an HTML fragment.",
		Example: `
planner export weekly
planner export daily --status completed -o done.html
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args)
			if err != nil {
				return err
			}
			c, err := fo.Criteria()
			if err != nil {
				return err
			}
			client, _, done, err := connect(v)
			if err != nil {
				return err
			}
			defer done()
			plans, err := store.New(client).Filter(context.Background(), kind, c)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return render.WriteHTML(w, kind, plans)
		},
	}

	addFilterArgs(cmd, fo)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout.")
	topLevel.AddCommand(cmd)
}
