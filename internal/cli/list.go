package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui/render"
)

func addList(topLevel *cobra.Command, v *viper.Viper) {
	fo := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "Print the plans of one kind as a table.",
		Example: `
planner list daily
planner list daily --date 2025-12-21
planner list monthly --year 2025 --month 12
planner list yearly --status in-progress
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
			printPlans(cmd.OutOrStdout(), plans)
			return nil
		},
	}

	addFilterArgs(cmd, fo)
	topLevel.AddCommand(cmd)
}

var (
	statusColors = map[models.Status]*color.Color{
		models.StatusNotStarted: color.New(color.FgWhite),
		models.StatusInProgress: color.New(color.FgYellow),
		models.StatusCompleted:  color.New(color.FgGreen),
		models.StatusFailed:     color.New(color.FgRed),
	}
	priorityColors = map[models.Priority]*color.Color{
		models.PriorityHigh:   color.New(color.FgRed, color.Bold),
		models.PriorityMedium: color.New(color.FgYellow),
		models.PriorityLow:    color.New(color.FgCyan),
	}
	headerColor = color.New(color.Bold)
)

func colored(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// printPlans writes plans as an aligned table. Titles are sanitized so a
// plan cannot inject terminal control sequences.
func printPlans(w io.Writer, plans []models.Plan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No plans found.")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(
		headerColor.Sprint("ID"),
		headerColor.Sprint("TITLE"),
		headerColor.Sprint("PRIORITY"),
		headerColor.Sprint("STATUS"),
		headerColor.Sprint("WHEN"),
	)
	for _, p := range plans {
		tbl.AddRow(
			strconv.FormatInt(p.ID, 10),
			render.SanitizeLine(p.Title),
			colored(priorityColors[p.Priority], p.Priority.Label()),
			colored(statusColors[p.Status], p.Status.Label()),
			render.DateLabel(p.Schedule),
		)
	}
	fmt.Fprintln(w, tbl)
}
