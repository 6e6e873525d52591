package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/store"
)

// kindArgs are the accepted <kind> arguments
var kindArgs = []string{"daily", "weekly", "monthly", "yearly"}

// FilterOptions are the criteria flags shared by list and export
type FilterOptions struct {
	Date     string
	Status   string
	Priority string
	Year     int
	Month    int
}

func addFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Plans on this date (daily) or in the week containing it (weekly), example: --date="2025-12-21".`)
	cmd.Flags().StringVar(&o.Status, "status", "",
		"Plans with this status: not-started, in-progress, completed or failed.")
	cmd.Flags().StringVar(&o.Priority, "priority", "",
		"Plans with this priority: high, medium or low.")
	cmd.Flags().IntVar(&o.Year, "year", 0, "Plans of this year (monthly, yearly).")
	cmd.Flags().IntVar(&o.Month, "month", 0, "Plans of this month, together with --year (monthly).")
}

// Criteria parses the flags. Precedence between several set flags is
// decided per kind by the store.
func (o *FilterOptions) Criteria() (store.Criteria, error) {
	var c store.Criteria
	if o.Date != "" {
		d, err := models.ParseDate(o.Date)
		if err != nil {
			return c, fmt.Errorf("invalid --date %q, use %s", o.Date, models.DateLayout)
		}
		c.Date = d
	}
	if o.Status != "" {
		s, err := models.ParseStatus(o.Status)
		if err != nil {
			return c, err
		}
		c.Status = s
	}
	if o.Priority != "" {
		p, err := models.ParsePriority(o.Priority)
		if err != nil {
			return c, err
		}
		c.Priority = p
	}
	if o.Month < 0 || o.Month > 12 {
		return c, fmt.Errorf("invalid --month %d", o.Month)
	}
	c.Year, c.Month = o.Year, o.Month
	return c, nil
}

func parseKind(args []string) (models.Kind, error) {
	return models.ParseKind(args[0])
}
