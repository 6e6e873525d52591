// Package calendar computes month grids and places plans on them.
package calendar

import (
	"fmt"
	"time"

	"github.com/tgienger/planner/internal/models"
)

// Cursor is the month currently shown
type Cursor struct {
	Year  int
	Month int // 1-12
}

// CursorAt returns the cursor for the month containing d
func CursorAt(d models.Date) Cursor {
	return Cursor{Year: d.Year, Month: d.Month}
}

// Next moves one month forward, rolling into the next year after December
func (c Cursor) Next() Cursor {
	if c.Month == 12 {
		return Cursor{Year: c.Year + 1, Month: 1}
	}
	return Cursor{Year: c.Year, Month: c.Month + 1}
}

// Prev moves one month back, rolling into the previous year before January
func (c Cursor) Prev() Cursor {
	if c.Month == 1 {
		return Cursor{Year: c.Year - 1, Month: 12}
	}
	return Cursor{Year: c.Year, Month: c.Month - 1}
}

func (c Cursor) String() string {
	return fmt.Sprintf("%s %d", time.Month(c.Month), c.Year)
}

// MonthRange returns the first and last day of the cursor month
func (c Cursor) MonthRange() (models.Date, models.Date) {
	first := models.Date{Year: c.Year, Month: c.Month, Day: 1}
	return first, models.NewDate(c.Year, c.Month+1, 0)
}

// DaysIn returns the number of days in the cursor month
func (c Cursor) DaysIn() int {
	_, last := c.MonthRange()
	return last.Day
}

// Cell is one day of the month grid
type Cell struct {
	Date       models.Date
	OtherMonth bool
	Today      bool
	Weekday    time.Weekday
}

// Key is the ISO date the cell is addressed by
func (c Cell) Key() string {
	return c.Date.String()
}

// Weekend reports Saturday and Sunday cells
func (c Cell) Weekend() bool {
	return c.Weekday == time.Saturday || c.Weekday == time.Sunday
}

// Grid lays the cursor month out in Sunday-first weeks. Days of the previous
// month fill the first row up to the weekday of the 1st and days of the next
// month pad the last row, so len(result) is always a multiple of 7.
func Grid(c Cursor, today models.Date) []Cell {
	first, _ := c.MonthRange()
	lead := int(first.Weekday())
	days := c.DaysIn()
	total := (lead + days + 6) / 7 * 7

	cells := make([]Cell, 0, total)
	for i := 0; i < total; i++ {
		d := first.AddDays(i - lead)
		cells = append(cells, Cell{
			Date:       d,
			OtherMonth: i < lead || i >= lead+days,
			Today:      d == today,
			Weekday:    time.Weekday(i % 7),
		})
	}
	return cells
}

// Dot marks one plan on a calendar cell
type Dot struct {
	PlanID    int64
	Kind      models.Kind
	Title     string
	Priority  models.Priority
	Completed bool
}

func dotFor(p models.Plan) Dot {
	return Dot{
		PlanID:    p.ID,
		Kind:      p.Kind(),
		Title:     p.Title,
		Priority:  p.Priority,
		Completed: p.Status == models.StatusCompleted,
	}
}

// PlaceDots keys plan dots by ISO date. Daily plans land on their date,
// weekly plans on their start date only. Other kinds are ignored.
func PlaceDots(plans ...[]models.Plan) map[string][]Dot {
	dots := make(map[string][]Dot)
	for _, group := range plans {
		for _, p := range group {
			var key string
			switch s := p.Schedule.(type) {
			case models.DailySchedule:
				key = s.Date.String()
			case models.WeeklySchedule:
				key = s.Start.String()
			default:
				continue
			}
			if key == "" {
				continue
			}
			dots[key] = append(dots[key], dotFor(p))
		}
	}
	return dots
}
