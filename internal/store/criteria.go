package store

import (
	"fmt"
	"strings"

	"github.com/tgienger/planner/internal/models"
)

// Query names the backend query a set of criteria resolves to
type Query int

const (
	Unfiltered Query = iota
	ByDate
	ByWeek
	ByYearMonth
	ByYear
	ByStatus
	ByPriority
)

// Criteria are the filter values entered for one tab. Several may be set at
// once; only the one with highest precedence for the kind is applied.
type Criteria struct {
	Date     models.Date
	Status   models.Status
	Priority models.Priority
	Year     int
	Month    int
}

// IsZero reports whether no filter value is set
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Applied resolves the criteria for kind using a fixed precedence:
//
//	daily:   date > status > priority
//	weekly:  date (week containing it) > status > priority
//	monthly: year+month > year > status
//	yearly:  year > status > priority
func (c Criteria) Applied(kind models.Kind) Query {
	switch kind {
	case models.Daily:
		switch {
		case !c.Date.IsZero():
			return ByDate
		case c.Status != "":
			return ByStatus
		case c.Priority != "":
			return ByPriority
		}
	case models.Weekly:
		switch {
		case !c.Date.IsZero():
			return ByWeek
		case c.Status != "":
			return ByStatus
		case c.Priority != "":
			return ByPriority
		}
	case models.Monthly:
		switch {
		case c.Year != 0 && c.Month != 0:
			return ByYearMonth
		case c.Year != 0:
			return ByYear
		case c.Status != "":
			return ByStatus
		}
	case models.Yearly:
		switch {
		case c.Year != 0:
			return ByYear
		case c.Status != "":
			return ByStatus
		case c.Priority != "":
			return ByPriority
		}
	}
	return Unfiltered
}

// Describe renders the applied filter for a status line, e.g. "date 2025-12-21"
func (c Criteria) Describe(kind models.Kind) string {
	switch c.Applied(kind) {
	case ByDate:
		return "date " + c.Date.String()
	case ByWeek:
		return "week of " + c.Date.String()
	case ByYearMonth:
		return fmt.Sprintf("%d-%02d", c.Year, c.Month)
	case ByYear:
		return fmt.Sprintf("year %d", c.Year)
	case ByStatus:
		return "status " + strings.ToLower(c.Status.Label())
	case ByPriority:
		return "priority " + strings.ToLower(c.Priority.Label())
	}
	return ""
}
