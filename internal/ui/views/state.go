package views

import (
	"context"

	"github.com/tgienger/planner/internal/api"
	"github.com/tgienger/planner/internal/calendar"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/store"
)

// Tab is a top-level screen
type Tab int

const (
	TabCalendar Tab = iota
	TabDaily
	TabWeekly
	TabMonthly
	TabYearly
)

// Tabs returns all tabs in display order
func Tabs() []Tab {
	return []Tab{TabCalendar, TabDaily, TabWeekly, TabMonthly, TabYearly}
}

// TabFor returns the list tab of kind
func TabFor(k models.Kind) Tab {
	switch k {
	case models.Weekly:
		return TabWeekly
	case models.Monthly:
		return TabMonthly
	case models.Yearly:
		return TabYearly
	}
	return TabDaily
}

// Kind returns the plan kind of a list tab; ok is false for the calendar
func (t Tab) Kind() (models.Kind, bool) {
	switch t {
	case TabDaily:
		return models.Daily, true
	case TabWeekly:
		return models.Weekly, true
	case TabMonthly:
		return models.Monthly, true
	case TabYearly:
		return models.Yearly, true
	}
	return 0, false
}

func (t Tab) String() string {
	if k, ok := t.Kind(); ok {
		return k.String()
	}
	return "Calendar"
}

// ParseTab is the inverse of Tab.Key
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs() {
		if t.Key() == s {
			return t, true
		}
	}
	return TabCalendar, false
}

// Key is the stable name stored in settings
func (t Tab) Key() string {
	if k, ok := t.Kind(); ok {
		return k.Path()
	}
	return "calendar"
}

// ViewState is the UI state owned by the app and shared with its views
type ViewState struct {
	Tab     Tab
	Cursor  calendar.Cursor
	Filters map[models.Kind]store.Criteria
}

// NewViewState starts on the calendar at the month of today
func NewViewState(today models.Date) *ViewState {
	return &ViewState{
		Tab:     TabCalendar,
		Cursor:  calendar.CursorAt(today),
		Filters: make(map[models.Kind]store.Criteria),
	}
}

// Service is the remote API used by the views
type Service interface {
	Get(ctx context.Context, kind models.Kind, id int64) (*models.Plan, error)
	Create(ctx context.Context, in api.PlanInput) (*models.Plan, error)
	Update(ctx context.Context, id int64, in api.PlanInput) (*models.Plan, error)
	Delete(ctx context.Context, kind models.Kind, id int64) error
	UpdateStatus(ctx context.Context, kind models.Kind, id int64, status models.Status) (*models.Plan, error)
	Reorder(ctx context.Context, kind models.Kind, ids []int64) ([]models.Plan, error)
	DateRange(ctx context.Context, kind models.Kind, start, end models.Date) ([]models.Plan, error)
	ByYearMonth(ctx context.Context, year, month int) ([]models.Plan, error)
}

// Plans is the plan cache used by the views
type Plans interface {
	Load(ctx context.Context, kind models.Kind) ([]models.Plan, error)
	Filter(ctx context.Context, kind models.Kind, c store.Criteria) ([]models.Plan, error)
	Plans(kind models.Kind) []models.Plan
	Find(kind models.Kind, id int64) (models.Plan, bool)
	Progress(kind models.Kind) (completed, total int)
}

// Deps bundles what every view needs from the app
type Deps struct {
	Service Service
	Plans   Plans
	State   *ViewState
	Today   func() models.Date
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
