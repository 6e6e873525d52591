package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tgienger/planner/internal/models"
)

// wirePlan is the JSON shape of every plan response; unused schedule fields
// stay empty for the other kinds
type wirePlan struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      models.Priority `json:"priority"`
	Status        models.Status   `json:"status"`
	PlanDate      models.Date     `json:"planDate"`
	WeekStartDate models.Date     `json:"weekStartDate"`
	WeekEndDate   models.Date     `json:"weekEndDate"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	DisplayOrder  int             `json:"displayOrder"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

// the backend sends LocalDateTime values without a zone
const localDateTimeLayout = "2006-01-02T15:04:05.999999999"

func parseLocalDateTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(localDateTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (w wirePlan) toPlan(kind models.Kind) models.Plan {
	p := models.Plan{
		ID:           w.ID,
		Title:        w.Title,
		Description:  w.Description,
		Priority:     w.Priority,
		Status:       w.Status,
		DisplayOrder: w.DisplayOrder,
		CreatedAt:    parseLocalDateTime(w.CreatedAt),
		UpdatedAt:    parseLocalDateTime(w.UpdatedAt),
	}
	switch kind {
	case models.Daily:
		p.Schedule = models.DailySchedule{Date: w.PlanDate}
	case models.Weekly:
		p.Schedule = models.WeeklySchedule{Start: w.WeekStartDate, End: w.WeekEndDate}
	case models.Monthly:
		p.Schedule = models.MonthlySchedule{Year: w.Year, Month: w.Month}
	case models.Yearly:
		p.Schedule = models.YearlySchedule{Year: w.Year}
	}
	return p
}

func toPlans(kind models.Kind, ws []wirePlan) []models.Plan {
	plans := make([]models.Plan, len(ws))
	for i, w := range ws {
		plans[i] = w.toPlan(kind)
	}
	return plans
}

// PlanInput is the body of create and update requests
type PlanInput struct {
	Title       string
	Description string
	Priority    models.Priority
	Status      models.Status
	Schedule    models.Schedule
}

type planRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      models.Priority `json:"priority"`
	Status        models.Status   `json:"status,omitempty"`
	PlanDate      *models.Date    `json:"planDate,omitempty"`
	WeekStartDate *models.Date    `json:"weekStartDate,omitempty"`
	WeekEndDate   *models.Date    `json:"weekEndDate,omitempty"`
	Year          *int            `json:"year,omitempty"`
	Month         *int            `json:"month,omitempty"`
}

func (in PlanInput) request() planRequest {
	r := planRequest{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
	}
	switch s := in.Schedule.(type) {
	case models.DailySchedule:
		r.PlanDate = &s.Date
	case models.WeeklySchedule:
		r.WeekStartDate = &s.Start
		r.WeekEndDate = &s.End
	case models.MonthlySchedule:
		r.Year = &s.Year
		r.Month = &s.Month
	case models.YearlySchedule:
		r.Year = &s.Year
	}
	return r
}

func (c *Client) list(ctx context.Context, kind models.Kind, endpoint string) ([]models.Plan, error) {
	var ws []wirePlan
	if err := c.Call(ctx, http.MethodGet, endpoint, nil, &ws); err != nil {
		return nil, err
	}
	return toPlans(kind, ws), nil
}

func (c *Client) one(ctx context.Context, kind models.Kind, method, endpoint string, body any) (*models.Plan, error) {
	var w wirePlan
	if err := c.Call(ctx, method, endpoint, body, &w); err != nil {
		return nil, err
	}
	p := w.toPlan(kind)
	return &p, nil
}

// List returns the full collection of a kind in canonical order
func (c *Client) List(ctx context.Context, kind models.Kind) ([]models.Plan, error) {
	return c.list(ctx, kind, "/"+kind.Path())
}

// Get returns a single plan
func (c *Client) Get(ctx context.Context, kind models.Kind, id int64) (*models.Plan, error) {
	return c.one(ctx, kind, http.MethodGet, fmt.Sprintf("/%s/%d", kind.Path(), id), nil)
}

// Create creates a plan of the schedule's kind
func (c *Client) Create(ctx context.Context, in PlanInput) (*models.Plan, error) {
	kind := in.Schedule.Kind()
	return c.one(ctx, kind, http.MethodPost, "/"+kind.Path(), in.request())
}

// Update replaces the fields of plan id
func (c *Client) Update(ctx context.Context, id int64, in PlanInput) (*models.Plan, error) {
	kind := in.Schedule.Kind()
	return c.one(ctx, kind, http.MethodPut, fmt.Sprintf("/%s/%d", kind.Path(), id), in.request())
}

// Delete removes a plan; the backend answers 204
func (c *Client) Delete(ctx context.Context, kind models.Kind, id int64) error {
	return c.Call(ctx, http.MethodDelete, fmt.Sprintf("/%s/%d", kind.Path(), id), nil, nil)
}

// UpdateStatus patches only the status of a plan
func (c *Client) UpdateStatus(ctx context.Context, kind models.Kind, id int64, status models.Status) (*models.Plan, error) {
	body := struct {
		Status models.Status `json:"status"`
	}{status}
	return c.one(ctx, kind, http.MethodPatch, fmt.Sprintf("/%s/%d/status", kind.Path(), id), body)
}

// Reorder persists ids as the canonical order of the kind
func (c *Client) Reorder(ctx context.Context, kind models.Kind, ids []int64) ([]models.Plan, error) {
	body := struct {
		OrderedIDs []int64 `json:"orderedIds"`
	}{ids}
	var ws []wirePlan
	if err := c.Call(ctx, http.MethodPut, "/"+kind.Path()+"/reorder", body, &ws); err != nil {
		return nil, err
	}
	return toPlans(kind, ws), nil
}

// ByDate returns daily plans for one date
func (c *Client) ByDate(ctx context.Context, date models.Date) ([]models.Plan, error) {
	return c.list(ctx, models.Daily, "/daily/date/"+date.String())
}

// ByWeek returns weekly plans whose week contains date
func (c *Client) ByWeek(ctx context.Context, date models.Date) ([]models.Plan, error) {
	return c.list(ctx, models.Weekly, "/weekly/week/"+date.String())
}

// ByYearMonth returns monthly plans for one month
func (c *Client) ByYearMonth(ctx context.Context, year, month int) ([]models.Plan, error) {
	return c.list(ctx, models.Monthly, fmt.Sprintf("/monthly/year/%d/month/%d", year, month))
}

// ByYear is valid for monthly and yearly plans
func (c *Client) ByYear(ctx context.Context, kind models.Kind, year int) ([]models.Plan, error) {
	if kind != models.Monthly && kind != models.Yearly {
		return nil, fmt.Errorf("%s plans cannot be filtered by year", kind.Path())
	}
	return c.list(ctx, kind, fmt.Sprintf("/%s/year/%d", kind.Path(), year))
}

// ByStatus returns plans of a kind with the given status
func (c *Client) ByStatus(ctx context.Context, kind models.Kind, status models.Status) ([]models.Plan, error) {
	return c.list(ctx, kind, fmt.Sprintf("/%s/status/%s", kind.Path(), status))
}

// ByPriority returns plans of a kind with the given priority
func (c *Client) ByPriority(ctx context.Context, kind models.Kind, priority models.Priority) ([]models.Plan, error) {
	return c.list(ctx, kind, fmt.Sprintf("/%s/priority/%s", kind.Path(), priority))
}

// DateRange is valid for daily and weekly plans. Weekly plans match on their
// start date.
func (c *Client) DateRange(ctx context.Context, kind models.Kind, start, end models.Date) ([]models.Plan, error) {
	if kind != models.Daily && kind != models.Weekly {
		return nil, fmt.Errorf("%s plans have no date range query", kind.Path())
	}
	q := url.Values{}
	q.Set("startDate", start.String())
	q.Set("endDate", end.String())
	return c.list(ctx, kind, "/"+kind.Path()+"/date-range?"+q.Encode())
}
