package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tgienger/planner/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestCall_ErrorMessageFromBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Title is required"}`))
	})

	err := c.Call(context.Background(), http.MethodPost, "/daily", map[string]string{}, nil)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "Title is required" {
		t.Errorf("expected server message, got %q", reqErr.Message)
	}
	if reqErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", reqErr.StatusCode)
	}
}

func TestCall_ErrorFallbackMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"empty body", ""},
		{"no message field", `{"error":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, tt.body)
			})
			err := c.Call(context.Background(), http.MethodGet, "/daily", nil, nil)
			if err == nil || err.Error() != genericErrorMessage {
				t.Errorf("expected generic message, got %v", err)
			}
		})
	}
}

func TestCall_NoContentLeavesOutUntouched(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := []int{42}
	if err := c.Call(context.Background(), http.MethodDelete, "/daily/1", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != 42 {
		t.Errorf("expected out untouched, got %v", out)
	}
}

func TestList_DecodesSchedules(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/daily":
			io.WriteString(w, `[{"id":1,"title":"Run","priority":"HIGH","status":"NOT_STARTED","planDate":"2025-12-21","createdAt":"2025-12-21T10:30:00"}]`)
		case "/api/weekly":
			io.WriteString(w, `[{"id":2,"title":"Ship","priority":"LOW","status":"COMPLETED","weekStartDate":"2025-12-15","weekEndDate":"2025-12-21"}]`)
		case "/api/monthly":
			io.WriteString(w, `[{"id":3,"title":"Read","priority":"MEDIUM","status":"IN_PROGRESS","year":2025,"month":12}]`)
		case "/api/yearly":
			io.WriteString(w, `[{"id":4,"title":"Learn","priority":"MEDIUM","status":"FAILED","year":2026}]`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	daily, err := c.List(ctx, models.Daily)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := daily[0].Schedule.(models.DailySchedule); !ok || s.Date.String() != "2025-12-21" {
		t.Errorf("daily schedule = %#v", daily[0].Schedule)
	}
	if daily[0].CreatedAt.IsZero() {
		t.Error("expected createdAt to be parsed")
	}

	weekly, err := c.List(ctx, models.Weekly)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := weekly[0].Schedule.(models.WeeklySchedule); !ok || s.Start.String() != "2025-12-15" || s.End.String() != "2025-12-21" {
		t.Errorf("weekly schedule = %#v", weekly[0].Schedule)
	}

	monthly, err := c.List(ctx, models.Monthly)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := monthly[0].Schedule.(models.MonthlySchedule); !ok || s.Year != 2025 || s.Month != 12 {
		t.Errorf("monthly schedule = %#v", monthly[0].Schedule)
	}

	yearly, err := c.List(ctx, models.Yearly)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := yearly[0].Schedule.(models.YearlySchedule); !ok || s.Year != 2026 {
		t.Errorf("yearly schedule = %#v", yearly[0].Schedule)
	}
}

func TestCreate_SendsScheduleFields(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/weekly" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":9,"title":"Ship","priority":"HIGH","status":"NOT_STARTED","weekStartDate":"2025-12-15","weekEndDate":"2025-12-21"}`)
	})

	start := models.Date{Year: 2025, Month: 12, Day: 15}
	plan, err := c.Create(context.Background(), PlanInput{
		Title:    "Ship",
		Priority: models.PriorityHigh,
		Status:   models.StatusNotStarted,
		Schedule: models.WeeklySchedule{Start: start, End: start.AddDays(6)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if plan.ID != 9 {
		t.Errorf("expected id 9, got %d", plan.ID)
	}
	if got["weekStartDate"] != "2025-12-15" || got["weekEndDate"] != "2025-12-21" {
		t.Errorf("unexpected week fields in body: %v", got)
	}
	if _, ok := got["planDate"]; ok {
		t.Error("weekly body should not carry planDate")
	}
	if _, ok := got["year"]; ok {
		t.Error("weekly body should not carry year")
	}
}

func TestReorder_SendsOrderedIDs(t *testing.T) {
	var body struct {
		OrderedIDs []int64 `json:"orderedIds"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/daily/reorder" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `[]`)
	})

	if _, err := c.Reorder(context.Background(), models.Daily, []int64{2, 3, 1, 4}); err != nil {
		t.Fatal(err)
	}
	want := []int64{2, 3, 1, 4}
	if len(body.OrderedIDs) != len(want) {
		t.Fatalf("orderedIds = %v, want %v", body.OrderedIDs, want)
	}
	for i := range want {
		if body.OrderedIDs[i] != want[i] {
			t.Fatalf("orderedIds = %v, want %v", body.OrderedIDs, want)
		}
	}
}

func TestFilterEndpoints(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `[]`)
	})
	ctx := context.Background()
	day := models.Date{Year: 2025, Month: 12, Day: 1}

	tests := []struct {
		name  string
		call  func() error
		path  string
		query string
	}{
		{"by date", func() error { _, err := c.ByDate(ctx, day); return err }, "/api/daily/date/2025-12-01", ""},
		{"by week", func() error { _, err := c.ByWeek(ctx, day); return err }, "/api/weekly/week/2025-12-01", ""},
		{"by year month", func() error { _, err := c.ByYearMonth(ctx, 2025, 12); return err }, "/api/monthly/year/2025/month/12", ""},
		{"monthly by year", func() error { _, err := c.ByYear(ctx, models.Monthly, 2025); return err }, "/api/monthly/year/2025", ""},
		{"yearly by year", func() error { _, err := c.ByYear(ctx, models.Yearly, 2025); return err }, "/api/yearly/year/2025", ""},
		{"by status", func() error { _, err := c.ByStatus(ctx, models.Weekly, models.StatusFailed); return err }, "/api/weekly/status/FAILED", ""},
		{"by priority", func() error { _, err := c.ByPriority(ctx, models.Yearly, models.PriorityLow); return err }, "/api/yearly/priority/LOW", ""},
		{"date range", func() error {
			_, err := c.DateRange(ctx, models.Daily, day, models.Date{Year: 2025, Month: 12, Day: 31})
			return err
		}, "/api/daily/date-range", "endDate=2025-12-31&startDate=2025-12-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatal(err)
			}
			if gotPath != tt.path {
				t.Errorf("path = %s, want %s", gotPath, tt.path)
			}
			if gotQuery != tt.query {
				t.Errorf("query = %s, want %s", gotQuery, tt.query)
			}
		})
	}
}

func TestByYear_RejectsDailyAndWeekly(t *testing.T) {
	c := New("http://unused", time.Second)
	if _, err := c.ByYear(context.Background(), models.Daily, 2025); err == nil {
		t.Error("expected error for daily ByYear")
	}
	if _, err := c.DateRange(context.Background(), models.Monthly, models.Date{}, models.Date{}); err == nil {
		t.Error("expected error for monthly DateRange")
	}
}
