package store

import (
	"context"
	"errors"
	"testing"

	"github.com/tgienger/planner/internal/models"
)

type fakeBackend struct {
	plans   map[models.Kind][]models.Plan
	listErr error
	calls   []string
}

func (f *fakeBackend) List(ctx context.Context, kind models.Kind) ([]models.Plan, error) {
	f.calls = append(f.calls, "list "+kind.Path())
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.plans[kind], nil
}

func (f *fakeBackend) ByDate(ctx context.Context, date models.Date) ([]models.Plan, error) {
	f.calls = append(f.calls, "date "+date.String())
	return []models.Plan{{ID: 100}}, nil
}

func (f *fakeBackend) ByWeek(ctx context.Context, date models.Date) ([]models.Plan, error) {
	f.calls = append(f.calls, "week "+date.String())
	return nil, nil
}

func (f *fakeBackend) ByYearMonth(ctx context.Context, year, month int) ([]models.Plan, error) {
	f.calls = append(f.calls, "yearmonth")
	return nil, nil
}

func (f *fakeBackend) ByYear(ctx context.Context, kind models.Kind, year int) ([]models.Plan, error) {
	f.calls = append(f.calls, "year "+kind.Path())
	return nil, nil
}

func (f *fakeBackend) ByStatus(ctx context.Context, kind models.Kind, status models.Status) ([]models.Plan, error) {
	f.calls = append(f.calls, "status "+string(status))
	return nil, nil
}

func (f *fakeBackend) ByPriority(ctx context.Context, kind models.Kind, priority models.Priority) ([]models.Plan, error) {
	f.calls = append(f.calls, "priority "+string(priority))
	return nil, nil
}

func TestLoad_ReplacesCache(t *testing.T) {
	fb := &fakeBackend{plans: map[models.Kind][]models.Plan{
		models.Daily: {{ID: 1, Status: models.StatusCompleted}, {ID: 2}},
	}}
	s := New(fb)

	if _, err := s.Load(context.Background(), models.Daily); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Plans(models.Daily)); got != 2 {
		t.Fatalf("expected 2 cached plans, got %d", got)
	}
	done, total := s.Progress(models.Daily)
	if done != 1 || total != 2 {
		t.Errorf("progress = %d/%d, want 1/2", done, total)
	}

	fb.plans[models.Daily] = []models.Plan{{ID: 3}}
	if _, err := s.Load(context.Background(), models.Daily); err != nil {
		t.Fatal(err)
	}
	plans := s.Plans(models.Daily)
	if len(plans) != 1 || plans[0].ID != 3 {
		t.Errorf("expected cache replaced wholesale, got %v", models.IDs(plans))
	}
}

func TestLoad_FailureKeepsCache(t *testing.T) {
	fb := &fakeBackend{plans: map[models.Kind][]models.Plan{
		models.Weekly: {{ID: 1}},
	}}
	s := New(fb)
	if _, err := s.Load(context.Background(), models.Weekly); err != nil {
		t.Fatal(err)
	}

	fb.listErr = errors.New("boom")
	if _, err := s.Load(context.Background(), models.Weekly); err == nil {
		t.Fatal("expected error")
	}
	if got := models.IDs(s.Plans(models.Weekly)); len(got) != 1 || got[0] != 1 {
		t.Errorf("expected cache untouched, got %v", got)
	}
}

func TestFind(t *testing.T) {
	fb := &fakeBackend{plans: map[models.Kind][]models.Plan{
		models.Monthly: {{ID: 4, Title: "budget"}, {ID: 9}},
	}}
	s := New(fb)
	if _, err := s.Load(context.Background(), models.Monthly); err != nil {
		t.Fatal(err)
	}

	if p, ok := s.Find(models.Monthly, 4); !ok || p.Title != "budget" {
		t.Errorf("Find(4) = %+v, %v", p, ok)
	}
	if _, ok := s.Find(models.Yearly, 4); ok {
		t.Error("ids are per kind")
	}
	if _, ok := s.Find(models.Monthly, 5); ok {
		t.Error("unknown id found")
	}
}

func TestFilter_DoesNotTouchCache(t *testing.T) {
	fb := &fakeBackend{plans: map[models.Kind][]models.Plan{
		models.Daily: {{ID: 1}, {ID: 2}},
	}}
	s := New(fb)
	if _, err := s.Load(context.Background(), models.Daily); err != nil {
		t.Fatal(err)
	}

	got, err := s.Filter(context.Background(), models.Daily, Criteria{Date: models.Date{Year: 2025, Month: 12, Day: 21}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 100 {
		t.Errorf("unexpected filter result %v", models.IDs(got))
	}
	if len(s.Plans(models.Daily)) != 2 {
		t.Error("filter must not replace the cached collection")
	}
}

func TestFilter_DateWinsOverStatus(t *testing.T) {
	fb := &fakeBackend{}
	s := New(fb)
	c := Criteria{
		Date:   models.Date{Year: 2025, Month: 12, Day: 21},
		Status: models.StatusCompleted,
	}
	if _, err := s.Filter(context.Background(), models.Daily, c); err != nil {
		t.Fatal(err)
	}
	if len(fb.calls) != 1 || fb.calls[0] != "date 2025-12-21" {
		t.Errorf("expected only the date query, got %v", fb.calls)
	}
}

func TestCriteriaApplied(t *testing.T) {
	date := models.Date{Year: 2025, Month: 1, Day: 2}
	tests := []struct {
		name string
		kind models.Kind
		c    Criteria
		want Query
	}{
		{"daily none", models.Daily, Criteria{}, Unfiltered},
		{"daily status over priority", models.Daily, Criteria{Status: models.StatusFailed, Priority: models.PriorityHigh}, ByStatus},
		{"daily priority", models.Daily, Criteria{Priority: models.PriorityHigh}, ByPriority},
		{"weekly date", models.Weekly, Criteria{Date: date, Priority: models.PriorityLow}, ByWeek},
		{"monthly year and month", models.Monthly, Criteria{Year: 2025, Month: 3, Status: models.StatusFailed}, ByYearMonth},
		{"monthly year only", models.Monthly, Criteria{Year: 2025}, ByYear},
		{"monthly month alone ignored", models.Monthly, Criteria{Month: 3}, Unfiltered},
		{"monthly ignores priority", models.Monthly, Criteria{Priority: models.PriorityHigh}, Unfiltered},
		{"yearly year over status", models.Yearly, Criteria{Year: 2026, Status: models.StatusCompleted}, ByYear},
		{"yearly ignores date", models.Yearly, Criteria{Date: date}, Unfiltered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Applied(tt.kind); got != tt.want {
				t.Errorf("Applied = %v, want %v", got, tt.want)
			}
		})
	}
}
