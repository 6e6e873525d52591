package views

import (
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/tgienger/planner/internal/api/apitest"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/reorder"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui/msgs"
	"github.com/tgienger/planner/internal/ui/styles"
)

func seedDaily(srv *apitest.Server, n int) {
	for i := 1; i <= n; i++ {
		srv.Add(daily("plan "+string(rune('A'-1+i)), i))
	}
}

func TestPlanList_Load(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 3)

	drive(t, v, v.Load())

	if got := models.IDs(v.Plans()); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("plans = %v, want [1 2 3]", got)
	}
	if v.Loading() {
		t.Error("loading should be cleared")
	}
}

func TestPlanList_MoveSendsNewOrder(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 4)
	drive(t, v, v.Load())

	press(t, v, "m")
	press(t, v, "j")
	press(t, v, "j")
	seen := press(t, v, "m")

	want := []int64{2, 3, 1, 4}
	if got := models.IDs(v.Plans()); !slices.Equal(got, want) {
		t.Errorf("local order = %v, want %v", got, want)
	}
	if got := srv.IDs(models.Daily); !slices.Equal(got, want) {
		t.Errorf("server order = %v, want %v", got, want)
	}
	ts := toasts(seen)
	if len(ts) != 1 || ts[0].Text != "Order updated" || ts[0].Err {
		t.Errorf("toasts = %+v, want one success toast", ts)
	}
}

func TestPlanList_MovingCardIsMarked(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 3)
	drive(t, v, v.Load())
	v.width, v.height = 100, 40

	press(t, v, "m")
	press(t, v, "j")
	if got := strings.Count(v.renderList(), "⋮⋮"); got != 1 {
		t.Errorf("marked cards = %d, want 1", got)
	}

	press(t, v, "esc")
	if strings.Contains(v.renderList(), "⋮⋮") {
		t.Error("cancelled move still marks a card")
	}
}

func TestPlanList_FailedMoveReloadsServerOrder(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 4)
	drive(t, v, v.Load())
	srv.Fail(http.MethodPut, "/api/daily/reorder", http.StatusInternalServerError, "reorder failed")

	press(t, v, "m")
	press(t, v, "j")
	press(t, v, "j")
	seen := press(t, v, "enter")

	if got := models.IDs(v.Plans()); !slices.Equal(got, []int64{1, 2, 3, 4}) {
		t.Errorf("order after failure = %v, want server order", got)
	}
	ts := toasts(seen)
	if len(ts) != 1 || !ts[0].Err || ts[0].Text != "reorder failed" {
		t.Errorf("toasts = %+v, want the server error", ts)
	}
}

func TestPlanList_MoveAcrossKindsIsRejected(t *testing.T) {
	deps, srv := newDeps(t)
	drag := &reorder.Controller{}
	s := styles.NewStyles()
	dailyList := NewPlanListView(models.Daily, deps, drag, s)
	weeklyList := NewPlanListView(models.Weekly, deps, drag, s)

	srv.Add(daily("day", 1))
	for _, start := range []int{1, 8} {
		srv.Add(models.Plan{Title: "week", Schedule: models.WeeklySchedule{
			Start: models.Date{Year: 2025, Month: 12, Day: start},
			End:   models.Date{Year: 2025, Month: 12, Day: start + 6},
		}})
	}
	drive(t, dailyList, dailyList.Load())
	drive(t, weeklyList, weeklyList.Load())

	press(t, dailyList, "m")
	press(t, weeklyList, "j")
	press(t, weeklyList, "m")

	if _, active := drag.Active(); active {
		t.Error("session should end after a rejected drop")
	}
	if requested(srv, "PUT /api/weekly/reorder") || requested(srv, "PUT /api/daily/reorder") {
		t.Error("a rejected drop must not reach the server")
	}
}

func TestPlanList_FailedDeleteLeavesList(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 3)
	drive(t, v, v.Load())
	srv.Fail(http.MethodDelete, "/api/daily/2", http.StatusInternalServerError, "cannot delete")

	press(t, v, "j")
	press(t, v, "d")
	if !v.Capturing() {
		t.Fatal("delete should ask for confirmation")
	}
	seen := press(t, v, "y")

	if got := models.IDs(v.Plans()); !slices.Equal(got, []int64{1, 2, 3}) {
		t.Errorf("plans = %v, want unchanged", got)
	}
	if _, ok := find[msgs.MutatedMsg](seen); ok {
		t.Error("a failed delete must not report a mutation")
	}
	if ts := toasts(seen); len(ts) != 1 || ts[0].Text != "cannot delete" {
		t.Errorf("toasts = %+v", ts)
	}
}

func TestPlanList_DeleteReportsMutation(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 3)
	drive(t, v, v.Load())

	press(t, v, "j")
	press(t, v, "d")
	seen := press(t, v, "y")

	m, ok := find[msgs.MutatedMsg](seen)
	if !ok || m.Kind != models.Daily || m.Toast != "Plan deleted" {
		t.Errorf("mutated = %+v, %v", m, ok)
	}
	if got := srv.IDs(models.Daily); !slices.Equal(got, []int64{1, 3}) {
		t.Errorf("server ids = %v", got)
	}
}

func TestPlanList_DeleteCancelled(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 2)
	drive(t, v, v.Load())

	press(t, v, "d")
	press(t, v, "n")

	if v.Capturing() {
		t.Error("confirmation should be closed")
	}
	if requested(srv, "DELETE /api/daily/1") {
		t.Error("cancelled delete reached the server")
	}
}

func TestPlanList_TerminalStatusCannotChange(t *testing.T) {
	v, srv := newList(t, models.Daily)
	p := daily("done", 1)
	p.Status = models.StatusCompleted
	srv.Add(p)
	drive(t, v, v.Load())

	seen := press(t, v, "s")

	if v.Capturing() {
		t.Error("status picker should not open for a completed plan")
	}
	ts := toasts(seen)
	if len(ts) != 1 || !ts[0].Err {
		t.Errorf("toasts = %+v, want one error", ts)
	}
	for _, r := range srv.Requests() {
		if strings.HasPrefix(r, "PATCH") {
			t.Errorf("unexpected request %s", r)
		}
	}
}

func TestPlanList_StatusChange(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 1)
	drive(t, v, v.Load())

	press(t, v, "s")
	seen := press(t, v, "enter")

	if p, _ := srv.Plan(models.Daily, 1); p.Status != models.StatusInProgress {
		t.Errorf("server status = %s, want IN_PROGRESS", p.Status)
	}
	if m, ok := find[msgs.MutatedMsg](seen); !ok || m.Toast != "Status updated" {
		t.Errorf("mutated = %+v, %v", m, ok)
	}
}

func TestPlanList_StatusPickerMoves(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 1)
	drive(t, v, v.Load())

	press(t, v, "s")
	press(t, v, "j")
	press(t, v, "enter")

	if p, _ := srv.Plan(models.Daily, 1); p.Status != models.StatusCompleted {
		t.Errorf("server status = %s, want COMPLETED", p.Status)
	}
}

func TestPlanList_FilterLeavesCacheAlone(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 3)
	v.deps.State.Filters[models.Daily] = store.Criteria{Status: models.StatusCompleted}

	drive(t, v, v.Load())

	if requested(srv, "GET /api/daily") {
		t.Errorf("requests = %v, want only the narrowed query", srv.Requests())
	}
	if got := len(v.deps.Plans.Plans(models.Daily)); got != 0 {
		t.Errorf("cache = %d plans, want it untouched", got)
	}

	drive(t, v, v.Refresh())

	if got := len(v.deps.Plans.Plans(models.Daily)); got != 3 {
		t.Errorf("cache after refresh = %d plans, want 3", got)
	}
	if len(v.Plans()) != 0 {
		t.Errorf("list = %v, want the filter still applied", models.IDs(v.Plans()))
	}
}

func TestPlanList_FilterBar(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 3)
	drive(t, v, v.Load())

	press(t, v, "f")
	if !v.Capturing() {
		t.Fatal("filter bar should capture keys")
	}
	v.filter.date.SetValue("2025-12-02")
	press(t, v, "enter")

	want := store.Criteria{Date: models.Date{Year: 2025, Month: 12, Day: 2}}
	if got := v.deps.State.Filters[models.Daily]; got != want {
		t.Errorf("criteria = %+v, want %+v", got, want)
	}
	if !requested(srv, "GET /api/daily/date/2025-12-02") {
		t.Errorf("requests = %v, want a by-date query", srv.Requests())
	}
	if got := models.IDs(v.Plans()); !slices.Equal(got, []int64{2}) {
		t.Errorf("filtered plans = %v", got)
	}

	press(t, v, "r")
	if _, ok := v.deps.State.Filters[models.Daily]; ok {
		t.Error("reset should clear the criteria")
	}
	if got := len(v.Plans()); got != 3 {
		t.Errorf("plans after reset = %d, want 3", got)
	}
}

func TestPlanList_FilterDatePrecedence(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 2)
	v.deps.State.Filters[models.Daily] = store.Criteria{
		Date:   models.Date{Year: 2025, Month: 12, Day: 1},
		Status: models.StatusCompleted,
	}

	drive(t, v, v.Load())

	if !requested(srv, "GET /api/daily/date/2025-12-01") {
		t.Error("date filter should win")
	}
	if requested(srv, "GET /api/daily/status/COMPLETED") {
		t.Error("status filter should not be queried")
	}
}

func TestPlanList_InvalidFilterDateKeepsBarOpen(t *testing.T) {
	v, _ := newList(t, models.Daily)

	press(t, v, "f")
	v.filter.date.SetValue("12/02/2025")
	seen := press(t, v, "enter")

	if !v.Capturing() {
		t.Error("filter bar should stay open")
	}
	if ts := toasts(seen); len(ts) != 1 || !ts[0].Err {
		t.Errorf("toasts = %+v, want one error", ts)
	}
}

func TestPlanList_FocusAfterLoad(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 4)

	v.Focus(3)
	drive(t, v, v.Load())

	if p, ok := v.Selected(); !ok || p.ID != 3 {
		t.Errorf("selected = %+v, want plan 3", p)
	}
}

func TestPlanList_EnterOpensEditForm(t *testing.T) {
	v, srv := newList(t, models.Daily)
	seedDaily(srv, 2)
	drive(t, v, v.Load())

	press(t, v, "j")
	seen := press(t, v, "enter")

	m, ok := find[msgs.OpenFormMsg](seen)
	if !ok || m.ID != 2 || m.Kind != models.Daily {
		t.Errorf("open form = %+v, %v", m, ok)
	}
}
