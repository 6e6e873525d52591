// Package apitest provides an in-memory planner backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/tgienger/planner/internal/models"
)

// Server is an httptest server speaking the planner REST API
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int64
	plans    map[models.Kind][]models.Plan
	failures map[string]failure
	requests []string
}

type failure struct {
	status  int
	message string
}

type wirePlan struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      models.Priority `json:"priority"`
	Status        models.Status   `json:"status"`
	PlanDate      *models.Date    `json:"planDate,omitempty"`
	WeekStartDate *models.Date    `json:"weekStartDate,omitempty"`
	WeekEndDate   *models.Date    `json:"weekEndDate,omitempty"`
	Year          int             `json:"year,omitempty"`
	Month         int             `json:"month,omitempty"`
	DisplayOrder  int             `json:"displayOrder"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

// NewServer starts an empty backend. It is closed when the test ends.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		nextID:   1,
		plans:    make(map[models.Kind][]models.Plan),
		failures: make(map[string]failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/{type}", s.handleList)
	mux.HandleFunc("POST /api/{type}", s.handleCreate)
	mux.HandleFunc("GET /api/{type}/{id}", s.handleGet)
	mux.HandleFunc("PUT /api/{type}/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/{type}/{id}", s.handleDelete)
	mux.HandleFunc("PATCH /api/{type}/{id}/status", s.handleStatus)
	mux.HandleFunc("PUT /api/{type}/reorder", s.handleReorder)
	mux.HandleFunc("GET /api/{type}/date-range", s.handleDateRange)
	mux.HandleFunc("GET /api/{type}/status/{status}", s.handleByStatus)
	mux.HandleFunc("GET /api/{type}/priority/{priority}", s.handleByPriority)
	mux.HandleFunc("GET /api/{type}/year/{year}", s.handleByYear)
	mux.HandleFunc("GET /api/daily/date/{date}", s.handleByDate)
	mux.HandleFunc("GET /api/weekly/week/{date}", s.handleByWeek)
	mux.HandleFunc("GET /api/monthly/year/{year}/month/{month}", s.handleByYearMonth)

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, key)
		f, fail := s.failures[key]
		s.mu.Unlock()

		if fail {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Add seeds a plan and returns it with its assigned id and order
func (s *Server) Add(p models.Plan) models.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := p.Kind()
	if p.ID == 0 {
		p.ID = s.nextID
	}
	s.nextID = max(s.nextID, p.ID) + 1
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if p.Status == "" {
		p.Status = models.StatusNotStarted
	}
	p.DisplayOrder = len(s.plans[kind])
	s.plans[kind] = append(s.plans[kind], p)
	return p
}

// Fail makes every request matching method and path answer status with message
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Recover removes all injected failures
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

// Requests returns "METHOD /path" for every request received so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// IDs returns the ids of kind in canonical order
func (s *Server) IDs(kind models.Kind) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.IDs(s.plans[kind])
}

// Plan returns the stored plan
func (s *Server) Plan(kind models.Kind, id int64) (models.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(kind, id)
	if i < 0 {
		return models.Plan{}, false
	}
	return s.plans[kind][i], true
}

func (s *Server) index(kind models.Kind, id int64) int {
	return slices.IndexFunc(s.plans[kind], func(p models.Plan) bool { return p.ID == id })
}

func (s *Server) matching(kind models.Kind, keep func(models.Plan) bool) []wirePlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []wirePlan{}
	for _, p := range s.plans[kind] {
		if keep(p) {
			out = append(out, toWire(p))
		}
	}
	return out
}

func toWire(p models.Plan) wirePlan {
	w := wirePlan{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Priority:     p.Priority,
		Status:       p.Status,
		DisplayOrder: p.DisplayOrder,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05"),
		UpdatedAt:    p.UpdatedAt.Format("2006-01-02T15:04:05"),
	}
	switch sch := p.Schedule.(type) {
	case models.DailySchedule:
		w.PlanDate = &sch.Date
	case models.WeeklySchedule:
		w.WeekStartDate = &sch.Start
		w.WeekEndDate = &sch.End
	case models.MonthlySchedule:
		w.Year, w.Month = sch.Year, sch.Month
	case models.YearlySchedule:
		w.Year = sch.Year
	}
	return w
}

func kindOf(w http.ResponseWriter, r *http.Request) (models.Kind, bool) {
	k, err := models.ParseKind(r.PathValue("type"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return 0, false
	}
	return k, true
}

func idOf(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"status": status, "message": message})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.matching(kind, func(models.Plan) bool { return true }))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	id, ok := idOf(w, r)
	if !ok {
		return
	}
	p, found := s.Plan(kind, id)
	if !found {
		writeError(w, http.StatusNotFound, "Plan not found")
		return
	}
	writeJSON(w, http.StatusOK, toWire(p))
}

type planBody struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      models.Priority `json:"priority"`
	Status        models.Status   `json:"status"`
	PlanDate      models.Date     `json:"planDate"`
	WeekStartDate models.Date     `json:"weekStartDate"`
	WeekEndDate   models.Date     `json:"weekEndDate"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
}

func (b planBody) schedule(kind models.Kind) models.Schedule {
	switch kind {
	case models.Weekly:
		return models.WeeklySchedule{Start: b.WeekStartDate, End: b.WeekEndDate}
	case models.Monthly:
		return models.MonthlySchedule{Year: b.Year, Month: b.Month}
	case models.Yearly:
		return models.YearlySchedule{Year: b.Year}
	}
	return models.DailySchedule{Date: b.PlanDate}
}

func decodeBody(w http.ResponseWriter, r *http.Request) (planBody, bool) {
	var b planBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return b, false
	}
	if b.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return b, false
	}
	return b, true
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	b, ok := decodeBody(w, r)
	if !ok {
		return
	}
	now := time.Now()
	p := s.Add(models.Plan{
		Title:       b.Title,
		Description: b.Description,
		Priority:    b.Priority,
		Status:      b.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
		Schedule:    b.schedule(kind),
	})
	writeJSON(w, http.StatusCreated, toWire(p))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	id, ok := idOf(w, r)
	if !ok {
		return
	}
	b, ok := decodeBody(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.index(kind, id)
	if i < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Plan not found")
		return
	}
	p := &s.plans[kind][i]
	p.Title = b.Title
	p.Description = b.Description
	p.Priority = b.Priority
	if b.Status != "" {
		p.Status = b.Status
	}
	p.Schedule = b.schedule(kind)
	p.UpdatedAt = time.Now()
	out := toWire(*p)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	id, ok := idOf(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.index(kind, id)
	if i >= 0 {
		s.plans[kind] = slices.Delete(s.plans[kind], i, i+1)
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "Plan not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	id, ok := idOf(w, r)
	if !ok {
		return
	}
	var body struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	i := s.index(kind, id)
	if i < 0 {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "Plan not found")
		return
	}
	p := &s.plans[kind][i]
	if p.Status.Terminal() {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Completed or failed plans cannot change status")
		return
	}
	p.Status = body.Status
	out := toWire(*p)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	var body struct {
		OrderedIDs []int64 `json:"orderedIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	plans := s.plans[kind]
	if len(body.OrderedIDs) != len(plans) {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "orderedIds must list every plan")
		return
	}
	reordered := make([]models.Plan, 0, len(plans))
	for order, id := range body.OrderedIDs {
		i := s.index(kind, id)
		if i < 0 {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "unknown plan id "+strconv.FormatInt(id, 10))
			return
		}
		p := plans[i]
		p.DisplayOrder = order
		reordered = append(reordered, p)
	}
	s.plans[kind] = reordered
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, s.matching(kind, func(models.Plan) bool { return true }))
}

func (s *Server) handleDateRange(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	start, err1 := models.ParseDate(r.URL.Query().Get("startDate"))
	end, err2 := models.ParseDate(r.URL.Query().Get("endDate"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}
	within := func(d models.Date) bool { return !d.Before(start) && !end.Before(d) }
	writeJSON(w, http.StatusOK, s.matching(kind, func(p models.Plan) bool {
		switch sch := p.Schedule.(type) {
		case models.DailySchedule:
			return within(sch.Date)
		case models.WeeklySchedule:
			return within(sch.Start)
		}
		return false
	}))
}

func (s *Server) handleByStatus(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	status := models.Status(r.PathValue("status"))
	writeJSON(w, http.StatusOK, s.matching(kind, func(p models.Plan) bool { return p.Status == status }))
}

func (s *Server) handleByPriority(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	priority := models.Priority(r.PathValue("priority"))
	writeJSON(w, http.StatusOK, s.matching(kind, func(p models.Plan) bool { return p.Priority == priority }))
}

func (s *Server) handleByYear(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindOf(w, r)
	if !ok {
		return
	}
	year, _ := strconv.Atoi(r.PathValue("year"))
	writeJSON(w, http.StatusOK, s.matching(kind, func(p models.Plan) bool {
		switch sch := p.Schedule.(type) {
		case models.MonthlySchedule:
			return sch.Year == year
		case models.YearlySchedule:
			return sch.Year == year
		}
		return false
	}))
}

func (s *Server) handleByDate(w http.ResponseWriter, r *http.Request) {
	d, err := models.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	writeJSON(w, http.StatusOK, s.matching(models.Daily, func(p models.Plan) bool {
		sch, ok := p.Schedule.(models.DailySchedule)
		return ok && sch.Date == d
	}))
}

func (s *Server) handleByWeek(w http.ResponseWriter, r *http.Request) {
	d, err := models.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	writeJSON(w, http.StatusOK, s.matching(models.Weekly, func(p models.Plan) bool {
		sch, ok := p.Schedule.(models.WeeklySchedule)
		return ok && !d.Before(sch.Start) && !sch.End.Before(d)
	}))
}

func (s *Server) handleByYearMonth(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.PathValue("year"))
	month, _ := strconv.Atoi(r.PathValue("month"))
	writeJSON(w, http.StatusOK, s.matching(models.Monthly, func(p models.Plan) bool {
		sch, ok := p.Schedule.(models.MonthlySchedule)
		return ok && sch.Year == year && sch.Month == month
	}))
}
