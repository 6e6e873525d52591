package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/planner/internal/api"
	"github.com/tgienger/planner/internal/api/apitest"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/reorder"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui/msgs"
	"github.com/tgienger/planner/internal/ui/styles"
)

var today = models.Date{Year: 2025, Month: 12, Day: 21}

func newDeps(t *testing.T) (Deps, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	client := api.New(srv.URL, 5*time.Second)
	return Deps{
		Service: client,
		Plans:   store.New(client),
		State:   NewViewState(today),
		Today:   func() models.Date { return today },
	}, srv
}

func newList(t *testing.T, kind models.Kind) (*PlanListView, *apitest.Server) {
	t.Helper()
	deps, srv := newDeps(t)
	return NewPlanListView(kind, deps, &reorder.Controller{}, styles.NewStyles()), srv
}

func daily(title string, day int) models.Plan {
	return models.Plan{
		Title:    title,
		Schedule: models.DailySchedule{Date: models.Date{Year: 2025, Month: 12, Day: day}},
	}
}

// drive runs cmd, feeds every resulting message back into m and returns the
// messages in the order they were produced
func drive(t *testing.T, m tea.Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		seen = append(seen, msg)
		_, next := m.Update(msg)
		queue = append(queue, next)
	}
	return seen
}

// press sends one key to m and drives whatever it triggers
func press(t *testing.T, m tea.Model, k string) []tea.Msg {
	t.Helper()
	_, cmd := m.Update(keyMsg(k))
	return drive(t, m, cmd)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func toasts(seen []tea.Msg) []msgs.ToastMsg {
	var out []msgs.ToastMsg
	for _, m := range seen {
		if t, ok := m.(msgs.ToastMsg); ok {
			out = append(out, t)
		}
	}
	return out
}

func find[T tea.Msg](seen []tea.Msg) (T, bool) {
	for _, m := range seen {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func requested(srv *apitest.Server, req string) bool {
	for _, r := range srv.Requests() {
		if r == req {
			return true
		}
	}
	return false
}
