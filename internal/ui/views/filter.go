package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/styles"
)

type filterField int

const (
	filterDate filterField = iota
	filterYear
	filterMonth
	filterStatus
	filterPriority
)

// filterFields lists the inputs offered for kind, in precedence order
func filterFields(kind models.Kind) []filterField {
	switch kind {
	case models.Monthly:
		return []filterField{filterYear, filterMonth, filterStatus}
	case models.Yearly:
		return []filterField{filterYear, filterStatus, filterPriority}
	}
	return []filterField{filterDate, filterStatus, filterPriority}
}

// filterBar edits the criteria of one tab
type filterBar struct {
	kind   models.Kind
	fields []filterField
	focus  int

	date     textinput.Model
	year     choice
	month    choice
	status   choice
	priority choice
}

func newFilterBar(kind models.Kind, currentYear int) *filterBar {
	date := textinput.New()
	date.Placeholder = models.DateLayout
	date.CharLimit = len(models.DateLayout)
	date.Width = len(models.DateLayout) + 1

	return &filterBar{
		kind:     kind,
		fields:   filterFields(kind),
		date:     date,
		year:     withAny(yearChoice(currentYear), "Any"),
		month:    withAny(monthChoice(), "Any"),
		status:   withAny(statusChoice(), "Any"),
		priority: withAny(priorityChoice(), "Any"),
	}
}

// load shows c in the inputs
func (f *filterBar) load(c store.Criteria) {
	f.date.SetValue(c.Date.String())
	f.year.set("")
	if c.Year != 0 {
		f.year.set(strconv.Itoa(c.Year))
	}
	f.month.set("")
	if c.Month != 0 {
		f.month.set(strconv.Itoa(c.Month))
	}
	f.status.set(string(c.Status))
	f.priority.set(string(c.Priority))
	f.focus = 0
	f.syncFocus()
}

// criteria reads the inputs. Only fields offered for the kind are set.
func (f *filterBar) criteria() (store.Criteria, error) {
	var c store.Criteria
	for _, field := range f.fields {
		switch field {
		case filterDate:
			if s := strings.TrimSpace(f.date.Value()); s != "" {
				d, err := models.ParseDate(s)
				if err != nil {
					return store.Criteria{}, fmt.Errorf("invalid date %q, use %s", s, models.DateLayout)
				}
				c.Date = d
			}
		case filterYear:
			c.Year = f.year.intValue()
		case filterMonth:
			c.Month = f.month.intValue()
		case filterStatus:
			c.Status = models.Status(f.status.value())
		case filterPriority:
			c.Priority = models.Priority(f.priority.value())
		}
	}
	return c, nil
}

func (f *filterBar) focused() filterField { return f.fields[f.focus] }

func (f *filterBar) syncFocus() {
	if f.focused() == filterDate {
		f.date.Focus()
	} else {
		f.date.Blur()
	}
}

func (f *filterBar) choiceFor(field filterField) *choice {
	switch field {
	case filterYear:
		return &f.year
	case filterMonth:
		return &f.month
	case filterStatus:
		return &f.status
	case filterPriority:
		return &f.priority
	}
	return nil
}

// update handles field navigation and editing. Enter and esc are left to the caller.
func (f *filterBar) update(msg tea.KeyMsg, km keys.KeyMap) tea.Cmd {
	switch {
	case key.Matches(msg, km.Tab), key.Matches(msg, km.Down):
		f.focus = (f.focus + 1) % len(f.fields)
		f.syncFocus()
		return nil
	case key.Matches(msg, km.PrevTab), key.Matches(msg, km.Up):
		f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
		f.syncFocus()
		return nil
	}

	if c := f.choiceFor(f.focused()); c != nil {
		switch {
		case key.Matches(msg, km.Right), msg.String() == " ":
			c.next()
		case key.Matches(msg, km.Left):
			c.prev()
		}
		return nil
	}

	var cmd tea.Cmd
	f.date, cmd = f.date.Update(msg)
	return cmd
}

func (f *filterBar) view(s *styles.Styles, width int) string {
	var parts []string
	for i, field := range f.fields {
		var label, value string
		switch field {
		case filterDate:
			label = "Date"
			if f.kind == models.Weekly {
				label = "Week of"
			}
			value = f.date.View()
		case filterYear:
			label, value = "Year", "‹ "+f.year.label()+" ›"
		case filterMonth:
			label, value = "Month", "‹ "+f.month.label()+" ›"
		case filterStatus:
			label, value = "Status", "‹ "+f.status.label()+" ›"
		case filterPriority:
			label, value = "Priority", "‹ "+f.priority.label()+" ›"
		}
		style := s.Input
		if i == f.focus {
			style = s.InputFocused
		}
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left,
			s.TitleMuted.Render(label),
			style.Render(value),
		))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, joinWith(parts, " ")...)
	hint := s.TitleMuted.Render("tab next • ←/→ change • ↵ apply • esc cancel")
	return s.FilterBar.MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left, row, hint))
}

func joinWith(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}
