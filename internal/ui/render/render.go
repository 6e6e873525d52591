// Package render turns plans into terminal fragments: list cards, sidebar
// rows, calendar dots and badges. Every function is pure; callers join the
// fragments into a view.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tgienger/planner/internal/calendar"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/styles"
)

// Sanitize removes terminal escape sequences and control characters from
// user-supplied text. Newlines survive; tabs become spaces.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// SanitizeLine is Sanitize for single-line fields
func SanitizeLine(s string) string {
	return strings.ReplaceAll(Sanitize(s), "\n", " ")
}

// Renderer holds the styles fragments are drawn with
type Renderer struct {
	s *styles.Styles
}

func New(s *styles.Styles) *Renderer {
	return &Renderer{s: s}
}

// DateLabel describes a schedule for display
func DateLabel(sch models.Schedule) string {
	switch s := sch.(type) {
	case models.DailySchedule:
		return s.Date.String()
	case models.WeeklySchedule:
		return s.Start.String() + " ~ " + s.End.String()
	case models.MonthlySchedule:
		if s.Month < 1 || s.Month > 12 {
			return fmt.Sprintf("%d", s.Year)
		}
		return fmt.Sprintf("%s %d", time.Month(s.Month).String()[:3], s.Year)
	case models.YearlySchedule:
		return fmt.Sprintf("%d", s.Year)
	}
	return ""
}

// Selector is the status control shown on a card
type Selector struct {
	Current  models.Status
	Options  []models.Status
	Disabled bool
	Hint     string
}

// StatusSelector builds the selector for status. It is disabled exactly when
// the status is terminal.
func StatusSelector(status models.Status) Selector {
	sel := Selector{
		Current:  status,
		Options:  models.Statuses(),
		Disabled: status.Terminal(),
	}
	if sel.Disabled {
		sel.Hint = "completed or failed plans cannot change status"
	}
	return sel
}

// Next returns the status after Current in selector order, wrapping around
func (s Selector) Next() models.Status {
	for i, st := range s.Options {
		if st == s.Current {
			return s.Options[(i+1)%len(s.Options)]
		}
	}
	return s.Current
}

func (r *Renderer) selectorView(sel Selector) string {
	label := sel.Current.Label()
	if sel.Disabled {
		return r.s.TitleMuted.Render("⊘ " + label)
	}
	return lipgloss.NewStyle().Foreground(r.s.StatusColor(sel.Current)).Render("‹ " + label + " ›")
}

// PriorityBadge renders the colored priority tag
func (r *Renderer) PriorityBadge(p models.Priority) string {
	return r.s.Badge.Foreground(r.s.PriorityColor(p)).Render(p.Label())
}

// StatusBadge renders the colored status tag
func (r *Renderer) StatusBadge(st models.Status) string {
	return r.s.Badge.Foreground(r.s.StatusColor(st)).Render(st.Label())
}

// CardOptions controls per-card decoration
type CardOptions struct {
	Width      int
	Selected   bool
	Moving     bool // card is picked up for reordering
	DropTarget bool // card would receive the moving card
}

// Card renders a plan as a list entry
func (r *Renderer) Card(p models.Plan, o CardOptions) string {
	s := r.s
	width := max(o.Width, 20)

	grip := "  "
	if o.Moving {
		grip = "⋮⋮"
	}
	bar := lipgloss.NewStyle().Foreground(s.PriorityColor(p.Priority)).Render("▌")

	title := s.CardTitle.Render(SanitizeLine(p.Title))
	header := bar + grip + " " + title + "  " + r.selectorView(StatusSelector(p.Status))

	lines := []string{
		header,
		"    " + r.PriorityBadge(p.Priority) + r.StatusBadge(p.Status),
	}
	if desc := strings.TrimSpace(Sanitize(p.Description)); desc != "" {
		wrapped := lipgloss.NewStyle().Width(max(width-8, 10)).Render(desc)
		for _, l := range strings.Split(wrapped, "\n") {
			lines = append(lines, "    "+l)
		}
	}
	lines = append(lines, "    "+s.CardMeta.Render("📅 "+DateLabel(p.Schedule)+"   e edit • d delete"))

	content := strings.Join(lines, "\n")
	switch {
	case o.Moving, o.Selected:
		return s.ListSelected.Width(width).Render(content)
	case o.DropTarget:
		return s.DropTarget.Width(width).Render(content)
	}
	return s.ListItem.Width(width).Render(content)
}

// EmptyState is the single fragment shown for an empty collection
func (r *Renderer) EmptyState() string {
	return r.s.TitleMuted.Render("📋 No plans yet. Press 'n' to create one.")
}

// List renders one card per plan, or exactly one empty-state fragment.
// opts is called per index to decorate individual cards.
func (r *Renderer) List(plans []models.Plan, opts func(i int, p models.Plan) CardOptions) []string {
	if len(plans) == 0 {
		return []string{r.EmptyState()}
	}
	out := make([]string, len(plans))
	for i, p := range plans {
		var o CardOptions
		if opts != nil {
			o = opts(i, p)
		}
		out[i] = r.Card(p, o)
	}
	return out
}

// SidebarItem renders a compact one-line plan row for the calendar sidebar
func (r *Renderer) SidebarItem(p models.Plan, selected bool, width int) string {
	s := r.s
	mark := lipgloss.NewStyle().Foreground(s.PriorityColor(p.Priority)).Render("▎")
	title := SanitizeLine(p.Title)
	if p.Status == models.StatusCompleted {
		title = lipgloss.NewStyle().Strikethrough(true).Render(title)
	}
	meta := s.CardMeta.Render(DateLabel(p.Schedule) + " · " + p.Status.Label())
	line := mark + title + "\n " + meta

	style := s.ListItem.Padding(0, 1)
	if selected {
		style = s.ListSelected.Padding(0, 1)
	}
	return style.Width(width).Render(line)
}

// SidebarEmpty is shown for a sidebar section without plans
func (r *Renderer) SidebarEmpty() string {
	return r.s.TitleMuted.Render("  No plans")
}

// Dot renders a calendar dot: color is priority, completed plans get a
// hollow check marker
func (r *Renderer) Dot(d calendar.Dot) string {
	style := lipgloss.NewStyle().Foreground(r.s.PriorityColor(d.Priority))
	if d.Completed {
		return style.Faint(true).Render("✓")
	}
	return style.Render("•")
}

// ProgressBadge renders "completed/total", or nothing for an empty collection
func ProgressBadge(completed, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", completed, total)
}
