package views

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planner/internal/calendar"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/msgs"
	"github.com/tgienger/planner/internal/ui/render"
	"github.com/tgienger/planner/internal/ui/styles"
)

const (
	cellWidth    = 8
	maxCellDots  = 3
	sidebarWidth = 30
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// sidebarSection is one group of the month's plans in the sidebar
type sidebarSection struct {
	title string
	plans []models.Plan
}

// CalendarView shows a month grid with plan dots and a sidebar of the
// month's plans
type CalendarView struct {
	deps   Deps
	styles *styles.Styles
	render *render.Renderer
	keys   keys.KeyMap

	width  int
	height int

	selected models.Date

	// Sidebar
	sidebar        []sidebarSection
	sidebarFor     calendar.Cursor
	sidebarLoading bool
	sidebarFocus   bool
	sidebarCursor  int

	loading bool
}

// NewCalendarView creates the calendar positioned on today
func NewCalendarView(deps Deps, s *styles.Styles) *CalendarView {
	today := deps.Today()
	deps.State.Cursor = calendar.CursorAt(today)
	return &CalendarView{
		deps:     deps,
		styles:   s,
		render:   render.New(s),
		keys:     keys.DefaultKeyMap(),
		selected: today,
	}
}

type collectionsLoadedMsg struct {
	errs []error
}

// sidebarLoadedMsg carries the sidebar plans for the month it was requested for
type sidebarLoadedMsg struct {
	cursor  calendar.Cursor
	daily   []models.Plan
	weekly  []models.Plan
	monthly []models.Plan
	err     error
}

// Selected returns the highlighted day
func (v *CalendarView) Selected() models.Date { return v.selected }

// Sidebar returns the plans listed in the sidebar, in display order
func (v *CalendarView) Sidebar() []models.Plan {
	var out []models.Plan
	for _, sec := range v.sidebar {
		out = append(out, sec.plans...)
	}
	return out
}

// Loading reports whether a load is in flight
func (v *CalendarView) Loading() bool { return v.loading || v.sidebarLoading }

// Capturing reports whether the view consumes all keys
func (v *CalendarView) Capturing() bool { return false }

// Load reloads all four collections and the sidebar
func (v *CalendarView) Load() tea.Cmd {
	v.loading = true
	plans := v.deps.Plans
	loadAll := func() tea.Msg {
		var msg collectionsLoadedMsg
		for _, k := range models.Kinds() {
			if _, err := plans.Load(context.Background(), k); err != nil {
				msg.errs = append(msg.errs, fmt.Errorf("%s plans: %w", k, err))
			}
		}
		return msg
	}
	return tea.Batch(loadAll, v.LoadSidebar())
}

// LoadSidebar fetches the month's plans. The response is tagged with the
// cursor it was issued for.
func (v *CalendarView) LoadSidebar() tea.Cmd {
	v.sidebarLoading = true
	cursor := v.deps.State.Cursor
	svc := v.deps.Service
	return func() tea.Msg {
		ctx := context.Background()
		start, end := cursor.MonthRange()
		msg := sidebarLoadedMsg{cursor: cursor}
		if msg.daily, msg.err = svc.DateRange(ctx, models.Daily, start, end); msg.err != nil {
			return msg
		}
		if msg.weekly, msg.err = svc.DateRange(ctx, models.Weekly, start, end); msg.err != nil {
			return msg
		}
		msg.monthly, msg.err = svc.ByYearMonth(ctx, cursor.Year, cursor.Month)
		return msg
	}
}

func (v *CalendarView) Init() tea.Cmd {
	return v.Load()
}

func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case collectionsLoadedMsg:
		v.loading = false
		if len(msg.errs) == 0 {
			return v, nil
		}
		// report every failed kind
		texts := make([]string, len(msg.errs))
		for i, err := range msg.errs {
			log.Printf("calendar load: %v", err)
			texts[i] = err.Error()
		}
		return v, toast(msgs.ToastMsg{Text: strings.Join(texts, "; "), Err: true})

	case sidebarLoadedMsg:
		if msg.cursor != v.deps.State.Cursor {
			// response for a month no longer shown
			return v, nil
		}
		v.sidebarLoading = false
		v.sidebarFor = msg.cursor
		if msg.err != nil {
			log.Printf("calendar sidebar %s: %v", msg.cursor, msg.err)
			v.sidebar = nil
			return v, nil
		}
		v.sidebar = []sidebarSection{
			{title: "Daily", plans: msg.daily},
			{title: "Weekly", plans: msg.weekly},
			{title: "Monthly", plans: msg.monthly},
		}
		v.sidebarCursor = clamp(v.sidebarCursor, 0, max(len(v.Sidebar())-1, 0))
		return v, nil

	case tea.KeyMsg:
		if v.sidebarFocus {
			return v.updateSidebar(msg)
		}
		return v.updateGrid(msg)
	}
	return v, nil
}

func (v *CalendarView) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Left):
		return v, v.selectDay(v.selected.AddDays(-1))
	case key.Matches(msg, v.keys.Right):
		return v, v.selectDay(v.selected.AddDays(1))
	case key.Matches(msg, v.keys.Up):
		return v, v.selectDay(v.selected.AddDays(-7))
	case key.Matches(msg, v.keys.Down):
		return v, v.selectDay(v.selected.AddDays(7))

	case key.Matches(msg, v.keys.NextMonth):
		return v, v.moveMonth(v.deps.State.Cursor.Next())
	case key.Matches(msg, v.keys.PrevMonth):
		return v, v.moveMonth(v.deps.State.Cursor.Prev())

	case key.Matches(msg, v.keys.Today):
		return v, v.goToToday()

	case key.Matches(msg, v.keys.Sidebar):
		if len(v.Sidebar()) > 0 {
			v.sidebarFocus = true
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		d := v.selected
		return v, func() tea.Msg { return msgs.SelectDayMsg{Date: d} }

	case key.Matches(msg, v.keys.New):
		return v, func() tea.Msg { return msgs.OpenFormMsg{Kind: models.Daily} }
	}
	return v, nil
}

func (v *CalendarView) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := v.Sidebar()
	switch {
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Sidebar):
		v.sidebarFocus = false
		return v, nil
	case key.Matches(msg, v.keys.Up):
		if v.sidebarCursor > 0 {
			v.sidebarCursor--
		}
		return v, nil
	case key.Matches(msg, v.keys.Down):
		if v.sidebarCursor < len(items)-1 {
			v.sidebarCursor++
		}
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		if v.sidebarCursor >= len(items) {
			return v, nil
		}
		p := items[v.sidebarCursor]
		v.sidebarFocus = false
		return v, func() tea.Msg { return msgs.JumpToPlanMsg{Kind: p.Kind(), ID: p.ID} }
	}
	return v, nil
}

// selectDay highlights d, switching months when d lies outside the shown one
func (v *CalendarView) selectDay(d models.Date) tea.Cmd {
	v.selected = d
	if c := calendar.CursorAt(d); c != v.deps.State.Cursor {
		v.deps.State.Cursor = c
		v.sidebarCursor = 0
		return v.LoadSidebar()
	}
	return nil
}

// goToToday selects today and refetches the month shown, even when it is
// already the current one
func (v *CalendarView) goToToday() tea.Cmd {
	v.selected = v.deps.Today()
	v.deps.State.Cursor = calendar.CursorAt(v.selected)
	v.sidebarCursor = 0
	return v.LoadSidebar()
}

// moveMonth shows c, keeping the selected day of month where possible
func (v *CalendarView) moveMonth(c calendar.Cursor) tea.Cmd {
	day := min(v.selected.Day, c.DaysIn())
	v.selected = models.Date{Year: c.Year, Month: c.Month, Day: day}
	v.deps.State.Cursor = c
	v.sidebarCursor = 0
	return v.LoadSidebar()
}

func (v *CalendarView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	grid := v.renderGrid()
	side := v.renderSidebar(min(sidebarWidth, max(contentWidth-lipgloss.Width(grid)-2, 20)))

	var body string
	if lipgloss.Width(grid)+sidebarWidth+2 <= contentWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", side)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, grid, "", side)
	}

	help := s.Help.Render(fmt.Sprintf("%s move • %s/%s month • %s today • %s open day • %s month plans • %s new daily",
		s.HelpKey.Render("←↑↓→"),
		s.HelpKey.Render("["),
		s.HelpKey.Render("]"),
		s.HelpKey.Render("g"),
		s.HelpKey.Render("↵"),
		s.HelpKey.Render("p"),
		s.HelpKey.Render("n"),
	))
	return lipgloss.JoinVertical(lipgloss.Left, body, help)
}

func (v *CalendarView) renderGrid() string {
	s := v.styles
	cursor := v.deps.State.Cursor
	cells := calendar.Grid(cursor, v.deps.Today())
	dots := calendar.PlaceDots(v.deps.Plans.Plans(models.Daily), v.deps.Plans.Plans(models.Weekly))

	title := s.Title.Render("◀ " + cursor.String() + " ▶")

	var header []string
	for i, name := range weekdayNames {
		style := s.DayHeader
		if i == 0 || i == 6 {
			style = style.Foreground(s.Theme.Error)
		}
		header = append(header, style.Width(cellWidth).Render(name))
	}

	rows := []string{title, "", lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for week := 0; week < len(cells); week += 7 {
		var row []string
		for _, cell := range cells[week : week+7] {
			row = append(row, v.renderCell(cell, dots[cell.Key()]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *CalendarView) renderCell(cell calendar.Cell, dots []calendar.Dot) string {
	s := v.styles

	style := s.Day
	switch {
	case cell.OtherMonth:
		style = s.DayOther
	case cell.Today:
		style = s.DayToday
	case cell.Weekend():
		style = s.Weekend
	}
	num := style.Render(fmt.Sprintf("%2d", cell.Date.Day))

	var marks strings.Builder
	for i, d := range dots {
		if i == maxCellDots {
			marks.WriteString(s.TitleMuted.Render(fmt.Sprintf("+%d", len(dots)-maxCellDots)))
			break
		}
		marks.WriteString(v.render.Dot(d))
	}

	box := lipgloss.NewStyle().Width(cellWidth).Height(2)
	if cell.Date == v.selected && !v.sidebarFocus {
		box = box.Inherit(s.DayCursor)
	}
	return box.Render(num + "\n" + marks.String())
}

func (v *CalendarView) renderSidebar(width int) string {
	s := v.styles
	cursor := v.deps.State.Cursor

	title := s.Title.Render(cursor.String() + " plans")
	if v.sidebarFor != cursor {
		return lipgloss.JoinVertical(lipgloss.Left, title, s.TitleMuted.Render("  Loading…"))
	}

	rows := []string{title}
	idx := 0
	for _, sec := range v.sidebar {
		rows = append(rows, "", s.TitleMuted.Render(sec.title))
		if len(sec.plans) == 0 {
			rows = append(rows, v.render.SidebarEmpty())
			continue
		}
		for _, p := range sec.plans {
			rows = append(rows, v.render.SidebarItem(p, v.sidebarFocus && idx == v.sidebarCursor, width))
			idx++
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
