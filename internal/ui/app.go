package ui

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/reorder"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/msgs"
	"github.com/tgienger/planner/internal/ui/render"
	"github.com/tgienger/planner/internal/ui/styles"
	"github.com/tgienger/planner/internal/ui/views"
)

// toastTTL is how long a toast stays on screen
const toastTTL = 3 * time.Second

// Options configures the application
type Options struct {
	// Theme is used when no theme has been saved yet
	Theme string
	// Today overrides the clock, mainly for tests
	Today func() models.Date
}

// view is implemented by the calendar and the plan lists
type view interface {
	tea.Model
	Load() tea.Cmd
	Loading() bool
	Capturing() bool
}

type App struct {
	deps     views.Deps
	settings db.Settings
	styles   *styles.Styles
	keys     keys.KeyMap
	spinner  spinner.Model
	drag     *reorder.Controller

	calendar *views.CalendarView
	lists    map[models.Kind]*views.PlanListView
	form     *views.FormView

	toast    msgs.ToastMsg
	toastSeq int
	toastTTL time.Duration
	showHelp bool

	width  int
	height int
}

type toastExpiredMsg struct {
	seq int
}

// NewApp creates the application. The saved theme and last tab are restored
// from settings.
func NewApp(svc views.Service, plans views.Plans, settings db.Settings, opts Options) *App {
	today := opts.Today
	if today == nil {
		today = func() models.Date { return models.DateOf(time.Now()) }
	}

	theme, ok := styles.ThemeByName(opts.Theme)
	if !ok {
		theme = styles.Light
	}
	if saved, err := settings.GetSetting(db.KeyTheme); err != nil {
		log.Printf("load theme: %v", err)
	} else if t, ok := styles.ThemeByName(saved); ok {
		theme = t
	}
	styles.Current = theme
	s := styles.NewStylesFor(theme)

	deps := views.Deps{
		Service: svc,
		Plans:   plans,
		State:   views.NewViewState(today()),
		Today:   today,
	}
	if saved, err := settings.GetSetting(db.KeyLastTab); err != nil {
		log.Printf("load last tab: %v", err)
	} else if tab, ok := views.ParseTab(saved); ok {
		deps.State.Tab = tab
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	drag := &reorder.Controller{}
	a := &App{
		deps:     deps,
		settings: settings,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		spinner:  sp,
		drag:     drag,
		toastTTL: toastTTL,
		calendar: views.NewCalendarView(deps, s),
		lists:    make(map[models.Kind]*views.PlanListView),
	}
	for _, k := range models.Kinds() {
		a.lists[k] = views.NewPlanListView(k, deps, drag, s)
	}
	return a
}

// State exposes the view state
func (a *App) State() *views.ViewState { return a.deps.State }

func (a *App) Init() tea.Cmd {
	// The calendar load fills every collection so all tab badges are known
	cmds := []tea.Cmd{a.spinner.Tick, a.calendar.Load()}
	if k, ok := a.deps.State.Tab.Kind(); ok {
		cmds = append(cmds, a.lists[k].Load())
	}
	return tea.Batch(cmds...)
}

func (a *App) current() view {
	if k, ok := a.deps.State.Tab.Kind(); ok {
		return a.lists[k]
	}
	return a.calendar
}

// reload refreshes the current tab. The calendar reloads every collection
// and its sidebar; a list reloads its own kind.
func (a *App) reload() tea.Cmd {
	return a.current().Load()
}

// refresh reloads the current tab after a mutation
func (a *App) refresh() tea.Cmd {
	if k, ok := a.deps.State.Tab.Kind(); ok {
		return a.lists[k].Refresh()
	}
	return a.calendar.Load()
}

func (a *App) setTab(t views.Tab) tea.Cmd {
	a.deps.State.Tab = t
	if err := a.settings.SetSetting(db.KeyLastTab, t.Key()); err != nil {
		log.Printf("save last tab: %v", err)
	}
	return a.reload()
}

func (a *App) showToast(t msgs.ToastMsg) tea.Cmd {
	a.toast = t
	a.toastSeq++
	seq := a.toastSeq
	return tea.Tick(a.toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (a *App) toggleTheme() tea.Cmd {
	t := a.styles.Theme.Toggle()
	styles.Current = t
	*a.styles = *styles.NewStylesFor(t)
	a.spinner.Style = lipgloss.NewStyle().Foreground(t.Primary)
	if err := a.settings.SetSetting(db.KeyTheme, t.Name); err != nil {
		return a.showToast(msgs.ToastErr(err))
	}
	return nil
}

// openForm shows f sized to the current window
func (a *App) openForm(f *views.FormView) tea.Cmd {
	a.form = f
	a.form.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - 4})
	return a.form.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.calendar.Update(inner)
		for _, l := range a.lists {
			l.Update(inner)
		}
		if a.form != nil {
			a.form.Update(inner)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case msgs.ToastMsg:
		return a, a.showToast(msg)

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = msgs.ToastMsg{}
		}
		return a, nil

	case msgs.MutatedMsg:
		return a, tea.Batch(a.showToast(msgs.Toast(msg.Toast)), a.refresh())

	case msgs.OpenFormMsg:
		if msg.ID != 0 {
			return a, views.FetchForEdit(a.deps.Service, msg.Kind, msg.ID)
		}
		return a, a.openForm(views.NewFormView(msg.Kind, a.deps, a.styles))

	case views.PlanFetchedMsg:
		if msg.Err != nil {
			return a, a.showToast(msgs.ToastErr(msg.Err))
		}
		return a, a.openForm(views.EditFormView(*msg.Plan, a.deps, a.styles))

	case msgs.CloseFormMsg:
		a.form = nil
		return a, nil

	case msgs.SelectDayMsg:
		a.deps.State.Filters[models.Daily] = store.Criteria{Date: msg.Date}
		return a, a.setTab(views.TabDaily)

	case msgs.JumpToPlanMsg:
		if _, ok := a.deps.Plans.Find(msg.Kind, msg.ID); !ok {
			return a, a.showToast(msgs.ToastMsg{Text: "Plan no longer exists", Err: true})
		}
		// clear the filter so the plan is guaranteed to be listed
		delete(a.deps.State.Filters, msg.Kind)
		a.lists[msg.Kind].Focus(msg.ID)
		return a, a.setTab(views.TabFor(msg.Kind))

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	// Everything else is a view's own response; views ignore what is not theirs
	var cmds []tea.Cmd
	if a.form != nil {
		_, cmd := a.form.Update(msg)
		cmds = append(cmds, cmd)
	}
	_, cmd := a.calendar.Update(msg)
	cmds = append(cmds, cmd)
	for _, k := range models.Kinds() {
		_, cmd := a.lists[k].Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Help popup - any key closes it
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.form != nil {
		_, cmd := a.form.Update(msg)
		return a, cmd
	}

	cur := a.current()
	if !cur.Capturing() {
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			return a, nil
		case key.Matches(msg, a.keys.Theme):
			return a, a.toggleTheme()
		case key.Matches(msg, a.keys.NextTab):
			tabs := views.Tabs()
			return a, a.setTab(tabs[(int(a.deps.State.Tab)+1)%len(tabs)])
		case key.Matches(msg, a.keys.PrevTab):
			tabs := views.Tabs()
			return a, a.setTab(tabs[(int(a.deps.State.Tab)+len(tabs)-1)%len(tabs)])
		case key.Matches(msg, a.keys.Calendar):
			return a, a.setTab(views.TabCalendar)
		case key.Matches(msg, a.keys.Daily):
			return a, a.setTab(views.TabDaily)
		case key.Matches(msg, a.keys.Weekly):
			return a, a.setTab(views.TabWeekly)
		case key.Matches(msg, a.keys.Monthly):
			return a, a.setTab(views.TabMonthly)
		case key.Matches(msg, a.keys.Yearly):
			return a, a.setTab(views.TabYearly)
		}
	}

	_, cmd := cur.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	var body string
	switch {
	case a.showHelp:
		body = a.renderHelpPopup()
	case a.form != nil:
		body = a.form.View()
	default:
		body = a.current().View()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		"",
		body,
		a.renderStatusBar(),
	)
	return styles.CenterView(content, a.width, a.height)
}

// renderTabs draws the tab bar. It depends only on the current tab and the
// cached progress counts.
func (a *App) renderTabs() string {
	s := a.styles
	var tabs []string
	for _, t := range views.Tabs() {
		label := t.String()
		if k, ok := t.Kind(); ok {
			if badge := render.ProgressBadge(a.deps.Plans.Progress(k)); badge != "" {
				label += " " + badge
			}
		}
		style := s.Tab
		if t == a.deps.State.Tab {
			style = s.TabActive
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderStatusBar() string {
	s := a.styles
	if a.toast.Text != "" {
		style := s.ToastSuccess
		if a.toast.Err {
			style = s.ToastError
		}
		return style.Render(render.SanitizeLine(a.toast.Text))
	}
	if a.current().Loading() {
		return s.StatusBar.Render(a.spinner.View() + " Loading…")
	}
	return s.StatusBar.Render(strings.Join([]string{
		s.HelpKey.Render("tab") + " switch",
		s.HelpKey.Render("t") + " theme",
		s.HelpKey.Render("?") + " help",
		s.HelpKey.Render("q") + " quit",
	}, " • "))
}

func (a *App) renderHelpPopup() string {
	s := a.styles
	contentWidth := styles.ContentWidth(a.width)

	helpItems := []string{
		s.HelpKey.Render("1-5") + "    calendar / daily / weekly / monthly / yearly",
		s.HelpKey.Render("tab") + "    next tab",
		s.HelpKey.Render("n") + "      new plan",
		s.HelpKey.Render("e") + "      edit plan",
		s.HelpKey.Render("d") + "      delete plan",
		s.HelpKey.Render("s") + "      change status",
		s.HelpKey.Render("m") + "      pick up / drop a plan to reorder",
		s.HelpKey.Render("f") + "      filter",
		s.HelpKey.Render("r") + "      reset filters",
		s.HelpKey.Render("[ ]") + "    previous / next month",
		s.HelpKey.Render("g") + "      today",
		s.HelpKey.Render("p") + "      month plans sidebar",
		s.HelpKey.Render("t") + "      toggle theme",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	return lipgloss.Place(contentWidth, max(a.height-4, 10),
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
}
