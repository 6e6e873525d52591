package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planner/internal/api"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/msgs"
	"github.com/tgienger/planner/internal/ui/styles"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldStatus
	fieldDate
	fieldWeekStart
	fieldWeekEnd
	fieldYear
	fieldMonth
	fieldSave
)

// formFields lists the fields shown for kind
func formFields(kind models.Kind) []formField {
	fields := []formField{fieldTitle, fieldDescription, fieldPriority, fieldStatus}
	switch kind {
	case models.Daily:
		fields = append(fields, fieldDate)
	case models.Weekly:
		fields = append(fields, fieldWeekStart, fieldWeekEnd)
	case models.Monthly:
		fields = append(fields, fieldYear, fieldMonth)
	case models.Yearly:
		fields = append(fields, fieldYear)
	}
	return append(fields, fieldSave)
}

// FormView creates or edits one plan
type FormView struct {
	kind   models.Kind
	editID int64 // 0 when creating
	deps   Deps
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	fields []formField
	focus  int
	saving bool

	// statusLocked is set when editing a completed or failed plan
	statusLocked bool

	title     textinput.Model
	desc      textarea.Model
	priority  choice
	status    choice
	date      textinput.Model
	weekStart textinput.Model
	weekEnd   textinput.Model
	year      choice
	month     choice
}

// PlanFetchedMsg carries the plan loaded for editing
type PlanFetchedMsg struct {
	Kind models.Kind
	Plan *models.Plan
	Err  error
}

// FetchForEdit loads the plan an edit form will be filled from
func FetchForEdit(svc Service, kind models.Kind, id int64) tea.Cmd {
	return func() tea.Msg {
		p, err := svc.Get(context.Background(), kind, id)
		return PlanFetchedMsg{Kind: kind, Plan: p, Err: err}
	}
}

type formSavedMsg struct {
	kind models.Kind
	edit bool
	err  error
}

func newDateInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = models.DateLayout
	ti.CharLimit = len(models.DateLayout)
	return ti
}

func newFormView(kind models.Kind, deps Deps, s *styles.Styles) *FormView {
	title := textinput.New()
	title.Placeholder = "Plan title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	return &FormView{
		kind:      kind,
		deps:      deps,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		fields:    formFields(kind),
		title:     title,
		desc:      desc,
		priority:  priorityChoice(),
		status:    statusChoice(),
		date:      newDateInput(),
		weekStart: newDateInput(),
		weekEnd:   newDateInput(),
		year:      yearChoice(deps.Today().Year),
		month:     monthChoice(),
	}
}

// NewFormView opens an empty form with the defaults for kind
func NewFormView(kind models.Kind, deps Deps, s *styles.Styles) *FormView {
	f := newFormView(kind, deps, s)
	f.priority.set(string(models.PriorityMedium))
	f.status.set(string(models.StatusNotStarted))
	f.setSchedule(models.DefaultSchedule(kind, deps.Today()))
	f.syncFocus()
	return f
}

// EditFormView opens a form pre-filled from p
func EditFormView(p models.Plan, deps Deps, s *styles.Styles) *FormView {
	f := newFormView(p.Kind(), deps, s)
	f.editID = p.ID
	f.title.SetValue(p.Title)
	f.desc.SetValue(p.Description)
	f.priority.set(string(p.Priority))
	f.status.set(string(p.Status))
	f.statusLocked = p.Status.Terminal()
	f.setSchedule(p.Schedule)
	f.syncFocus()
	return f
}

func (f *FormView) setSchedule(sch models.Schedule) {
	switch s := sch.(type) {
	case models.DailySchedule:
		f.date.SetValue(s.Date.String())
	case models.WeeklySchedule:
		f.weekStart.SetValue(s.Start.String())
		f.weekEnd.SetValue(s.End.String())
	case models.MonthlySchedule:
		f.setYear(s.Year)
		f.month.set(strconv.Itoa(s.Month))
	case models.YearlySchedule:
		f.setYear(s.Year)
	}
}

// setYear selects year, adding it when it lies outside the offered range
func (f *FormView) setYear(year int) {
	v := strconv.Itoa(year)
	f.year.set(v)
	if f.year.value() == v {
		return
	}
	f.year.labels = append(f.year.labels, v)
	f.year.values = append(f.year.values, v)
	f.year.idx = len(f.year.values) - 1
}

// Kind returns the plan kind being edited
func (f *FormView) Kind() models.Kind { return f.kind }

// Editing reports whether the form edits an existing plan
func (f *FormView) Editing() bool { return f.editID != 0 }

// Input builds the request body from the fields
func (f *FormView) Input() (api.PlanInput, error) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return api.PlanInput{}, errors.New("title is required")
	}

	in := api.PlanInput{
		Title:       title,
		Description: strings.TrimSpace(f.desc.Value()),
		Priority:    models.Priority(f.priority.value()),
		Status:      models.Status(f.status.value()),
	}

	switch f.kind {
	case models.Daily:
		d, err := parseField("date", f.date)
		if err != nil {
			return api.PlanInput{}, err
		}
		in.Schedule = models.DailySchedule{Date: d}
	case models.Weekly:
		start, err := parseField("week start", f.weekStart)
		if err != nil {
			return api.PlanInput{}, err
		}
		end, err := parseField("week end", f.weekEnd)
		if err != nil {
			return api.PlanInput{}, err
		}
		in.Schedule = models.WeeklySchedule{Start: start, End: end}
	case models.Monthly:
		in.Schedule = models.MonthlySchedule{Year: f.year.intValue(), Month: f.month.intValue()}
	case models.Yearly:
		in.Schedule = models.YearlySchedule{Year: f.year.intValue()}
	}
	return in, nil
}

func parseField(name string, ti textinput.Model) (models.Date, error) {
	s := strings.TrimSpace(ti.Value())
	if s == "" {
		return models.Date{}, fmt.Errorf("%s is required", name)
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid %s %q, use %s", name, s, models.DateLayout)
	}
	return d, nil
}

func (f *FormView) save() tea.Cmd {
	in, err := f.Input()
	if err != nil {
		return toast(msgs.ToastErr(err))
	}
	f.saving = true
	kind, id, svc := f.kind, f.editID, f.deps.Service
	return func() tea.Msg {
		var err error
		if id != 0 {
			_, err = svc.Update(context.Background(), id, in)
		} else {
			_, err = svc.Create(context.Background(), in)
		}
		return formSavedMsg{kind: kind, edit: id != 0, err: err}
	}
}

func (f *FormView) Init() tea.Cmd {
	return textinput.Blink
}

func (f *FormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		f.height = msg.Height
		contentWidth := styles.ContentWidth(f.width)
		f.desc.SetWidth(clamp(contentWidth-10, 20, 50))
		return f, nil

	case formSavedMsg:
		f.saving = false
		if msg.err != nil {
			// the form stays open so the input is not lost
			return f, toast(msgs.ToastErr(msg.err))
		}
		text := "Plan created"
		if msg.edit {
			text = "Plan updated"
		}
		return f, tea.Batch(
			func() tea.Msg { return msgs.CloseFormMsg{} },
			mutated(msg.kind, text),
		)

	case tea.KeyMsg:
		return f.updateKeys(msg)
	}
	return f, nil
}

func (f *FormView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if f.saving {
		return f, nil
	}

	switch {
	case key.Matches(msg, f.keys.Back):
		return f, func() tea.Msg { return msgs.CloseFormMsg{} }

	case key.Matches(msg, f.keys.Save):
		return f, f.save()

	case key.Matches(msg, f.keys.Tab):
		f.focus = (f.focus + 1) % len(f.fields)
		f.syncFocus()
		return f, nil

	case key.Matches(msg, f.keys.PrevTab):
		f.focus = (f.focus + len(f.fields) - 1) % len(f.fields)
		f.syncFocus()
		return f, nil

	case key.Matches(msg, f.keys.Enter):
		switch f.focused() {
		case fieldSave:
			return f, f.save()
		case fieldDescription:
			// newlines go to the textarea
		default:
			f.focus++
			f.syncFocus()
			return f, nil
		}
	}

	if c := f.choiceFor(f.focused()); c != nil {
		switch {
		case key.Matches(msg, f.keys.Right), msg.String() == " ":
			c.next()
		case key.Matches(msg, f.keys.Left):
			c.prev()
		}
		return f, nil
	}

	var cmd tea.Cmd
	switch f.focused() {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.desc, cmd = f.desc.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldWeekStart:
		f.weekStart, cmd = f.weekStart.Update(msg)
	case fieldWeekEnd:
		f.weekEnd, cmd = f.weekEnd.Update(msg)
	}
	return f, cmd
}

func (f *FormView) focused() formField { return f.fields[f.focus] }

func (f *FormView) choiceFor(field formField) *choice {
	switch field {
	case fieldPriority:
		return &f.priority
	case fieldStatus:
		if f.statusLocked {
			return nil
		}
		return &f.status
	case fieldYear:
		return &f.year
	case fieldMonth:
		return &f.month
	}
	return nil
}

// syncFocus focuses the input under the cursor and blurs the rest
func (f *FormView) syncFocus() {
	f.title.Blur()
	f.desc.Blur()
	f.date.Blur()
	f.weekStart.Blur()
	f.weekEnd.Blur()

	switch f.focused() {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.desc.Focus()
	case fieldDate:
		f.date.Focus()
	case fieldWeekStart:
		f.weekStart.Focus()
	case fieldWeekEnd:
		f.weekEnd.Focus()
	}
}

func (f *FormView) View() string {
	s := f.styles
	contentWidth := styles.ContentWidth(f.width)
	inputWidth := clamp(contentWidth-10, 20, 50)

	heading := "New " + f.kind.String() + " Plan"
	if f.Editing() {
		heading = "Edit " + f.kind.String() + " Plan"
	}

	var rows []string
	rows = append(rows, s.Title.Render(heading), "")
	for i, field := range f.fields {
		style := s.Input
		if i == f.focus {
			style = s.InputFocused
		}

		var label, body string
		switch field {
		case fieldTitle:
			label, body = "Title *", f.title.View()
		case fieldDescription:
			label, body = "Description", f.desc.View()
		case fieldPriority:
			label, body = "Priority", "‹ "+f.priority.label()+" ›"
		case fieldStatus:
			label, body = "Status", "‹ "+f.status.label()+" ›"
			if f.statusLocked {
				body = s.TitleMuted.Render("⊘ " + f.status.label())
			}
		case fieldDate:
			label, body = "Date", f.date.View()
		case fieldWeekStart:
			label, body = "Week start", f.weekStart.View()
		case fieldWeekEnd:
			label, body = "Week end", f.weekEnd.View()
		case fieldYear:
			label, body = "Year", "‹ "+f.year.label()+" ›"
		case fieldMonth:
			label, body = "Month", "‹ "+f.month.label()+" ›"
		case fieldSave:
			btn := s.Button
			if i == f.focus {
				btn = s.ButtonFocused
			}
			text := "Save"
			if f.saving {
				text = "Saving…"
			}
			rows = append(rows, "", btn.Render(text))
			continue
		}
		rows = append(rows,
			s.TitleMuted.Render(label),
			style.Width(inputWidth).Render(body),
		)
	}

	rows = append(rows, "", s.TitleMuted.Render("tab next • ←/→ change • ctrl+s save • esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
