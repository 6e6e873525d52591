package views

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/planner/internal/models"
	"github.com/tgienger/planner/internal/reorder"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui/keys"
	"github.com/tgienger/planner/internal/ui/msgs"
	"github.com/tgienger/planner/internal/ui/render"
	"github.com/tgienger/planner/internal/ui/styles"
)

// PlanListView shows the plans of one kind
type PlanListView struct {
	kind   models.Kind
	deps   Deps
	drag   *reorder.Controller
	styles *styles.Styles
	render *render.Renderer
	keys   keys.KeyMap

	width  int
	height int

	plans   []models.Plan
	loading bool
	cursor  int
	scrollY int
	focusID int64 // plan to put the cursor on after the next load

	// Filter bar
	filter     *filterBar
	filterOpen bool

	// Status picker
	pickingStatus bool
	statusCursor  int

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
}

// NewPlanListView creates the list view for kind. drag is shared by all lists
// so at most one reorder session exists at a time.
func NewPlanListView(kind models.Kind, deps Deps, drag *reorder.Controller, s *styles.Styles) *PlanListView {
	return &PlanListView{
		kind:   kind,
		deps:   deps,
		drag:   drag,
		styles: s,
		render: render.New(s),
		keys:   keys.DefaultKeyMap(),
		filter: newFilterBar(kind, deps.Today().Year),
	}
}

type listLoadedMsg struct {
	kind  models.Kind
	plans []models.Plan
	err   error
}

type deleteDoneMsg struct {
	kind models.Kind
	id   int64
	err  error
}

type statusDoneMsg struct {
	kind models.Kind
	err  error
}

type reorderDoneMsg struct {
	kind models.Kind
	err  error
}

// Kind returns the plan kind shown
func (v *PlanListView) Kind() models.Kind { return v.kind }

// Plans returns the plans currently displayed
func (v *PlanListView) Plans() []models.Plan { return v.plans }

// Loading reports whether a load is in flight
func (v *PlanListView) Loading() bool { return v.loading }

// Capturing reports whether the view consumes all keys
func (v *PlanListView) Capturing() bool {
	return v.filterOpen || v.pickingStatus || v.confirmingDelete
}

// Focus puts the cursor on plan id once it is loaded
func (v *PlanListView) Focus(id int64) {
	v.focusID = id
	v.applyFocus()
}

// Load fetches the plans for the tab's current criteria. Only an unfiltered
// load replaces the shared cache.
func (v *PlanListView) Load() tea.Cmd { return v.load(false) }

// Refresh reloads after a mutation. A filtered tab also reloads the full
// collection so progress badges and calendar dots see the change.
func (v *PlanListView) Refresh() tea.Cmd { return v.load(true) }

func (v *PlanListView) load(refreshCache bool) tea.Cmd {
	v.loading = true
	kind := v.kind
	c := v.deps.State.Filters[kind]
	plans := v.deps.Plans
	return func() tea.Msg {
		ctx := context.Background()
		if c.Applied(kind) == store.Unfiltered {
			ps, err := plans.Load(ctx, kind)
			return listLoadedMsg{kind: kind, plans: ps, err: err}
		}
		if refreshCache {
			if _, err := plans.Load(ctx, kind); err != nil {
				log.Printf("refresh %s cache: %v", kind.Path(), err)
			}
		}
		ps, err := plans.Filter(ctx, kind, c)
		return listLoadedMsg{kind: kind, plans: ps, err: err}
	}
}

func (v *PlanListView) Init() tea.Cmd {
	return v.Load()
}

func (v *PlanListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case listLoadedMsg:
		if msg.kind != v.kind {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			return v, toast(msgs.ToastErr(msg.err))
		}
		v.plans = msg.plans
		v.applyFocus()
		if v.cursor >= len(v.plans) {
			v.cursor = max(0, len(v.plans)-1)
		}
		return v, nil

	case deleteDoneMsg:
		if msg.kind != v.kind {
			return v, nil
		}
		if msg.err != nil {
			return v, toast(msgs.ToastErr(msg.err))
		}
		return v, mutated(v.kind, "Plan deleted")

	case statusDoneMsg:
		if msg.kind != v.kind {
			return v, nil
		}
		if msg.err != nil {
			return v, toast(msgs.ToastErr(msg.err))
		}
		return v, mutated(v.kind, "Status updated")

	case reorderDoneMsg:
		if msg.kind != v.kind {
			return v, nil
		}
		if msg.err != nil {
			// the server has the authoritative order
			return v, tea.Batch(toast(msgs.ToastErr(msg.err)), v.Load())
		}
		return v, toast(msgs.Toast("Order updated"))

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.pickingStatus {
			return v.updateStatusPicker(msg)
		}
		if v.filterOpen {
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *PlanListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.drag.Cancel()
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.plans)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.drag.Cancel()
		kind := v.kind
		return v, func() tea.Msg { return msgs.OpenFormMsg{Kind: kind} }

	case key.Matches(msg, v.keys.Filter):
		v.drag.Cancel()
		v.filter.load(v.deps.State.Filters[v.kind])
		v.filterOpen = true
		return v, nil

	case key.Matches(msg, v.keys.Reset):
		if v.deps.State.Filters[v.kind].IsZero() {
			return v, nil
		}
		delete(v.deps.State.Filters, v.kind)
		v.cursor, v.scrollY = 0, 0
		return v, v.Load()
	}

	p, ok := v.Selected()
	if !ok {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Move):
		if _, active := v.drag.Active(); active {
			return v.drop(p)
		}
		v.drag.Begin(v.kind, p.ID)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if _, active := v.drag.Active(); active {
			return v.drop(p)
		}
		return v, func() tea.Msg { return msgs.OpenFormMsg{Kind: p.Kind(), ID: p.ID} }

	case key.Matches(msg, v.keys.Edit):
		v.drag.Cancel()
		return v, func() tea.Msg { return msgs.OpenFormMsg{Kind: p.Kind(), ID: p.ID} }

	case key.Matches(msg, v.keys.Delete):
		v.drag.Cancel()
		v.confirmingDelete = true
		v.deleteTargetID = p.ID
		v.deleteTargetName = p.Title
		return v, nil

	case key.Matches(msg, v.keys.Status):
		v.drag.Cancel()
		if p.Status.Terminal() {
			return v, toast(msgs.ToastMsg{Text: "Completed or failed plans cannot change status", Err: true})
		}
		// preselect the next status so s, enter cycles
		next := render.StatusSelector(p.Status).Next()
		v.pickingStatus = true
		v.statusCursor = 0
		for i, st := range models.Statuses() {
			if st == next {
				v.statusCursor = i
			}
		}
		return v, nil
	}

	return v, nil
}

// drop ends the reorder session on target, applying the new order locally
// and sending it to the server
func (v *PlanListView) drop(target models.Plan) (tea.Model, tea.Cmd) {
	ids, ok := v.drag.Drop(v.kind, target.ID, models.IDs(v.plans))
	if !ok {
		return v, nil
	}

	byID := make(map[int64]models.Plan, len(v.plans))
	for _, p := range v.plans {
		byID[p.ID] = p
	}
	ordered := make([]models.Plan, len(ids))
	for i, id := range ids {
		ordered[i] = byID[id]
	}
	v.plans = ordered

	kind, svc := v.kind, v.deps.Service
	return v, func() tea.Msg {
		_, err := svc.Reorder(context.Background(), kind, ids)
		return reorderDoneMsg{kind: kind, err: err}
	}
}

func (v *PlanListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		kind, id, svc := v.kind, v.deleteTargetID, v.deps.Service
		return v, func() tea.Msg {
			err := svc.Delete(context.Background(), kind, id)
			return deleteDoneMsg{kind: kind, id: id, err: err}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *PlanListView) updateStatusPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	statuses := models.Statuses()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.pickingStatus = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.statusCursor > 0 {
			v.statusCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.statusCursor < len(statuses)-1 {
			v.statusCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		v.pickingStatus = false
		p, ok := v.Selected()
		status := statuses[v.statusCursor]
		if !ok || status == p.Status || p.Status.Terminal() {
			return v, nil
		}
		kind, svc := v.kind, v.deps.Service
		return v, func() tea.Msg {
			_, err := svc.UpdateStatus(context.Background(), kind, p.ID, status)
			return statusDoneMsg{kind: kind, err: err}
		}
	}
	return v, nil
}

func (v *PlanListView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.filterOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		c, err := v.filter.criteria()
		if err != nil {
			return v, toast(msgs.ToastErr(err))
		}
		v.filterOpen = false
		if c.IsZero() {
			delete(v.deps.State.Filters, v.kind)
		} else {
			v.deps.State.Filters[v.kind] = c
		}
		v.cursor, v.scrollY = 0, 0
		return v, v.Load()
	}
	return v, v.filter.update(msg, v.keys)
}

// Selected returns the plan under the cursor
func (v *PlanListView) Selected() (models.Plan, bool) {
	if v.cursor < 0 || v.cursor >= len(v.plans) {
		return models.Plan{}, false
	}
	return v.plans[v.cursor], true
}

func (v *PlanListView) applyFocus() {
	if v.focusID == 0 {
		return
	}
	for i, p := range v.plans {
		if p.ID == v.focusID {
			v.cursor = i
			v.focusID = 0
			return
		}
	}
}

func (v *PlanListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.pickingStatus {
		return v.renderStatusPicker()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *PlanListView) renderHeader() string {
	s := v.styles
	width := styles.ContentWidth(v.width)

	title := s.Title.Render(v.kind.String() + " plans")
	if c := v.deps.State.Filters[v.kind]; !c.IsZero() {
		title += s.TitleMuted.Render("  filtered by " + c.Describe(v.kind) + " (r to reset)")
	}
	if session, ok := v.drag.Active(); ok && session.Kind == v.kind {
		title += "  " + s.ToastSuccess.Render("moving: pick a spot, m to drop, esc to cancel")
	}

	if v.filterOpen {
		return lipgloss.JoinVertical(lipgloss.Left, title, v.filter.view(s, width))
	}
	return title + "\n"
}

func (v *PlanListView) renderList() string {
	width := styles.ContentWidth(v.width)
	session, moving := v.drag.Active()
	moving = moving && session.Kind == v.kind

	cards := v.render.List(v.plans, func(i int, p models.Plan) render.CardOptions {
		return render.CardOptions{
			Width:      width - 2,
			Selected:   i == v.cursor && !moving,
			Moving:     v.drag.Moving(v.kind, p.ID),
			DropTarget: moving && i == v.cursor && p.ID != session.ID,
		}
	})
	if len(v.plans) == 0 {
		return cards[0]
	}

	// Cards have varying heights; scroll so the cursor card fits
	budget := max(v.height-10, 3)
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	}
	for v.scrollY < v.cursor {
		used := 0
		for i := v.scrollY; i <= v.cursor; i++ {
			used += lipgloss.Height(cards[i])
		}
		if used <= budget {
			break
		}
		v.scrollY++
	}

	var visible []string
	used := 0
	for i := v.scrollY; i < len(cards); i++ {
		h := lipgloss.Height(cards[i])
		if used+h > budget && len(visible) > 0 {
			break
		}
		visible = append(visible, cards[i])
		used += h
	}
	return lipgloss.JoinVertical(lipgloss.Left, visible...)
}

func (v *PlanListView) renderHelp() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	return s.Help.Render(
		fmt.Sprintf("%s new • %s edit • %s delete • %s status • %s move • %s filter • %s reset • %s help",
			s.HelpKey.Render("n"),
			s.HelpKey.Render("e"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("s"),
			s.HelpKey.Render("m"),
			s.HelpKey.Render("f"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("?"),
		),
	)
}

func (v *PlanListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(s.Theme.Error).Render("Delete Plan?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", render.SanitizeLine(v.deleteTargetName))),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	return lipgloss.Place(contentWidth, max(v.height-4, 8),
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (v *PlanListView) renderStatusPicker() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var items []string
	for i, st := range models.Statuses() {
		itemStyle := s.ListItem
		if i == v.statusCursor {
			itemStyle = s.ListSelected
		}
		dot := lipgloss.NewStyle().Foreground(s.StatusColor(st)).Render("●")
		items = append(items, itemStyle.Render(dot+" "+st.Label()))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Change Status"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Render("↵ set • esc cancel"),
	)
	return lipgloss.Place(contentWidth, max(v.height-4, 8),
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
}

func toast(m msgs.ToastMsg) tea.Cmd {
	return func() tea.Msg { return m }
}

func mutated(kind models.Kind, text string) tea.Cmd {
	return func() tea.Msg { return msgs.MutatedMsg{Kind: kind, Toast: text} }
}
