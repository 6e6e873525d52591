package render

import (
	"html/template"
	"io"

	"github.com/tgienger/planner/internal/models"
)

var htmlList = template.Must(template.New("list").Parse(`{{if .Plans}}{{range $card := .Plans}}<div class="plan-card status-{{.Status}}" data-id="{{.ID}}" data-type="{{$.Kind}}">
  <div class="priority-bar priority-{{.Priority}}"></div>
  <div class="plan-card-title">{{.Title}}</div>
  <div class="plan-card-meta"><span class="badge badge-priority-{{.Priority}}">{{.PriorityLabel}}</span> <span class="badge badge-status-{{.Status}}">{{.StatusLabel}}</span></div>
  <select class="status-select"{{if .Selector.Disabled}} disabled title="{{.Selector.Hint}}"{{end}}>{{range .Selector.Options}}<option value="{{.}}"{{if eq . $card.Status}} selected{{end}}>{{.Label}}</option>{{end}}</select>
{{if .Description}}  <div class="plan-card-description">{{.Description}}</div>
{{end}}  <div class="plan-card-date">{{.DateLabel}}</div>
</div>
{{end}}{{else}}<div class="empty-state"><div class="empty-state-text">No plans yet.</div></div>
{{end}}`))

type htmlCard struct {
	ID            int64
	Title         string
	Description   string
	Priority      models.Priority
	PriorityLabel string
	Status        models.Status
	StatusLabel   string
	DateLabel     string
	Selector      Selector
}

// WriteHTML writes the list of plans as HTML markup. All text goes through
// html/template contextual escaping.
func WriteHTML(w io.Writer, kind models.Kind, plans []models.Plan) error {
	cards := make([]htmlCard, len(plans))
	for i, p := range plans {
		cards[i] = htmlCard{
			ID:            p.ID,
			Title:         p.Title,
			Description:   p.Description,
			Priority:      p.Priority,
			PriorityLabel: p.Priority.Label(),
			Status:        p.Status,
			StatusLabel:   p.Status.Label(),
			DateLabel:     DateLabel(p.Schedule),
			Selector:      StatusSelector(p.Status),
		}
	}
	return htmlList.Execute(w, struct {
		Kind  string
		Plans []htmlCard
	}{kind.Path(), cards})
}
