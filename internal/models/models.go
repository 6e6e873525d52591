package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies one of the four plan scopes
type Kind int

const (
	Daily Kind = iota
	Weekly
	Monthly
	Yearly
)

// Kinds returns every plan kind in tab order
func Kinds() []Kind {
	return []Kind{Daily, Weekly, Monthly, Yearly}
}

// Path returns the REST path segment for the kind
func (k Kind) Path() string {
	switch k {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	}
	return ""
}

func (k Kind) String() string {
	switch k {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case Yearly:
		return "Yearly"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the REST segment or display name of a kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(s, k.Path()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown plan kind %q (want daily, weekly, monthly or yearly)", s)
}

// Priority of a plan
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists priorities from highest to lowest
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

// ParsePriority is case-insensitive
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Status of a plan
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Statuses lists statuses in selector order
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusFailed}
}

func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	}
	return string(s)
}

// Terminal reports whether the status can no longer be changed from the UI
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ParseStatus is case-insensitive and accepts dashes for underscores
func ParseStatus(s string) (Status, error) {
	norm := strings.ReplaceAll(s, "-", "_")
	for _, st := range Statuses() {
		if strings.EqualFold(norm, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Plan is a single planned item of any kind
type Plan struct {
	ID           int64
	Title        string
	Description  string
	Priority     Priority
	Status       Status
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Schedule     Schedule
}

// Kind derives the plan kind from its schedule
func (p Plan) Kind() Kind {
	return p.Schedule.Kind()
}

// Schedule is the kind-specific time scope of a plan.
// Implementations: DailySchedule, WeeklySchedule, MonthlySchedule, YearlySchedule.
type Schedule interface {
	Kind() Kind
	schedule()
}

type DailySchedule struct {
	Date Date
}

type WeeklySchedule struct {
	Start Date
	End   Date
}

type MonthlySchedule struct {
	Year  int
	Month int // 1-12
}

type YearlySchedule struct {
	Year int
}

func (DailySchedule) Kind() Kind   { return Daily }
func (WeeklySchedule) Kind() Kind  { return Weekly }
func (MonthlySchedule) Kind() Kind { return Monthly }
func (YearlySchedule) Kind() Kind  { return Yearly }

func (DailySchedule) schedule()   {}
func (WeeklySchedule) schedule()  {}
func (MonthlySchedule) schedule() {}
func (YearlySchedule) schedule()  {}

// DefaultSchedule returns the schedule a new plan of kind k gets on day today
func DefaultSchedule(k Kind, today Date) Schedule {
	switch k {
	case Weekly:
		start, end := WeekOf(today)
		return WeeklySchedule{Start: start, End: end}
	case Monthly:
		return MonthlySchedule{Year: today.Year, Month: today.Month}
	case Yearly:
		return YearlySchedule{Year: today.Year}
	}
	return DailySchedule{Date: today}
}

// Progress returns how many plans are completed out of the total
func Progress(plans []Plan) (completed, total int) {
	for _, p := range plans {
		if p.Status == StatusCompleted {
			completed++
		}
	}
	return completed, len(plans)
}

// IDs returns plan ids in order
func IDs(plans []Plan) []int64 {
	ids := make([]int64, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}
