// Package store caches the four plan collections fetched from the backend.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/tgienger/planner/internal/models"
)

// Backend is the subset of the API client the store needs
type Backend interface {
	List(ctx context.Context, kind models.Kind) ([]models.Plan, error)
	ByDate(ctx context.Context, date models.Date) ([]models.Plan, error)
	ByWeek(ctx context.Context, date models.Date) ([]models.Plan, error)
	ByYearMonth(ctx context.Context, year, month int) ([]models.Plan, error)
	ByYear(ctx context.Context, kind models.Kind, year int) ([]models.Plan, error)
	ByStatus(ctx context.Context, kind models.Kind, status models.Status) ([]models.Plan, error)
	ByPriority(ctx context.Context, kind models.Kind, priority models.Priority) ([]models.Plan, error)
}

// Store holds the last full snapshot of every collection. Filtered queries
// never replace a snapshot.
type Store struct {
	backend Backend

	mu    sync.RWMutex
	plans map[models.Kind][]models.Plan
}

func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		plans:   make(map[models.Kind][]models.Plan, len(models.Kinds())),
	}
}

// Load fetches the full collection of kind and replaces the cached copy.
// On error the cached copy is kept.
func (s *Store) Load(ctx context.Context, kind models.Kind) ([]models.Plan, error) {
	plans, err := s.backend.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []models.Plan{}
	}

	s.mu.Lock()
	s.plans[kind] = plans
	s.mu.Unlock()

	return clonePlans(plans), nil
}

// Plans returns a copy of the cached collection
func (s *Store) Plans(kind models.Kind) []models.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePlans(s.plans[kind])
}

// Progress returns completed/total for the cached collection
func (s *Store) Progress(kind models.Kind) (completed, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Progress(s.plans[kind])
}

// Find looks a plan up in the cached collection
func (s *Store) Find(kind models.Kind, id int64) (models.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plans[kind] {
		if p.ID == id {
			return p, true
		}
	}
	return models.Plan{}, false
}

// Filter runs the narrowest query the criteria select for kind. The cache
// is left untouched.
func (s *Store) Filter(ctx context.Context, kind models.Kind, c Criteria) ([]models.Plan, error) {
	switch c.Applied(kind) {
	case ByDate:
		return s.backend.ByDate(ctx, c.Date)
	case ByWeek:
		return s.backend.ByWeek(ctx, c.Date)
	case ByYearMonth:
		return s.backend.ByYearMonth(ctx, c.Year, c.Month)
	case ByYear:
		return s.backend.ByYear(ctx, kind, c.Year)
	case ByStatus:
		return s.backend.ByStatus(ctx, kind, c.Status)
	case ByPriority:
		return s.backend.ByPriority(ctx, kind, c.Priority)
	case Unfiltered:
		return s.backend.List(ctx, kind)
	}
	return nil, fmt.Errorf("unsupported filter for %s plans", kind.Path())
}

func clonePlans(plans []models.Plan) []models.Plan {
	if plans == nil {
		return nil
	}
	out := make([]models.Plan, len(plans))
	copy(out, plans)
	return out
}
