// Package reorder tracks the single pick-up-and-drop gesture used to
// reorder a plan list.
package reorder

import "github.com/tgienger/planner/internal/models"

// Session is the card currently being moved
type Session struct {
	Kind models.Kind
	ID   int64
}

// Controller owns at most one active session
type Controller struct {
	active *Session
}

// Begin starts moving plan id of kind, replacing any previous session
func (c *Controller) Begin(kind models.Kind, id int64) {
	c.active = &Session{Kind: kind, ID: id}
}

// Active returns the current session, if any
func (c *Controller) Active() (Session, bool) {
	if c.active == nil {
		return Session{}, false
	}
	return *c.active, true
}

// Moving reports whether plan id of kind is the card being moved
func (c *Controller) Moving(kind models.Kind, id int64) bool {
	return c.active != nil && c.active.Kind == kind && c.active.ID == id
}

// Cancel ends the session without a drop
func (c *Controller) Cancel() {
	c.active = nil
}

// Drop ends the session on targetID within the list ids of kind. It
// returns the new order and true when the drop is accepted: the session
// kind matches, the target differs from the moved card and both are in ids.
// Moving down places the card after the target, moving up before it.
func (c *Controller) Drop(kind models.Kind, targetID int64, ids []int64) ([]int64, bool) {
	s := c.active
	c.active = nil
	if s == nil || s.Kind != kind || s.ID == targetID {
		return nil, false
	}
	return Move(ids, s.ID, targetID)
}

// Move returns ids with id relocated next to target
func Move(ids []int64, id, target int64) ([]int64, bool) {
	from, to := indexOf(ids, id), indexOf(ids, target)
	if from < 0 || to < 0 || from == to {
		return nil, false
	}

	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v == id {
			continue
		}
		if v == target && from > to {
			out = append(out, id)
		}
		out = append(out, v)
		if v == target && from < to {
			out = append(out, id)
		}
	}
	return out, true
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
