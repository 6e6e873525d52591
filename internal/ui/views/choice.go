package views

import (
	"strconv"
	"time"

	"github.com/tgienger/planner/internal/models"
)

// choice is a cycling select field
type choice struct {
	labels []string
	values []string
	idx    int
}

func (c *choice) next() { c.idx = (c.idx + 1) % len(c.values) }
func (c *choice) prev() { c.idx = (c.idx + len(c.values) - 1) % len(c.values) }

func (c choice) label() string { return c.labels[c.idx] }
func (c choice) value() string { return c.values[c.idx] }

// set selects v, falling back to the first option
func (c *choice) set(v string) {
	c.idx = 0
	for i, val := range c.values {
		if val == v {
			c.idx = i
			return
		}
	}
}

func (c choice) intValue() int {
	n, _ := strconv.Atoi(c.value())
	return n
}

// withAny prepends an empty "any" option
func withAny(c choice, label string) choice {
	return choice{
		labels: append([]string{label}, c.labels...),
		values: append([]string{""}, c.values...),
	}
}

func statusChoice() choice {
	var c choice
	for _, s := range models.Statuses() {
		c.labels = append(c.labels, s.Label())
		c.values = append(c.values, string(s))
	}
	return c
}

func priorityChoice() choice {
	var c choice
	for _, p := range models.Priorities() {
		c.labels = append(c.labels, p.Label())
		c.values = append(c.values, string(p))
	}
	return c
}

// yearChoice offers the current year and five years either side
func yearChoice(current int) choice {
	var c choice
	for y := current - 5; y <= current+5; y++ {
		s := strconv.Itoa(y)
		c.labels = append(c.labels, s)
		c.values = append(c.values, s)
	}
	c.set(strconv.Itoa(current))
	return c
}

func monthChoice() choice {
	var c choice
	for m := 1; m <= 12; m++ {
		c.labels = append(c.labels, time.Month(m).String())
		c.values = append(c.values, strconv.Itoa(m))
	}
	return c
}
