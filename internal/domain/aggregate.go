package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownGroup is returned when a toggle names a group the counter was not
// built with.
var ErrUnknownGroup = errors.New("unknown group")

// HighSeverityTotal sums the red-record counts of all groups.
func HighSeverityTotal(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += g.HighSeverityCount
	}
	return total
}

// Counter is the running total of red markers over the visible layers.
//
// It starts at zero with nothing active. Activating an inactive group adds its
// count, deactivating an active group subtracts it, and repeating either on a
// group already in that state changes nothing. After every call Total equals
// the sum of counts over Active. A Counter has a single owner and is not safe
// for concurrent use; the browser renderer mirrors the same contract in JS.
type Counter struct {
	order  []string
	counts map[string]int
	active map[string]bool
	total  int
}

// NewCounter builds a counter over the static per-group counts.
func NewCounter(groups []Group) *Counter {
	c := &Counter{
		order:  make([]string, 0, len(groups)),
		counts: make(map[string]int, len(groups)),
		active: make(map[string]bool, len(groups)),
	}
	for _, g := range groups {
		c.order = append(c.order, g.Name)
		c.counts[g.Name] = g.HighSeverityCount
	}
	return c
}

// Activate marks a group visible and returns the new total.
func (c *Counter) Activate(name string) (int, error) {
	count, ok := c.counts[name]
	if !ok {
		return c.total, fmt.Errorf("activate %q: %w", name, ErrUnknownGroup)
	}
	if !c.active[name] {
		c.active[name] = true
		c.total += count
	}
	return c.total, nil
}

// Deactivate marks a group hidden and returns the new total.
func (c *Counter) Deactivate(name string) (int, error) {
	count, ok := c.counts[name]
	if !ok {
		return c.total, fmt.Errorf("deactivate %q: %w", name, ErrUnknownGroup)
	}
	if c.active[name] {
		c.active[name] = false
		c.total -= count
	}
	return c.total, nil
}

// Toggle flips a group's visibility and returns the new total.
func (c *Counter) Toggle(name string) (int, error) {
	if c.active[name] {
		return c.Deactivate(name)
	}
	return c.Activate(name)
}

// Total is the current running total.
func (c *Counter) Total() int { return c.total }

// Active lists the visible groups in group order.
func (c *Counter) Active() []string {
	var out []string
	for _, name := range c.order {
		if c.active[name] {
			out = append(out, name)
		}
	}
	return out
}

// Count returns the static red-record count of one group.
func (c *Counter) Count(name string) (int, bool) {
	n, ok := c.counts[name]
	return n, ok
}
