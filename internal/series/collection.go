package series

import (
	"fmt"
	"time"

	"energy-dataset/internal/canon"
	"energy-dataset/internal/model"
	"energy-dataset/internal/validate"
)

// slot is one position of the backing store. A slot created by SetSize stays
// unwritten until Insert fills it.
type slot struct {
	iv      model.Interval
	written bool
}

// Collection is an ordered store of intervals with positional and
// start-keyed access.
//
// Collections are not safe for concurrent use. The loader fills a collection
// once; readers must not run while it is being mutated.
//
// Every lookup comes in two flavours: a strict one returning ErrNoData /
// ErrOutOfRange, and a Try* one returning ok=false instead.
type Collection struct {
	name  string
	loc   *time.Location
	parse canon.Func
	cases []validate.Case

	slots []slot
}

// New creates a collection with size empty slots.
// A nil loc means time.Local.
func New(name string, size int, loc *time.Location) *Collection {
	if name == "" {
		name = "n/a"
	}
	if loc == nil {
		loc = time.Local
	}
	c := &Collection{name: name, loc: loc}
	c.SetSize(size)
	return c
}

func (c *Collection) Name() string               { return c.name }
func (c *Collection) Location() *time.Location   { return c.loc }
func (c *Collection) ParseFunc() canon.Func      { return c.parse }
func (c *Collection) SetParseFunc(fn canon.Func) { c.parse = fn }

// Cases returns a copy of the validation cases attached to the collection.
func (c *Collection) Cases() []validate.Case {
	out := make([]validate.Case, len(c.cases))
	copy(out, c.cases)
	return out
}

// AddCase attaches a validation case.
func (c *Collection) AddCase(tc validate.Case) { c.cases = append(c.cases, tc) }

// SetSize reallocates the backing store to exactly n empty slots.
// Previous content is discarded.
func (c *Collection) SetSize(n int) {
	if n < 0 {
		n = 0
	}
	c.slots = make([]slot, n)
}

// Reserve grows the capacity to at least n without changing the length.
func (c *Collection) Reserve(n int) {
	if n <= cap(c.slots) {
		return
	}
	grown := make([]slot, len(c.slots), n)
	copy(grown, c.slots)
	c.slots = grown
}

// Len is the logical number of slots, written or not.
func (c *Collection) Len() int { return len(c.slots) }

// Cap is the number of slots the backing store can hold before reallocating.
func (c *Collection) Cap() int { return cap(c.slots) }

// ByPosition returns the interval at position i.
func (c *Collection) ByPosition(i int) (model.Interval, error) {
	if i < 0 || i >= len(c.slots) {
		return model.Interval{}, fmt.Errorf("%w: index %d, %s has %d elements", ErrOutOfRange, i, c.name, len(c.slots))
	}
	s := c.slots[i]
	if !s.written {
		return model.Interval{}, fmt.Errorf("%w: index %d of %s is empty", ErrNoData, i, c.name)
	}
	return s.iv, nil
}

// TryByPosition is the lenient form of ByPosition.
func (c *Collection) TryByPosition(i int) (model.Interval, bool) {
	iv, err := c.ByPosition(i)
	return iv, err == nil
}

// ByStart returns the first interval whose start is the same instant as start.
func (c *Collection) ByStart(start time.Time) (model.Interval, error) {
	for _, s := range c.slots {
		if s.written && s.iv.Start().Equal(start) {
			return s.iv, nil
		}
	}
	return model.Interval{}, fmt.Errorf("%w: no interval in %s starts at %s", ErrNoData, c.name, start.In(c.loc).Format(time.RFC3339))
}

// TryByStart is the lenient form of ByStart.
func (c *Collection) TryByStart(start time.Time) (model.Interval, bool) {
	iv, err := c.ByStart(start)
	return iv, err == nil
}

// ByTimestamp converts unix seconds into the collection's location and
// delegates to ByStart.
func (c *Collection) ByTimestamp(unixSeconds int64) (model.Interval, error) {
	return c.ByStart(time.Unix(unixSeconds, 0).In(c.loc))
}

// TryByTimestamp is the lenient form of ByTimestamp.
func (c *Collection) TryByTimestamp(unixSeconds int64) (model.Interval, bool) {
	iv, err := c.ByTimestamp(unixSeconds)
	return iv, err == nil
}

// Range returns every interval starting in [from, to], in collection order.
func (c *Collection) Range(from, to time.Time) []model.Interval {
	out := make([]model.Interval, 0)
	for _, s := range c.slots {
		if !s.written {
			continue
		}
		st := s.iv.Start()
		if st.Before(from) || st.After(to) {
			continue
		}
		out = append(out, s.iv)
	}
	return out
}

// Year returns the intervals starting between Jan 1 00:00 and Dec 31 23:59 of year.
func (c *Collection) Year(year int) []model.Interval {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, c.loc)
	to := time.Date(year, time.December, 31, 23, 59, 0, 0, c.loc)
	return c.Range(from, to)
}

// All returns every written interval in collection order.
func (c *Collection) All() []model.Interval {
	out := make([]model.Interval, 0, len(c.slots))
	for _, s := range c.slots {
		if s.written {
			out = append(out, s.iv)
		}
	}
	return out
}

// Slice returns the written intervals at positions [from, to).
// Bounds are clamped to the collection length.
func (c *Collection) Slice(from, to int) []model.Interval {
	if from < 0 {
		from = 0
	}
	if to > len(c.slots) {
		to = len(c.slots)
	}
	out := make([]model.Interval, 0)
	for i := from; i < to; i++ {
		if c.slots[i].written {
			out = append(out, c.slots[i].iv)
		}
	}
	return out
}

// Insert writes iv into the existing slot at position i, replacing whatever was there.
func (c *Collection) Insert(iv model.Interval, i int) error {
	if i < 0 || i >= len(c.slots) {
		return fmt.Errorf("%w: index %d, %s only has %d elements", ErrOutOfRange, i, c.name, len(c.slots))
	}
	c.slots[i] = slot{iv: iv, written: true}
	return nil
}

// Add appends one interval at the end.
func (c *Collection) Add(iv model.Interval) { c.Append(iv) }

// Append adds the intervals at the end, in order.
func (c *Collection) Append(ivs ...model.Interval) {
	for _, iv := range ivs {
		c.slots = append(c.slots, slot{iv: iv, written: true})
	}
}

// Remove deletes every interval equal to iv and reports whether anything was removed.
func (c *Collection) Remove(iv model.Interval) bool {
	return c.removeWhere(func(s slot) bool { return s.iv.Equal(iv) })
}

// RemoveByStart deletes every interval starting at start.
func (c *Collection) RemoveByStart(start time.Time) bool {
	return c.removeWhere(func(s slot) bool { return s.iv.Start().Equal(start) })
}

func (c *Collection) removeWhere(match func(slot) bool) bool {
	kept := c.slots[:0]
	removed := false
	for _, s := range c.slots {
		if s.written && match(s) {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	// clear the tail so dropped intervals are not retained by the backing array
	for i := len(kept); i < len(c.slots); i++ {
		c.slots[i] = slot{}
	}
	c.slots = kept
	return removed
}

// Replace discards the current content and adopts a copy of data.
// It returns the new length.
func (c *Collection) Replace(data []model.Interval) int {
	c.slots = make([]slot, len(data))
	for i, iv := range data {
		c.slots[i] = slot{iv: iv, written: true}
	}
	return len(c.slots)
}
