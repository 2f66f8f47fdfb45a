// Package catalog loads the exam task catalog: a static description of exam
// variants and their timed tasks, read once at startup.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCatalogUnavailable is returned when the catalog cannot be retrieved or
// parsed. No exam can start without a catalog.
var ErrCatalogUnavailable = errors.New("task catalog unavailable")

// Task is one prompt with its allotted response time.
type Task struct {
	Text string `json:"text" yaml:"text"`
	// Time is the allotted answer time in seconds.
	Time int `json:"time" yaml:"time"`
}

// Variant is an ordered sequence of tasks presented as one exam.
type Variant struct {
	ID    int    `json:"id" yaml:"id"`
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// document is the wire shape of the catalog resource.
type document struct {
	Variants []Variant `json:"variants" yaml:"variants"`
}

// Catalog maps variant identifiers to their tasks. It is never mutated after
// construction.
type Catalog struct {
	variants map[int][]Task
	ids      []int
}

// New builds a Catalog from variants. Duplicate identifiers are rejected.
func New(variants []Variant) (*Catalog, error) {
	c := &Catalog{variants: make(map[int][]Task, len(variants))}
	for _, v := range variants {
		if _, dup := c.variants[v.ID]; dup {
			return nil, fmt.Errorf("duplicate variant id %d", v.ID)
		}
		c.variants[v.ID] = slices.Clone(v.Tasks)
		c.ids = append(c.ids, v.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

// Lookup returns the tasks for a variant. The returned slice must not be modified.
func (c *Catalog) Lookup(id int) ([]Task, bool) {
	if c == nil {
		return nil, false
	}
	tasks, ok := c.variants[id]
	return tasks, ok
}

// IDs returns all variant identifiers in ascending order.
func (c *Catalog) IDs() []int {
	if c == nil {
		return nil
	}
	return slices.Clone(c.ids)
}

// Len returns the number of variants.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}
