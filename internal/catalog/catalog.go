package catalog

import (
	"fmt"
	"sort"
)

// Repository is the read-only problem lookup used by grading and
// selection. Implementations must treat problems as immutable.
type Repository interface {
	Get(id string) (Problem, error)
	All() []Problem
}

// Catalog is an in-memory Repository over one or more loaded banks.
type Catalog struct {
	problems []Problem
	byID     map[string]int
	byTag    map[string][]int
}

// New builds a catalog, validating every problem and rejecting
// duplicate ids.
func New(problems []Problem) (*Catalog, error) {
	c := &Catalog{
		problems: make([]Problem, len(problems)),
		byID:     make(map[string]int, len(problems)),
		byTag:    make(map[string][]int),
	}
	copy(c.problems, problems)

	for i, p := range c.problems {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if prev, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate problem id %q (entries %d and %d)", p.ID, prev, i)
		}
		c.byID[p.ID] = i
		for _, tag := range p.KnowledgeTags {
			c.byTag[tag] = append(c.byTag[tag], i)
		}
	}
	return c, nil
}

// Get returns the problem with the given id.
func (c *Catalog) Get(id string) (Problem, error) {
	i, ok := c.byID[id]
	if !ok {
		return Problem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.problems[i], nil
}

// All returns every problem. The returned slice is a copy; callers may
// reorder it freely.
func (c *Catalog) All() []Problem {
	out := make([]Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

// ByTag returns the problems carrying the given knowledge tag, in bank
// order.
func (c *Catalog) ByTag(tag string) []Problem {
	idx := c.byTag[tag]
	out := make([]Problem, len(idx))
	for i, j := range idx {
		out[i] = c.problems[j]
	}
	return out
}

// Tags returns every knowledge tag present in the catalog, sorted.
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, len(c.byTag))
	for tag := range c.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Subjects returns the distinct subjects in the catalog, sorted.
func (c *Catalog) Subjects() []string {
	seen := make(map[string]bool)
	var subjects []string
	for _, p := range c.problems {
		if p.Subject != "" && !seen[p.Subject] {
			seen[p.Subject] = true
			subjects = append(subjects, p.Subject)
		}
	}
	sort.Strings(subjects)
	return subjects
}

// Len reports the number of problems.
func (c *Catalog) Len() int { return len(c.problems) }
