package domain

import "sort"

// Priority is the coarse disease tier from the catalog, independent of
// per-headline severity.
type Priority string

const (
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
	PriorityUnknown Priority = "unknown"
)

// Score is the priority's contribution to the severity score.
func (p Priority) Score() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// DiseaseCatalog maps disease names to priority tiers. It is read-only after
// construction and safe for concurrent use.
type DiseaseCatalog struct {
	tiers   map[string]Priority
	matcher *phraseMatcher
}

// NewDiseaseCatalog builds a catalog from name -> tier.
func NewDiseaseCatalog(tiers map[string]Priority) *DiseaseCatalog {
	copied := make(map[string]Priority, len(tiers))
	names := make([]string, 0, len(tiers))
	for name, tier := range tiers {
		copied[name] = tier
		names = append(names, name)
	}
	return &DiseaseCatalog{
		tiers:   copied,
		matcher: newPhraseMatcher(names, false),
	}
}

var defaultCatalog = NewDiseaseCatalog(map[string]Priority{
	"Ebola":        PriorityHigh,
	"Malaria":      PriorityHigh,
	"Cholera":      PriorityHigh,
	"Tuberculosis": PriorityHigh,
	"HIV":          PriorityHigh,
	"Measles":      PriorityMedium,
	"Meningitis":   PriorityMedium,
	"Rabies":       PriorityMedium,
	"Influenza":    PriorityLow,
	"Hepatitis":    PriorityLow,
})

// DefaultDiseaseCatalog returns the process-wide catalog of diseases tracked in Africa.
func DefaultDiseaseCatalog() *DiseaseCatalog {
	return defaultCatalog
}

// Priority returns the tier for name; unlisted names are PriorityUnknown.
func (c *DiseaseCatalog) Priority(name string) Priority {
	if p, ok := c.tiers[name]; ok {
		return p
	}
	return PriorityUnknown
}

// Contains reports whether name is a catalog key.
func (c *DiseaseCatalog) Contains(name string) bool {
	_, ok := c.tiers[name]
	return ok
}

// Match returns the catalog disease named in text, or UnknownDisease.
func (c *DiseaseCatalog) Match(text string) string {
	if name, ok := c.matcher.first(text); ok {
		return name
	}
	return UnknownDisease
}

// Names returns the catalog names in match order (longest, then lexicographic).
func (c *DiseaseCatalog) Names() []string {
	return c.matcher.ordered()
}

// Less orders disease names the way Match breaks ties. Catalog names come
// first in match order, then unlisted names lexicographically, then
// UnknownDisease.
func (c *DiseaseCatalog) Less(a, b string) bool {
	ra, rb := c.sortKey(a), c.sortKey(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

func (c *DiseaseCatalog) sortKey(name string) int {
	if r := c.matcher.rank(name); r >= 0 {
		return r
	}
	if name == UnknownDisease {
		return len(c.tiers) + 1
	}
	return len(c.tiers)
}

// SortNames sorts names in place with Less.
func (c *DiseaseCatalog) SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return c.Less(names[i], names[j]) })
}
