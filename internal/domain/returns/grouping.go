package returns

import (
	"strings"
	"unicode"
)

// Group is a set of units sharing a normalized reference key. The
// representative is the first unit in insertion order, so callers sort by
// record date descending before grouping when they want the newest line to
// front the group.
type Group struct {
	Key   string
	Units []*ReturnUnit
}

// Representative returns the unit fronting the group
func (g *Group) Representative() *ReturnUnit {
	if len(g.Units) == 0 {
		return nil
	}
	return g.Units[0]
}

// Size returns the number of units in the group
func (g *Group) Size() int {
	return len(g.Units)
}

// TotalQuantity sums the quantities of all units in the group
func (g *Group) TotalQuantity() int {
	total := 0
	for _, u := range g.Units {
		total += u.Quantity
	}
	return total
}

// NormalizeGroupKey lowercases a reference and strips all whitespace, so
// "R 1001", "r-1001 " and "R-1001" land in the same group.
func NormalizeGroupKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// BuildGroups indexes units into groups keyed by their normalized reference.
// Groups appear in first-seen order; units within a group keep input order.
func BuildGroups(units []*ReturnUnit) []*Group {
	index := make(map[string]*Group)
	groups := make([]*Group, 0)
	for _, u := range units {
		key := u.GroupKey()
		g, ok := index[key]
		if !ok {
			g = &Group{Key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Units = append(g.Units, u)
	}
	return groups
}

// FindGroup returns the group with the given normalized key
func FindGroup(groups []*Group, key string) (*Group, bool) {
	normalized := NormalizeGroupKey(key)
	for _, g := range groups {
		if g.Key == normalized {
			return g, true
		}
	}
	return nil, false
}
