// Package facet holds the facet ordering policy applied to search replies.
package facet

import (
	"fmt"
	"strings"
)

// SortMode selects what happens to facets missing from a requested order.
type SortMode string

const (
	// Strict keeps only the facets listed in the order; the others are
	// removed from the reply.
	Strict SortMode = "STRICT"
	// Smooth puts the listed facets first, in order, and keeps the other
	// ones afterwards in the order the engine returned them.
	Smooth SortMode = "SMOOTH"
)

// String implements fmt.Stringer.
func (m SortMode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known modes.
func (m SortMode) IsValid() bool {
	return m == Strict || m == Smooth
}

// ParseSortMode parses a mode name, case-insensitively.
func ParseSortMode(s string) (SortMode, error) {
	mode := SortMode(strings.ToUpper(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("facet: unknown sort mode %q", s)
	}
	return mode, nil
}

// Order returns ids rearranged according to order and mode. Ids listed in
// order but absent from ids are ignored, and duplicates in order count once.
func Order(ids []string, order []string, mode SortMode) []string {
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
	}

	result := make([]string, 0, len(ids))
	placed := make(map[string]bool, len(order))
	for _, id := range order {
		if present[id] && !placed[id] {
			result = append(result, id)
			placed[id] = true
		}
	}

	if mode == Strict {
		return result
	}

	for _, id := range ids {
		if !placed[id] {
			result = append(result, id)
		}
	}
	return result
}
