package normalize

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares names alphabetically, ignoring case, using root-locale collation.
// A Collator is not safe for concurrent use; create one per sort.
type Collator struct {
	c *collate.Collator
}

// NewCollator returns a case-insensitive collator.
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.Und, collate.IgnoreCase)}
}

// Compare orders a and b. Names that collate equal fall back to a byte-wise
// comparison so the order is total and repeatable.
func (c *Collator) Compare(a, b string) int {
	if r := c.c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// SortNames sorts names in place alphabetically ignoring case.
func SortNames(names []string) {
	c := NewCollator()
	slices.SortStableFunc(names, c.Compare)
}

// UniqueNames returns names with duplicates (by Key) removed, keeping the first spelling,
// sorted alphabetically ignoring case.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		k := Key(n)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	SortNames(out)
	return out
}
