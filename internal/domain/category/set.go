package category

import (
	"slices"
	"strings"
)

// Set is an unordered collection of category labels.
type Set map[string]struct{}

// NewSet builds a Set from labels, dropping empty strings.
func NewSet(labels ...string) Set {
	s := make(Set, len(labels))
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// Default returns the set used when nothing else matched.
func Default() Set {
	return NewSet(Miscellaneous)
}

// Add inserts a label.
func (s Set) Add(label string) {
	if label != "" {
		s[label] = struct{}{}
	}
}

// Has reports membership.
func (s Set) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Len returns the number of labels.
func (s Set) Len() int { return len(s) }

// IsEmpty reports whether the set has no labels.
func (s Set) IsEmpty() bool { return len(s) == 0 }

// Sorted returns the labels in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same labels.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for l := range s {
		if !other.Has(l) {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	return "[" + strings.Join(s.Sorted(), ", ") + "]"
}
