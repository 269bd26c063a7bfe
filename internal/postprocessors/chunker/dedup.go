package chunker

import "strings"

// Normalize collapses whitespace runs to single spaces, trims and lowercases.
// Two chunks are duplicates when their normalised forms are equal.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Seen tracks normalised chunk texts within one chunking run.
// It must not be shared between runs.
type Seen map[string]struct{}

// NewSeen returns an empty set.
func NewSeen() Seen {
	return make(Seen)
}

// IsDuplicate reports whether text was already added.
func (s Seen) IsDuplicate(text string) bool {
	_, ok := s[Normalize(text)]
	return ok
}

// Add records text and returns false if it was already present.
func (s Seen) Add(text string) bool {
	norm := Normalize(text)
	if _, ok := s[norm]; ok {
		return false
	}
	s[norm] = struct{}{}
	return true
}
