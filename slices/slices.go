// Package slices contains helpers for using slices as stacks.
package slices

func Pop[E any, S ~[]E](s S) (E, S, bool) {
	if len(s) == 0 {
		return *new(E), s, false
	}
	e := s[len(s)-1]
	s = s[:len(s)-1]
	return e, s, true
}

// Last returns a pointer to the last element of s, or nil if s is empty.
func Last[E any, S ~[]E](s S) *E {
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}
