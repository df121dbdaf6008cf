// Package history implements a bounded undo/redo stack with branch discard.
package history

// DefaultLimit is the number of entries kept when no limit is given
const DefaultLimit = 50

// Stack is an ordered list of entries plus a cursor. Pushing while the cursor
// is not at the end discards the redo tail. The zero value is not usable; use New.
type Stack[T any] struct {
	entries []T
	index   int
	limit   int
}

// New creates an empty stack holding at most limit entries
func New[T any](limit int) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{index: -1, limit: limit}
}

// Push truncates everything after the cursor, appends v and moves the cursor onto it.
// The oldest entries are evicted once the limit is exceeded.
func (s *Stack[T]) Push(v T) {
	if s.index < len(s.entries)-1 {
		var zero T
		for i := s.index + 1; i < len(s.entries); i++ {
			s.entries[i] = zero
		}
		s.entries = s.entries[:s.index+1]
	}
	s.entries = append(s.entries, v)
	s.index = len(s.entries) - 1

	if over := len(s.entries) - s.limit; over > 0 {
		s.entries = append(s.entries[:0:0], s.entries[over:]...)
		s.index -= over
	}
}

// Undo moves the cursor back one entry and returns it; ok is false at the first entry
func (s *Stack[T]) Undo() (v T, ok bool) {
	if s.index <= 0 {
		return v, false
	}
	s.index--
	return s.entries[s.index], true
}

// Redo moves the cursor forward one entry and returns it; ok is false at the last entry
func (s *Stack[T]) Redo() (v T, ok bool) {
	if s.index >= len(s.entries)-1 {
		return v, false
	}
	s.index++
	return s.entries[s.index], true
}

// Current returns the entry under the cursor
func (s *Stack[T]) Current() (v T, ok bool) {
	if s.index < 0 {
		return v, false
	}
	return s.entries[s.index], true
}

func (s *Stack[T]) Index() int { return s.index }

func (s *Stack[T]) Len() int { return len(s.entries) }

func (s *Stack[T]) Limit() int { return s.limit }

func (s *Stack[T]) CanUndo() bool { return s.index > 0 }

func (s *Stack[T]) CanRedo() bool { return s.index < len(s.entries)-1 }

// Entries returns a copy of the stored entries, oldest first
func (s *Stack[T]) Entries() []T {
	out := make([]T, len(s.entries))
	copy(out, s.entries)
	return out
}
