package mustache

import "strings"

// Context is the scope chain consulted while rendering. Push and Pop are
// called in strict LIFO order around every section body and partial.
//
// Implementations may source values from anywhere; [Stack] is the default
// in-memory implementation.
type Context interface {
	// Push makes v the innermost scope.
	Push(v Value)

	// Pop removes the innermost scope.
	Pop()

	// Get resolves a variable or section name.
	Get(name string) (Value, bool)

	// GetPartial resolves the name of a partial tag.
	GetPartial(name string) (Value, bool)
}

// Stack is a [Context] over borrowed values. The values must not be mutated
// while a render using the stack is in progress.
type Stack struct {
	items []Value // innermost last
}

// NewStack returns a stack with the given values pushed in order, so the last
// argument is the innermost scope.
func NewStack(values ...Value) *Stack {
	s := &Stack{items: make([]Value, 0, len(values)+4)}
	for _, v := range values {
		s.Push(v)
	}

	return s
}

// Push implements [Context].
func (s *Stack) Push(v Value) {
	s.items = append(s.items, v)
}

// Pop implements [Context]. Popping an empty stack is a no-op.
func (s *Stack) Pop() {
	if len(s.items) == 0 {
		return
	}

	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
}

// Len returns the number of scopes.
func (s *Stack) Len() int { return len(s.items) }

// Top returns the innermost scope.
func (s *Stack) Top() (Value, bool) {
	if len(s.items) == 0 {
		return nil, false
	}

	v := s.items[len(s.items)-1]

	return v, v != nil
}

// Get implements [Context].
//
// The name "." resolves to the innermost scope. A plain name resolves in the
// innermost scope that binds it. A dotted name a.b.c resolves in the
// innermost scope where a, then b within it, then c within that all resolve;
// a scope where any segment is missing is skipped.
func (s *Stack) Get(name string) (Value, bool) {
	if name == "." {
		return s.Top()
	}

	if !strings.Contains(name, ".") {
		for i := len(s.items) - 1; i >= 0; i-- {
			if v, ok := lookup(s.items[i], name); ok {
				return v, true
			}
		}

		return nil, false
	}

	path := split(name, '.')

	for i := len(s.items) - 1; i >= 0; i-- {
		if v, ok := resolvePath(s.items[i], path); ok {
			return v, true
		}
	}

	return nil, false
}

// GetPartial implements [Context] using the same resolution as [Stack.Get].
func (s *Stack) GetPartial(name string) (Value, bool) {
	return s.Get(name)
}

// resolvePath walks path from v, failing at the first missing segment.
func resolvePath(v Value, path []string) (Value, bool) {
	if len(path) == 0 {
		return nil, false
	}

	for _, key := range path {
		next, ok := lookup(v, key)
		if !ok {
			return nil, false
		}

		v = next
	}

	return v, true
}
