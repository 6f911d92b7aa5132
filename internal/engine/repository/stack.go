package repository

import (
	domainErrors "depscan/internal/core/errors"
)

// Stack is a LIFO that remembers the most recently popped item.
type Stack[T any] struct {
	items      []T
	lastPopped T
	popped     bool
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top item. Popping an empty stack returns a
// SCOPE_UNDERFLOW error.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, domainErrors.New(domainErrors.CodeScopeUnderflow, "pop on empty stack")
	}
	top := len(s.items) - 1
	item := s.items[top]
	s.items[top] = zero
	s.items = s.items[:top]
	s.lastPopped = item
	s.popped = true
	return item, nil
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// At returns the item at depth i, where 0 is the bottom.
func (s *Stack[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(s.items) {
		return zero, domainErrors.New(domainErrors.CodeNotFound, "stack index out of range")
	}
	return s.items[i], nil
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

// LastPopped returns the item removed by the most recent Pop.
func (s *Stack[T]) LastPopped() (T, bool) {
	return s.lastPopped, s.popped
}

// Items returns the stack contents bottom to top.
func (s *Stack[T]) Items() []T {
	return append([]T(nil), s.items...)
}

func (s *Stack[T]) Clear() {
	var zero T
	s.items = s.items[:0]
	s.lastPopped = zero
	s.popped = false
}
