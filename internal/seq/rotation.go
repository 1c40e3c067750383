// Package seq provides a finite sequence that hands out its elements in a
// repeating cycle. Tile variants and mock pose frames both use it.
package seq

import "errors"

// ErrEmpty is returned when a rotation is built from no elements.
var ErrEmpty = errors.New("seq: rotation needs at least one element")

// Rotation cycles through a fixed, ordered list of elements.
// The zero value is not usable; build one with New.
type Rotation[T any] struct {
	items []T
	pos   int
}

// New creates a rotation over a copy of items, positioned at the first element.
func New[T any](items []T) (*Rotation[T], error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	cp := make([]T, len(items))
	copy(cp, items)
	return &Rotation[T]{items: cp}, nil
}

// Next returns the current element and advances, wrapping after the last one.
func (r *Rotation[T]) Next() T {
	v := r.items[r.pos]
	r.pos = (r.pos + 1) % len(r.items)
	return v
}

// Peek returns the element Next would return, without advancing.
func (r *Rotation[T]) Peek() T {
	return r.items[r.pos]
}

// Advance moves the cursor one step and returns the new position.
func (r *Rotation[T]) Advance() int {
	r.pos = (r.pos + 1) % len(r.items)
	return r.pos
}

// At returns the element at index i modulo the length.
func (r *Rotation[T]) At(i int) T {
	n := len(r.items)
	return r.items[((i%n)+n)%n]
}

// Pos returns the cursor position.
func (r *Rotation[T]) Pos() int { return r.pos }

// Len returns the number of elements.
func (r *Rotation[T]) Len() int { return len(r.items) }

// Reset moves the cursor back to the first element.
func (r *Rotation[T]) Reset() { r.pos = 0 }
