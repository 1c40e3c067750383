package seq

import (
	"errors"
	"testing"
)

func TestRotationCycles(t *testing.T) {
	r, err := New([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	expected := []string{"a", "b", "c", "a", "b", "c", "a"}
	for i, want := range expected {
		if got := r.Next(); got != want {
			t.Errorf("Next() #%d = %q, expected %q", i, got, want)
		}
	}
}

func TestRotationEmpty(t *testing.T) {
	_, err := New[int](nil)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("New(nil) error = %v, expected ErrEmpty", err)
	}
}

func TestRotationCopiesInput(t *testing.T) {
	items := []int{1, 2}
	r, _ := New(items)
	items[0] = 99

	if r.Peek() != 1 {
		t.Errorf("Peek() = %d, rotation should not alias caller slice", r.Peek())
	}
}

func TestRotationAtAndAdvance(t *testing.T) {
	r, _ := New([]int{10, 20, 30})

	if r.At(4) != 20 {
		t.Errorf("At(4) = %d, expected 20", r.At(4))
	}
	if r.At(-1) != 30 {
		t.Errorf("At(-1) = %d, expected 30", r.At(-1))
	}

	if pos := r.Advance(); pos != 1 {
		t.Errorf("Advance() = %d, expected 1", pos)
	}
	r.Advance()
	if pos := r.Advance(); pos != 0 {
		t.Errorf("Advance() should wrap to 0, got %d", pos)
	}

	r.Next()
	r.Reset()
	if r.Pos() != 0 || r.Len() != 3 {
		t.Errorf("after Reset Pos() = %d, Len() = %d", r.Pos(), r.Len())
	}
}
