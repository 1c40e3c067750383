package core

import (
	"math"
	"testing"
)

func TestVecArithmetic(t *testing.T) {
	a := V(1, 2, 3)
	b := V(0.5, -1, 2)

	if got := a.Add(b); got != V(1.5, 1, 5) {
		t.Errorf("Add() = %v, expected (1.5, 1, 5)", got)
	}
	if got := a.Sub(b); got != V(0.5, 3, 1) {
		t.Errorf("Sub() = %v, expected (0.5, 3, 1)", got)
	}
	if got := a.Scale(2); got != V(2, 4, 6) {
		t.Errorf("Scale() = %v, expected (2, 4, 6)", got)
	}
	if got := a.Dot(b); got != 0.5-2+6 {
		t.Errorf("Dot() = %v, expected 4.5", got)
	}
}

func TestVecZeroPlusOffset(t *testing.T) {
	base := Vec3{}
	offset := V(1, 2, 3)

	if got := base.Add(offset); got != offset {
		t.Errorf("zero + offset = %v, expected %v", got, offset)
	}
}

func TestVecNormalize(t *testing.T) {
	n := V(0, 3, 4).Normalize()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("Normalize() length = %v, expected 1", n.Len())
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("Normalize() of zero = %v, expected zero", zero)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}

	if got := ClampF(1.5, 0, 1); got != 1 {
		t.Errorf("ClampF(1.5, 0, 1) = %v, expected 1", got)
	}
}
