package core

import (
	"strings"
	"testing"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)

	if s.Width() != 12 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, expected 12x4", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		if row := s.Row(y); row != strings.Repeat(" ", 12) {
			t.Errorf("Row(%d) = %q, expected blanks", y, row)
		}
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(10, 10)
	s.SetColor(3, 4, '#', ColorWall)

	cell := s.GetCell(3, 4)
	if cell.Rune != '#' || cell.Color != ColorWall {
		t.Errorf("GetCell(3, 4) = %+v, expected '#' in ColorWall", cell)
	}

	// Out of bounds is silent
	s.Set(-1, 0, 'X')
	s.Set(0, 100, 'X')
	if s.Get(-1, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawTextClips(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawText(5, 0, "Hello", ColorHUD)

	if got := s.Row(0); got != "     Hel" {
		t.Errorf("Row(0) = %q, expected clipped text", got)
	}
	if s.GetCell(5, 0).Color != ColorHUD {
		t.Error("DrawText should keep the color")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "ab", ColorDefault)

	if s.Get(4, 0) != 'a' || s.Get(5, 0) != 'b' {
		t.Errorf("centered text misplaced: %q", s.Row(0))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBox(0, 0, 6, 4, ColorWarn)

	expected := "┌────┐\n│    │\n│    │\n└────┘"
	if got := s.String(); got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}

func TestScreenResizeClears(t *testing.T) {
	s := NewScreen(4, 4)
	s.Set(1, 1, 'X')
	s.Resize(6, 2)

	if s.Width() != 6 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, expected 6x2", s.Width(), s.Height())
	}
	if s.Get(1, 1) != ' ' {
		t.Error("Resize should clear content")
	}
}
