package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spaceout/spacefit/internal/core"
)

func TestKeyMapperMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected core.Action
		quit     bool
	}{
		{"space taps", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionTap, false},
		{"enter taps", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionTap, false},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a is left", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"d is right", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}}, core.ActionRight, false},
		{"p pauses", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}, core.ActionPause, false},
		{"esc pauses", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{"r restarts", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, core.ActionRestart, false},
		{"q quits", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, core.ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, quit := km.MapKey(tc.msg)
			if action != tc.expected || quit != tc.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tc.msg.String(), action, quit, tc.expected, tc.quit)
			}
		})
	}
}

func TestKeyMapperMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyLeft}, &frame) {
		t.Error("left should not quit")
	}
	km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, &frame)

	if !frame.Has(core.ActionLeft) || !frame.Has(core.ActionTap) {
		t.Errorf("frame = %v, expected Left and Tap", frame.Actions)
	}
}
