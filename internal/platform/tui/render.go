package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spaceout/spacefit/internal/core"
)

// colorStyles maps color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:  lipgloss.NewStyle(),
	core.ColorTrack:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorTileEdge: lipgloss.NewStyle().Foreground(lipgloss.Color("24")),
	core.ColorWall:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorCoin:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorPlayer:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorSuit:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorBone:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorHUD:      lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorWarn:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	core.ColorDim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
