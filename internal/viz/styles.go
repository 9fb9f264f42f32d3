package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles derived from the active theme
type styles struct {
	header  lipgloss.Style
	sub     lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	key     lipgloss.Style
	help    lipgloss.Style
	err     lipgloss.Style
	panel   lipgloss.Style
	palette []lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		sub:    lipgloss.NewStyle().Foreground(t.Muted),
		label:  lipgloss.NewStyle().Foreground(t.Muted),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		key:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		err:    lipgloss.NewStyle().Foreground(t.Error),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2),
		palette: palette(t),
	}
}

// palette maps canvas inks to styles.
func palette(t Theme) []lipgloss.Style {
	p := make([]lipgloss.Style, inkLines+len(t.Lines))
	p[InkField] = lipgloss.NewStyle().Foreground(t.Field)
	p[InkNullcline] = lipgloss.NewStyle().Foreground(t.Muted)
	p[InkStable] = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	p[InkUnstable] = lipgloss.NewStyle().Foreground(t.Accent)
	for k, c := range t.Lines {
		p[inkLines+k] = lipgloss.NewStyle().Foreground(c)
	}
	return p
}

// SliderBar renders a fraction in [0, 1] as a fixed-width bar.
func SliderBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func (s styles) keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(s.key.Render(pairs[i]) + s.sub.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}
