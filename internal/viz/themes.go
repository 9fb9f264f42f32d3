package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Field     lipgloss.Color
	Error     lipgloss.Color
	// one color per trajectory, reused cyclically
	Lines []lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:      "default",
		Primary:   lipgloss.Color("#00cccc"),
		Secondary: lipgloss.Color("#ff88ff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
		Field:     lipgloss.Color("#5f5f5f"),
		Error:     lipgloss.Color("#ff0000"),
		Lines: []lipgloss.Color{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
			"#8c564b", "#e377c2", "#bcbd22", "#17becf",
		},
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Field:     lipgloss.Color("#006600"),
		Error:     lipgloss.Color("#ff0000"),
		Lines: []lipgloss.Color{
			"#00ff00", "#88ff88", "#ccff66", "#66ffcc", "#00cc00",
			"#ffff00", "#99ff99", "#33ff33", "#ccffcc",
		},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Field:     lipgloss.Color("#444444"),
		Error:     lipgloss.Color("#ff0000"),
		Lines: []lipgloss.Color{
			"#ffffff", "#dddddd", "#bbbbbb", "#0088ff", "#66aaff",
			"#aaccff", "#999999", "#cccccc", "#eeeeee",
		},
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"), // Ocean blue
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Field:     lipgloss.Color("#2b4f66"),
		Error:     lipgloss.Color("#ff4444"),
		Lines: []lipgloss.Color{
			"#00a8cc", "#ffd700", "#00ff88", "#7fdbff", "#39cccc",
			"#ffcc00", "#b0e0e6", "#48d1cc", "#f0e68c",
		},
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"), // Coral
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Field:     lipgloss.Color("#5c4160"),
		Error:     lipgloss.Color("#ff4757"),
		Lines: []lipgloss.Color{
			"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#ffc048",
			"#ff9f43", "#f368e0", "#ee5253", "#ffeaa7",
		},
	}

	// All available themes
	Themes = []Theme{
		ThemeDefault,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// HasTheme reports whether name is a built-in theme.
func HasTheme(name string) bool {
	for _, t := range Themes {
		if t.Name == name {
			return true
		}
	}
	return false
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
