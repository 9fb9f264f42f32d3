package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/models"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
	panelWidth   = 48
	barWidth     = 12
	coarseSteps  = 5
)

// App is the slider explorer: four parameter sliders beside the phase
// portrait, recomputed on every change.
type App struct {
	params     models.Params
	initial    models.Params
	opts       analysis.Options
	portrait   *analysis.Portrait
	selected   int
	series     int
	theme      Theme
	styles     styles
	canvas     *Canvas
	nullclines bool
	showHelp   bool
}

// NewApp snaps p onto the slider grid and computes the first portrait.
func NewApp(p models.Params, opts analysis.Options, theme string) App {
	for _, s := range models.Specs {
		p = s.Set(p, s.Snap(s.Get(p)))
	}
	t := GetTheme(theme)
	m := App{
		params:  p,
		initial: p,
		opts:    opts,
		theme:   t,
		styles:  newStyles(t),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
	m.recompute()
	return m
}

func (m App) Params() models.Params       { return m.params }
func (m App) Portrait() *analysis.Portrait { return m.portrait }
func (m App) Selected() models.ParamSpec   { return models.Specs[m.selected] }
func (m App) Theme() Theme                 { return m.theme }

func (m *App) recompute() {
	m.portrait = analysis.Compute(m.params, m.opts)
	if m.series >= len(m.portrait.Trajectories) {
		m.series = 0
	}
	DrawPortrait(m.canvas, m.portrait, len(m.theme.Lines), m.nullclines)
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		w := msg.Width - panelWidth - 6
		h := msg.Height - 6
		if w < 20 {
			w = 20
		}
		if h < 10 {
			h = 10
		}
		m.canvas = NewCanvas(w, h)
		DrawPortrait(m.canvas, m.portrait, len(m.theme.Lines), m.nullclines)
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(models.Specs)-1 {
			m.selected++
		}
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case "H":
		m.nudge(-coarseSteps)
	case "L":
		m.nudge(coarseSteps)
	case "r":
		if m.params != m.initial {
			m.params = m.initial
			m.recompute()
		}
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
		DrawPortrait(m.canvas, m.portrait, len(m.theme.Lines), m.nullclines)
	case "n":
		m.nullclines = !m.nullclines
		DrawPortrait(m.canvas, m.portrait, len(m.theme.Lines), m.nullclines)
	case "tab":
		m.series = (m.series + 1) % len(m.portrait.Trajectories)
	case "shift+tab":
		n := len(m.portrait.Trajectories)
		m.series = (m.series - 1 + n) % n
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// nudge moves the selected slider and recomputes only when the value moved.
func (m *App) nudge(steps int) {
	s := models.Specs[m.selected]
	v := s.Nudge(s.Get(m.params), steps)
	if v == s.Get(m.params) {
		return
	}
	m.params = s.Set(m.params, v)
	m.recompute()
}

func (m App) View() string {
	st := m.styles

	var left strings.Builder
	left.WriteString(st.header.Render(analysis.Title) + "\n")
	left.WriteString(st.sub.Render("↑ "+analysis.YLabel) + "\n")
	left.WriteString(m.canvas.Render(st.palette))
	axis := fmt.Sprintf("%-*s%s", m.canvas.Width-3, fmt.Sprintf("%.1f", analysis.PlotMin), fmt.Sprintf("%.1f", analysis.PlotMax))
	left.WriteString(st.sub.Render(axis) + "\n")
	left.WriteString(st.sub.Render(analysis.XLabel+" →") + "\n")

	var right strings.Builder
	right.WriteString(st.header.Render("PARAMETERS") + "\n\n")
	for i, s := range models.Specs {
		v := s.Get(m.params)
		line := fmt.Sprintf("%-6s %s %5.2f", s.Name, SliderBar(s.Fraction(v), barWidth), v)
		if i == m.selected {
			right.WriteString(st.active.Render("▸ "+line) + "\n")
			right.WriteString(st.sub.Render("  "+s.Label) + "\n")
		} else {
			right.WriteString("  " + st.label.Render(line) + "\n")
		}
	}

	right.WriteString("\n" + st.header.Render("EQUILIBRIA") + "\n")
	for _, e := range m.portrait.Equilibria {
		right.WriteString(st.value.Render(fmt.Sprintf("  (%.3f, %.3f)", e.B, e.I)) + " " + st.label.Render(string(e.Kind)) + "\n")
	}

	right.WriteString("\n" + m.viewSeries())

	if failed := m.portrait.Failed(); len(failed) > 0 {
		right.WriteString("\n" + st.err.Render(fmt.Sprintf("%d trajectories stopped early", len(failed))) + "\n")
	}

	right.WriteString(st.help.Render(st.keyHints("j/k", "select", "h/l", "adjust", "r", "reset", "t", "theme", "q", "quit")))

	main := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), st.panel.Width(panelWidth).Render(right.String()))
	if m.showHelp {
		return m.viewHelp() + "\n" + main
	}
	return main
}

// viewSeries plots b(t) and i(t) for the selected trajectory.
func (m App) viewSeries() string {
	st := m.styles
	tr := m.portrait.Trajectories[m.series]
	n := tr.Valid()
	if n < 2 {
		return st.err.Render(fmt.Sprintf("no samples from (%.1f, %.1f): %v", tr.Start.B, tr.Start.I, tr.Err)) + "\n"
	}
	bs, is := Series(tr)
	chart := asciigraph.PlotMany([][]float64{bs, is},
		asciigraph.Height(6),
		asciigraph.Width(panelWidth-12),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("b, i from (%.1f, %.1f)", tr.Start.B, tr.Start.I)),
	)
	return chart + "\n"
}

// Series splits the valid prefix of a trajectory into b(t) and i(t).
func Series(tr analysis.Trajectory) (bs, is []float64) {
	n := tr.Valid()
	bs = make([]float64, n)
	is = make([]float64, n)
	for k, p := range tr.Points[:n] {
		bs[k], is[k] = p.B, p.I
	}
	return bs, is
}

func (m App) viewHelp() string {
	return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Up/K      - Previous slider         ║
║  Down/J    - Next slider             ║
║  Left/H    - Decrease by one step    ║
║  Right/L   - Increase by one step    ║
║  Shift+H/L - Adjust by five steps    ║
║  R         - Reset parameters        ║
║  N         - Toggle nullclines       ║
║  Tab       - Next time series        ║
║  T         - Cycle themes            ║
║  Q         - Quit                    ║
║  ?         - Toggle this help        ║
╚══════════════════════════════════════╝`
}

// RunInteractive starts the slider TUI on the alternate screen.
func RunInteractive(p models.Params, opts analysis.Options, theme string) error {
	_, err := tea.NewProgram(NewApp(p, opts, theme), tea.WithAltScreen()).Run()
	return err
}
