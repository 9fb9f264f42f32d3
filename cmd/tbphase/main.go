package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/config"
	"github.com/san-kum/tbphase/internal/gui"
	"github.com/san-kum/tbphase/internal/models"
	"github.com/san-kum/tbphase/internal/optim"
	"github.com/san-kum/tbphase/internal/render"
	"github.com/san-kum/tbphase/internal/viz"
)

var (
	betaB float64
	betaI float64
	etaB  float64
	etaI  float64
	// Config file
	configFile string
	// Preset name
	preset string
	theme  string
	// sweep axes
	sweepX     string
	sweepY     string
	sweepSteps int
	// plot output
	outFile    string
	sizeInches float64
	nullclines bool
	equilibria bool
)

// main registers the commands and runs the terminal UI when no subcommand
// is given. It exits with status 1 if the command returns an error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tbphase",
		Short: "phase-plane explorer for the within-host TB model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return viz.RunInteractive(cfg.Params, cfg.AnalysisOptions(), cfg.Theme)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&betaB, "beta-b", models.BetaB.Default, "immune suppressing TB")
	flags.Float64Var(&betaI, "beta-i", models.BetaI.Default, "TB suppressing immune")
	flags.Float64Var(&etaB, "eta-b", models.EtaB.Default, "TB self-limiting")
	flags.Float64Var(&etaI, "eta-i", models.EtaI.Default, "immune self-limiting")
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&preset, "preset", "", "use preset parameters")
	flags.StringVar(&theme, "theme", config.DefaultTheme, "terminal color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "explore the phase plane in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			gui.Run(cfg.Params, cfg.AnalysisOptions())
			return nil
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "write the phase portrait as a PNG image",
		Args:  cobra.NoArgs,
		RunE:  plotPortrait,
	}
	plotCmd.Flags().StringVarP(&outFile, "out", "o", "phase.png", "output file, - for stdout")
	plotCmd.Flags().Float64Var(&sizeInches, "size", 7, "image size in inches")
	plotCmd.Flags().BoolVar(&nullclines, "nullclines", false, "draw nullclines")
	plotCmd.Flags().BoolVar(&equilibria, "equilibria", false, "mark equilibria")

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "tabulate the normalized vector field",
		Args:  cobra.NoArgs,
		RunE:  printField,
	}

	seriesCmd := &cobra.Command{
		Use:   "series [index]",
		Short: "plot b(t) and i(t) for one initial condition",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printSeries,
	}

	equilibriaCmd := &cobra.Command{
		Use:   "equilibria",
		Short: "list fixed points and their stability",
		Args:  cobra.NoArgs,
		RunE:  printEquilibria,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available parameter presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARAMS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Params, p.Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "map the long-run regime over two parameters",
		Args:  cobra.NoArgs,
		RunE:  printSweep,
	}
	sweepCmd.Flags().StringVar(&sweepX, "x", models.EtaB.Name, "parameter on the horizontal axis")
	sweepCmd.Flags().StringVar(&sweepY, "y", models.EtaI.Name, "parameter on the vertical axis")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 16, "values per axis")

	rootCmd.AddCommand(guiCmd, plotCmd, fieldCmd, seriesCmd, equilibriaCmd, presetsCmd, configCmd, sweepCmd)
	return rootCmd
}

// resolveConfig layers preset, config file and explicit flags, in that
// order, and validates the result.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Flags().Changed("beta-b") {
		cfg.Params.BetaB = betaB
	}
	if cmd.Flags().Changed("beta-i") {
		cfg.Params.BetaI = betaI
	}
	if cmd.Flags().Changed("eta-b") {
		cfg.Params.EtaB = etaB
	}
	if cmd.Flags().Changed("eta-i") {
		cfg.Params.EtaI = etaI
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !viz.HasTheme(cfg.Theme) {
		return nil, fmt.Errorf("unknown theme: %s (available: %v)", cfg.Theme, viz.ThemeNames())
	}
	return cfg, nil
}

func plotPortrait(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if sizeInches <= 0 {
		return fmt.Errorf("size must be positive, got %g", sizeInches)
	}
	pt := analysis.Compute(cfg.Params, cfg.AnalysisOptions())
	opts := render.Options{Nullclines: nullclines, Equilibria: equilibria}
	size := vg.Length(sizeInches) * vg.Inch
	reportFailures(cmd.ErrOrStderr(), pt)

	if outFile == "-" {
		return render.WritePNG(cmd.OutOrStdout(), pt, size, opts)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, pt, size, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outFile)
	return nil
}

func printField(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	field := analysis.EvaluateField(cfg.Params, cfg.Grid)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "B\tI\tDB\tDI\t|F|\t")
	for _, s := range field.Samples {
		note := ""
		if s.Degenerate {
			note = "equilibrium"
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%+.4f\t%+.4f\t%.3e\t%s\n", s.B, s.I, s.DB, s.DI, s.Magnitude, note)
	}
	return w.Flush()
}

func printSeries(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	starts := cfg.Starts()
	idx := 0
	if len(args) > 0 {
		idx, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index: %s", args[0])
		}
	}
	if idx < 0 || idx >= len(starts) {
		return fmt.Errorf("index %d out of range [0, %d)", idx, len(starts))
	}

	trs := analysis.Integrate(cfg.Params, starts[idx:idx+1], cfg.Horizon, cfg.Solver)
	tr := trs[0]
	bs, is := viz.Series(tr)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "params: %s\n", cfg.Params)
	fmt.Fprintf(out, "start: (%.3f, %.3f)\n", tr.Start.B, tr.Start.I)
	fmt.Fprintf(out, "samples: %d/%d\n\n", len(bs), len(tr.Points))

	if len(bs) < 2 {
		return fmt.Errorf("no data to plot: %w", tr.Err)
	}

	for _, s := range []struct {
		data    []float64
		caption string
	}{
		{bs, analysis.XLabel},
		{is, analysis.YLabel},
	} {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	if final, ok := tr.Final(); ok {
		fmt.Fprintf(out, "final: (%.4f, %.4f) at t=%.2f\n", final.B, final.I, tr.Times[len(bs)-1])
	}
	if tr.Err != nil {
		fmt.Fprintf(out, "stopped early: %v\n", tr.Err)
	}
	return nil
}

func printEquilibria(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "B\tI\tKIND\tEIGENVALUES")
	for _, e := range analysis.Equilibria(cfg.Params) {
		vals := make([]string, len(e.Eigenvalues))
		for k, v := range e.Eigenvalues {
			if imag(v) == 0 {
				vals[k] = fmt.Sprintf("%.4f", real(v))
			} else {
				vals[k] = fmt.Sprintf("%.4f%+.4fi", real(v), imag(v))
			}
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%s\t%s\n", e.B, e.I, e.Kind, strings.Join(vals, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nregime: %s\n", analysis.ClassifyRegime(cfg.Params))
	return nil
}

func printSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	xs, err := lookupSpec(sweepX)
	if err != nil {
		return err
	}
	ys, err := lookupSpec(sweepY)
	if err != nil {
		return err
	}
	if xs.Name == ys.Name {
		return fmt.Errorf("sweep axes must differ, got %s twice", xs.Name)
	}
	if sweepSteps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", sweepSteps)
	}

	xAxis, yAxis := optim.Span(xs, sweepSteps), optim.Span(ys, sweepSteps)
	g := optim.NewGridSearch(yAxis, xAxis)
	pts, err := optim.Search(cmd.Context(), g, cfg.Params, func(p models.Params) (analysis.Regime, error) {
		return analysis.ClassifyRegime(p), nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (rows, top = max) vs %s (columns)\n\n", ys.Name, xs.Name)
	n := len(xAxis.Values)
	for row := len(yAxis.Values) - 1; row >= 0; row-- {
		var b strings.Builder
		for _, pt := range pts[row*n : (row+1)*n] {
			b.WriteRune(pt.Value.Symbol())
			b.WriteByte(' ')
		}
		fmt.Fprintf(out, "%6.2f  %s\n", yAxis.Values[row], b.String())
	}
	fmt.Fprintf(out, "        %-*.2f%.2f\n\n", 2*n-4, xAxis.Values[0], xAxis.Values[n-1])

	for _, r := range []analysis.Regime{analysis.Coexistence, analysis.TBDominant, analysis.ImmuneDominant, analysis.Bistable, analysis.Indeterminate} {
		fmt.Fprintf(out, "%c  %s\n", r.Symbol(), r)
	}
	return nil
}

// lookupSpec accepts a parameter name with either - or _.
func lookupSpec(name string) (models.ParamSpec, error) {
	name = strings.ReplaceAll(name, "-", "_")
	for _, s := range models.Specs {
		if s.Name == name {
			return s, nil
		}
	}
	return models.ParamSpec{}, fmt.Errorf("unknown parameter: %s", name)
}

// reportFailures lists trajectories the solver could not finish.
func reportFailures(w io.Writer, pt *analysis.Portrait) {
	for _, tr := range pt.Failed() {
		fmt.Fprintf(w, "warning: trajectory from (%.2f, %.2f) truncated at %d samples: %v\n",
			tr.Start.B, tr.Start.I, tr.Valid(), tr.Err)
	}
}
