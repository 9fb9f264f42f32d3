package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tbphase/internal/analysis"
	"github.com/san-kum/tbphase/internal/dynamo"
	"github.com/san-kum/tbphase/internal/integrators"
	"github.com/san-kum/tbphase/internal/models"
)

const (
	DefaultBetaB   = 1.0
	DefaultBetaI   = 1.0
	DefaultEtaB    = 1.5
	DefaultEtaI    = 1.5
	DefaultGridN   = 20
	DefaultT1      = 50.0
	DefaultSamples = 500
	DefaultTheme   = "default"
)

type Config struct {
	Params            models.Params       `yaml:"params"`
	Grid              analysis.Grid       `yaml:"grid"`
	Horizon           analysis.Horizon    `yaml:"horizon"`
	Solver            integrators.Options `yaml:"solver"`
	InitialConditions [][]float64         `yaml:"initial_conditions"`
	Theme             string              `yaml:"theme"`
}

func DefaultConfig() *Config {
	starts := analysis.InitialConditions()
	ics := make([][]float64, len(starts))
	for k, s := range starts {
		ics[k] = []float64{s.B, s.I}
	}
	return &Config{
		Params: models.Params{
			BetaB: DefaultBetaB,
			BetaI: DefaultBetaI,
			EtaB:  DefaultEtaB,
			EtaI:  DefaultEtaI,
		},
		Grid:              analysis.Grid{Min: analysis.PlotMin, Max: analysis.PlotMax, N: DefaultGridN},
		Horizon:           analysis.Horizon{T0: 0, T1: DefaultT1, Samples: DefaultSamples},
		Solver:            integrators.DefaultOptions(),
		InitialConditions: ics,
		Theme:             DefaultTheme,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, which is modified in place.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Grid.N < 2 || !(c.Grid.Max > c.Grid.Min) {
		return fmt.Errorf("grid: need n >= 2 and max > min, got n=%d [%g, %g]", c.Grid.N, c.Grid.Min, c.Grid.Max)
	}
	if c.Horizon.Samples < 2 || !(c.Horizon.T1 > c.Horizon.T0) {
		return fmt.Errorf("horizon [%g, %g] with %d samples: %w", c.Horizon.T0, c.Horizon.T1, c.Horizon.Samples, dynamo.ErrInvalidSpan)
	}
	if c.Solver.Rtol < 0 || c.Solver.Atol < 0 || c.Solver.MaxSteps < 0 {
		return fmt.Errorf("solver: tolerances and max_steps must not be negative")
	}
	for k, ic := range c.InitialConditions {
		if len(ic) != 2 {
			return fmt.Errorf("initial condition %d has %d values: %w", k, len(ic), dynamo.ErrDimensionMismatch)
		}
		if math.IsNaN(ic[0]) || math.IsNaN(ic[1]) || math.IsInf(ic[0], 0) || math.IsInf(ic[1], 0) {
			return fmt.Errorf("initial condition %d: %w", k, dynamo.ErrInvalidState)
		}
	}
	return nil
}

// Starts converts the configured initial conditions to plane points.
func (c *Config) Starts() []analysis.Point {
	pts := make([]analysis.Point, 0, len(c.InitialConditions))
	for _, ic := range c.InitialConditions {
		if len(ic) == 2 {
			pts = append(pts, analysis.Point{B: ic[0], I: ic[1]})
		}
	}
	return pts
}

func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Grid:              c.Grid,
		Horizon:           c.Horizon,
		InitialConditions: c.Starts(),
		Solver:            c.Solver,
	}
}
