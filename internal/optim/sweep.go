// Package optim scans the parameter space on a grid.
package optim

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tbphase/internal/models"
)

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Spec   models.ParamSpec
	Values []float64
}

// Span returns n evenly spaced values across the slider range, snapped to
// the slider step.
func Span(spec models.ParamSpec, n int) Axis {
	if n < 2 {
		return Axis{Spec: spec, Values: []float64{spec.Default}}
	}
	vals := floats.Span(make([]float64, n), spec.Min, spec.Max)
	for i, v := range vals {
		vals[i] = spec.Snap(v)
	}
	return Axis{Spec: spec, Values: vals}
}

// Point is one evaluated parameter set.
type Point[T any] struct {
	Params models.Params
	Value  T
}

// GridSearch evaluates a function at every combination of the axis values.
// Unswept parameters keep their values from the base set.
type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Size is the number of parameter sets the search visits.
func (g *GridSearch) Size() int {
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Search visits the grid with the last axis varying fastest. It stops at the
// first error or when ctx is cancelled.
func Search[T any](ctx context.Context, g *GridSearch, base models.Params, eval func(models.Params) (T, error)) ([]Point[T], error) {
	out := make([]Point[T], 0, g.Size())
	err := searchRecursive(ctx, g.axes, 0, base, eval, &out)
	return out, err
}

func searchRecursive[T any](
	ctx context.Context,
	axes []Axis,
	depth int,
	current models.Params,
	eval func(models.Params) (T, error),
	out *[]Point[T],
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(axes) {
		v, err := eval(current)
		if err != nil {
			return fmt.Errorf("at %s: %w", current, err)
		}
		*out = append(*out, Point[T]{Params: current, Value: v})
		return nil
	}

	axis := axes[depth]
	for _, val := range axis.Values {
		next := axis.Spec.Set(current, val)
		if err := searchRecursive(ctx, axes, depth+1, next, eval, out); err != nil {
			return err
		}
	}
	return nil
}
