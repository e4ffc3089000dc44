package grafer

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// MaxSamples bounds the number of samples a single sweep may take.
const MaxSamples = 1 << 24

// Sampling defaults: the variable advances in hundredths, each sample rounded to two decimals, and
// one unit of the variable spans 100 units of target space.
const (
	DefaultStep      = 0.01
	DefaultPrecision = 2
	DefaultScale     = 100
)

// Domain is the closed range of the free variable to sample.
type Domain struct {
	Min, Max float64
}

// Extent is the size of the target coordinate space. Its origin is the top left corner and the
// variable's origin maps to its center.
type Extent struct {
	Width, Height float64
}

// Point is a location in target coordinate space.
type Point struct {
	X, Y float64
}

// Segment is one contiguous run of valid samples. A Segment always holds at least two points.
type Segment []Point

// sampler sweeps a compiled expression across a domain.
type sampler struct {
	expr      Expression
	plan      Plan
	step      float64
	precision int
	scale     float64
	limit     float64
	workers   int
}

func newSampler(expr Expression, plan Plan) *sampler {
	return &sampler{
		expr:      expr,
		plan:      plan,
		step:      DefaultStep,
		precision: DefaultPrecision,
		scale:     DefaultScale,
		limit:     DefaultClampLimit,
		workers:   1,
	}
}

// Sample evaluates expr at every hundredth of the part of domain visible in extent and returns the
// resulting curve segments in target coordinates. A NaN or infinite result breaks the curve; runs
// shorter than two points are dropped. Either all segments are returned or an error is.
//
//	expr, _ := grafer.Normalize("1/x")
//	plan, _ := grafer.NewPlan(expr)
//	segments, err := grafer.Sample(expr, plan, grafer.Domain{-1, 1}, grafer.Extent{800, 600})
//	if err != nil {
//		panic(err)
//	}
//	// len(segments) == 2
func Sample(expr Expression, plan Plan, domain Domain, extent Extent) ([]Segment, error) {
	return newSampler(expr, plan).sample(domain, extent)
}

func (s *sampler) sample(domain Domain, extent Extent) ([]Segment, error) {
	xs, err := s.sweep(domain, extent)
	if err != nil {
		return nil, err
	}
	ys, err := s.evaluateAll(xs)
	if err != nil {
		return nil, err
	}
	return s.segment(xs, ys, extent), nil
}

// sweep returns the sample positions of domain clipped to the visible part of extent.
func (s *sampler) sweep(domain Domain, extent Extent) ([]float64, error) {
	half := extent.Width / (2 * s.scale)
	lo := math.Max(domain.Min, -half)
	hi := math.Min(domain.Max, half)
	if math.IsNaN(lo) || math.IsNaN(hi) || hi < lo {
		return nil, nil
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errors.Errorf("cannot sample unbounded range [%g, %g]", lo, hi)
	}

	// count from the range rather than accumulating the step
	n := math.Floor((hi-lo)/s.step+1e-9) + 1
	if !(n <= MaxSamples) {
		return nil, errors.Errorf("cannot sample [%g, %g] at step %g: %g samples exceeds %d", lo, hi, s.step, n, MaxSamples)
	}
	xs := make([]float64, int(n))
	for i := range xs {
		xs[i] = round(lo+float64(i)*s.step, s.precision)
	}
	return xs, nil
}

func (s *sampler) evaluateAll(xs []float64) ([]float64, error) {
	ys := make([]float64, len(xs))

	if s.workers <= 1 {
		for i, x := range xs {
			y, err := evaluate(s.expr, s.plan, x, s.limit)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot evaluate %s at %g", s.expr, x)
			}
			ys[i] = y
		}
		return ys, nil
	}

	chunk := (len(xs) + s.workers - 1) / s.workers
	var g errgroup.Group
	for start := 0; start < len(xs); start += chunk {
		lo, hi := start, start+chunk
		if hi > len(xs) {
			hi = len(xs)
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				y, err := evaluate(s.expr, s.plan, xs[i], s.limit)
				if err != nil {
					return errors.Wrapf(err, "cannot evaluate %s at %g", s.expr, xs[i])
				}
				ys[i] = y
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ys, nil
}

// segment maps valid samples into target space and splits them at every break.
func (s *sampler) segment(xs, ys []float64, extent Extent) []Segment {
	var segments []Segment
	var open Segment

	closeRun := func() {
		if len(open) > 1 {
			segments = append(segments, open)
		}
		open = nil
	}

	for i, x := range xs {
		y := ys[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			closeRun()
			continue
		}
		open = append(open, Point{
			X: round(extent.Width/2+x*s.scale, 2),
			Y: extent.Height/2 - y*s.scale,
		})
	}
	closeRun()

	return segments
}

// round rounds half to even at the requested number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
