package grafer

import (
	"fmt"
	"image/color"
	"math"
	"unicode"

	"github.com/pkg/errors"
)

// Stroke describes how a renderer draws a curve segment.
type Stroke struct {
	Color color.RGBA
	Width float64
}

// DefaultStroke is a solid black line two units wide.
var DefaultStroke = Stroke{Color: color.RGBA{A: 0xff}, Width: 2}

// Renderer receives finished curve segments in target coordinates and draws each one as a stroked
// polyline.
type Renderer interface {
	DrawPolyline(points []Point, stroke Stroke) error
}

// ErrConfig error is returned when a Configurator receives an argument it cannot use.
type ErrConfig struct {
	Message string
}

// Error returns the error string representation for ErrConfig errors.
func (e ErrConfig) Error() string {
	return "config error: " + e.Message
}

// Configurator represents a function that modifies a Function.
type Configurator func(*Function) error

// FreeVariable changes the letter that names the free variable from the default x.
//
//	f, err := grafer.New("t^2-1", grafer.FreeVariable('t'))
func FreeVariable(v rune) Configurator {
	return func(f *Function) error {
		if !unicode.IsLetter(v) {
			return ErrConfig{Message: "free variable must be a letter: " + string(v)}
		}
		f.variable = v
		return nil
	}
}

// Step changes the distance between successive samples of the free variable. It cannot be finer
// than the rounding grid set by Precision, or successive samples would collapse onto one position.
func Step(step float64) Configurator {
	return func(f *Function) error {
		if !(step > 0) {
			return ErrConfig{Message: "step must be positive"}
		}
		f.sampler.step = step
		return nil
	}
}

// Precision changes the number of decimals each sample position is rounded to.
func Precision(decimals int) Configurator {
	return func(f *Function) error {
		if decimals < 0 {
			return ErrConfig{Message: "precision cannot be negative"}
		}
		f.sampler.precision = decimals
		return nil
	}
}

// Scale changes how many units of target space one unit of the free variable spans. The visible
// domain is the target width divided by twice the scale on either side of zero.
func Scale(unitsPerValue float64) Configurator {
	return func(f *Function) error {
		if !(unitsPerValue > 0) {
			return ErrConfig{Message: "scale must be positive"}
		}
		f.sampler.scale = unitsPerValue
		return nil
	}
}

// ClampLimit changes the magnitude beyond which finite results are truncated.
func ClampLimit(limit float64) Configurator {
	return func(f *Function) error {
		if !(limit > 0) {
			return ErrConfig{Message: "clamp limit must be positive"}
		}
		f.sampler.limit = limit
		return nil
	}
}

// Workers sets how many goroutines evaluate samples. The result does not depend on it.
func Workers(n int) Configurator {
	return func(f *Function) error {
		if n < 1 {
			return ErrConfig{Message: "workers must be at least 1"}
		}
		f.sampler.workers = n
		return nil
	}
}

// StrokeStyle sets the stroke handed to the renderer by Plot.
func StrokeStyle(stroke Stroke) Configurator {
	return func(f *Function) error {
		if !(stroke.Width > 0) {
			return ErrConfig{Message: "stroke width must be positive"}
		}
		f.stroke = stroke
		return nil
	}
}

// Function is a compiled expression ready to be sampled many times. The canonical expression and
// its plan are computed once by New and never change, so one Function may be sampled from several
// goroutines.
type Function struct {
	input    string
	variable rune
	stroke   Stroke
	sampler  *sampler
}

// New compiles someExpression into a Function.
//
//	f, err := grafer.New("x^2 - 2x + 1")
//	if err != nil {
//		panic(err)
//	}
//	y, err := f.Evaluate(3)
//	if err != nil {
//		panic(err)
//	}
//	// y == 4
//
// Errors are wrapped with the offending input; errors.Cause returns an ErrMalformedExpression,
// ErrStructure, or ErrConfig.
func New(someExpression string, setters ...Configurator) (*Function, error) {
	f := &Function{
		input:    someExpression,
		variable: DefaultVariable,
		stroke:   DefaultStroke,
		sampler:  newSampler(nil, nil),
	}
	for _, setter := range setters {
		if err := setter(f); err != nil {
			return nil, err
		}
	}
	if grid := math.Pow(10, -float64(f.sampler.precision)); f.sampler.step < grid*(1-1e-9) {
		return nil, ErrConfig{Message: fmt.Sprintf("step %g is finer than precision %d allows", f.sampler.step, f.sampler.precision)}
	}

	expr, err := NormalizeVariable(someExpression, f.variable)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot normalize %q", someExpression)
	}
	plan, err := NewPlan(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot plan %q", someExpression)
	}
	f.sampler.expr, f.sampler.plan = expr, plan
	return f, nil
}

// String returns the canonical text of the compiled expression, spelling the free variable with
// the configured letter.
func (f *Function) String() string { return f.sampler.expr.Format(f.variable) }

// Expression returns a copy of the canonical expression.
func (f *Function) Expression() Expression {
	return append(Expression(nil), f.sampler.expr...)
}

// Plan returns a copy of the reduction plan.
func (f *Function) Plan() Plan {
	return append(Plan(nil), f.sampler.plan...)
}

// Evaluate returns the value of the function at x.
func (f *Function) Evaluate(x float64) (float64, error) {
	return evaluate(f.sampler.expr, f.sampler.plan, x, f.sampler.limit)
}

// Sample returns the curve segments of the function over the part of domain visible in extent.
func (f *Function) Sample(domain Domain, extent Extent) ([]Segment, error) {
	return f.sampler.sample(domain, extent)
}

// Plot samples the function and hands every segment to r with the configured stroke. Nothing is
// drawn unless sampling succeeds.
func (f *Function) Plot(r Renderer, domain Domain, extent Extent) error {
	segments, err := f.Sample(domain, extent)
	if err != nil {
		return errors.Wrapf(err, "cannot plot %q", f.input)
	}
	for i, segment := range segments {
		if err := r.DrawPolyline(segment, f.stroke); err != nil {
			return errors.Wrapf(err, "cannot draw segment %d of %q", i, f.input)
		}
	}
	return nil
}
