package grafer

import (
	"fmt"
	"math"
)

// DefaultClampLimit is the magnitude beyond which finite results are truncated.
const DefaultClampLimit = 1000000

// ErrParse error is returned when a token that must be numeric is not. For a plan built by NewPlan
// this never happens, so callers ought to treat it as a broken invariant rather than a bad sample.
type ErrParse struct {
	Position int
	Token    Token
}

// Error returns the error string representation for ErrParse errors.
func (e ErrParse) Error() string {
	return fmt.Sprintf("parse error at position %d: expected number: %s %q", e.Position, e.Token.Kind, e.Token.String())
}

// state is the private working copy of an expression and its plan for one evaluation.
type state struct {
	tokens  Expression
	plan    Plan
	removed int // tokens removed so far
}

// Evaluate reduces expr to a single value with the free variable bound to value, applying the
// default clamp limit. Neither expr nor plan is modified, so Evaluate is safe for concurrent use
// with shared arguments.
//
//	expr, _ := grafer.Normalize("x^2")
//	plan, _ := grafer.NewPlan(expr)
//	y, err := grafer.Evaluate(expr, plan, -2)
//	if err != nil {
//		panic(err)
//	}
//	// y == 4
func Evaluate(expr Expression, plan Plan, value float64) (float64, error) {
	return evaluate(expr, plan, value, DefaultClampLimit)
}

func evaluate(expr Expression, plan Plan, value, limit float64) (float64, error) {
	s := newState(expr, plan, value)

	for step := range s.plan {
		at := s.plan[step] // live position; earlier steps may have shifted it
		if at < 1 || at >= len(s.tokens)-1 || s.tokens[at].Kind != Operator {
			return 0, ErrParse{Position: at, Token: tokenAt(s.tokens, at)}
		}
		left, right := s.tokens[at-1], s.tokens[at+1]
		if left.Kind != Number {
			return 0, ErrParse{Position: at - 1, Token: left}
		}
		if right.Kind != Number {
			return 0, ErrParse{Position: at + 1, Token: right}
		}

		var removed int
		s.tokens, removed = reduceAt(s.tokens, at, Num(apply(s.tokens[at].Op, left.Value, right.Value)))
		s.plan = reindex(s.plan, step, at, removed)
		s.removed += removed
	}

	if len(s.tokens) != 1 || s.tokens[0].Kind != Number {
		return 0, ErrParse{Token: tokenAt(s.tokens, 0)}
	}
	return clamp(s.tokens[0].Value, limit), nil
}

// newState copies expr with the free variable replaced by value, along with a copy of plan.
func newState(expr Expression, plan Plan, value float64) *state {
	s := &state{
		tokens: make(Expression, len(expr)),
		plan:   make(Plan, len(plan)),
	}
	for i, t := range expr {
		if t.Kind == Variable {
			t = Num(value)
		}
		s.tokens[i] = t
	}
	copy(s.plan, plan)
	return s
}

func tokenAt(tokens Expression, i int) Token {
	if i < 0 || i >= len(tokens) {
		return Token{Kind: -1}
	}
	return tokens[i]
}

func apply(op byte, a, b float64) float64 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	case '^':
		return math.Pow(a, b)
	}
	return math.NaN()
}

// clamp truncates finite values whose magnitude exceeds limit, keeping their sign. NaN and
// infinities pass through since they mark a break in the curve.
func clamp(y, limit float64) float64 {
	switch {
	case math.IsInf(y, 0), math.IsNaN(y):
		return y
	case y > limit:
		return limit
	case y < -limit:
		return -limit
	}
	return y
}

// reduceAt writes result over the operator at position at, removes both of its operands, and then
// removes every bracket pair left around the lone result. It returns the new sequence and the
// number of tokens removed, which is always even: the removed tokens form the span
// [at-removed/2, at+removed/2] minus at itself.
func reduceAt(tokens Expression, at int, result Token) (Expression, int) {
	h := 1
	for at-h-1 >= 0 && at+h+1 < len(tokens) && tokens[at-h-1].Kind == LeftParen && tokens[at+h+1].Kind == RightParen {
		h++
	}
	out := splice(tokens, at, 2*h)
	out[at-h] = result
	return out, 2 * h
}

// reindex returns a copy of plan in which every entry after step that is positioned after at is
// moved down by removed.
func reindex(plan Plan, step, at, removed int) Plan {
	out := make(Plan, len(plan))
	copy(out, plan)
	for i := step + 1; i < len(out); i++ {
		if out[i] > at {
			out[i] -= removed
		}
	}
	return out
}

// splice returns a new slice holding s without the removed elements around index at:
// s[:at-removed/2], s[at], s[at+removed/2+1:].
func splice[T any](s []T, at, removed int) []T {
	h := removed / 2
	out := make([]T, 0, len(s)-removed)
	out = append(out, s[:at-h]...)
	out = append(out, s[at])
	return append(out, s[at+h+1:]...)
}
