package grafer

import "fmt"

// ErrStructure error is returned when an Expression has unbalanced parentheses or an operator
// without one of its operands.
type ErrStructure struct {
	Position int
	Message  string
}

// Error returns the error string representation for ErrStructure errors.
func (e ErrStructure) Error() string {
	return fmt.Sprintf("structure error at position %d: %s", e.Position, e.Message)
}

// Plan is the ordered list of operator positions, in canonical coordinates, that reduces an
// Expression to a single number. Before a position is used, every reduction earlier in the plan
// that removed tokens in front of it must be subtracted from it; Evaluate does this with reindex.
type Plan []int

// NewPlan returns the reduction plan for expr. Operators inside parentheses are reduced before the
// operators that consume the parenthesized result; within one group, higher precedence goes first
// and equal precedence goes left to right.
//
//	expr, _ := grafer.Normalize("2+3*4")
//	plan, err := grafer.NewPlan(expr)
//	if err != nil {
//		panic(err)
//	}
//	// plan is [3 1]: first the '*' at position 3, then the '+' at position 1
func NewPlan(expr Expression) (Plan, error) {
	if err := validate(expr); err != nil {
		return nil, err
	}

	// work holds placeholders for reduced operands; origin maps each live token back to its
	// canonical position
	work := make(Expression, len(expr))
	copy(work, expr)
	origin := make([]int, len(expr))
	for i := range origin {
		origin[i] = i
	}

	steps := expr.Operators()
	plan := make(Plan, 0, steps)
	for len(plan) < steps {
		lo, hi := innermostGroup(work)
		at := -1
		for i := lo; i <= hi; i++ {
			if work[i].Kind == Operator && (at < 0 || work[i].precedence() > work[at].precedence()) {
				at = i
			}
		}
		if at < 0 {
			return nil, ErrStructure{Position: origin[lo], Message: "group without operator"}
		}
		plan = append(plan, origin[at])

		var removed int
		work, removed = reduceAt(work, at, Num(0))
		origin = splice(origin, at, removed)
	}
	if len(work) != 1 {
		return nil, ErrStructure{Position: origin[0], Message: "expression does not reduce to one value"}
	}
	return plan, nil
}

// innermostGroup returns the bounds of the leftmost parenthesized group containing no other
// parentheses, excluding the brackets themselves, or the whole sequence when none remain.
func innermostGroup(tokens Expression) (int, int) {
	open := -1
	for i, t := range tokens {
		switch t.Kind {
		case LeftParen:
			open = i
		case RightParen:
			return open + 1, i - 1
		}
	}
	return 0, len(tokens) - 1
}

func validate(expr Expression) error {
	if len(expr) == 0 {
		return ErrStructure{Message: "empty expression"}
	}
	var depth int
	for i, t := range expr {
		switch t.Kind {
		case LeftParen:
			depth++
		case RightParen:
			if depth--; depth < 0 {
				return ErrStructure{Position: i, Message: "unmatched closing parenthesis"}
			}
		}

		if i == 0 {
			if !t.operandStart() {
				return ErrStructure{Position: i, Message: "operator missing left operand"}
			}
			continue
		}
		prev := expr[i-1]
		switch {
		case prev.operandEnd() && (t.Kind == Operator || t.Kind == RightParen):
		case (prev.Kind == Operator || prev.Kind == LeftParen) && t.operandStart():
		case prev.Kind == Operator:
			return ErrStructure{Position: i - 1, Message: "operator missing right operand"}
		case t.Kind == Operator:
			return ErrStructure{Position: i, Message: "operator missing left operand"}
		case prev.Kind == LeftParen:
			return ErrStructure{Position: i - 1, Message: "empty parentheses"}
		default:
			return ErrStructure{Position: i, Message: fmt.Sprintf("%s follows %s without operator", t.Kind, prev.Kind)}
		}
	}
	if last := len(expr) - 1; expr[last].Kind == Operator {
		return ErrStructure{Position: last, Message: "operator missing right operand"}
	}
	if depth != 0 {
		return ErrStructure{Position: len(expr) - 1, Message: "unmatched opening parenthesis"}
	}
	return nil
}
