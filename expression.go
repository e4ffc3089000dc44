package grafer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// DefaultVariable is the letter that names the free variable of an expression unless a different
// letter is requested with the FreeVariable configurator.
const DefaultVariable = 'x'

// Kind identifies the class of a Token.
type Kind int

const (
	Number Kind = iota
	Operator
	LeftParen
	RightParen
	Variable
)

var kindNames = [...]string{"Number", "Operator", "LeftParen", "RightParen", "Variable"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Token is a single decoded element of an Expression. Value is only meaningful for Number tokens,
// and Op is only meaningful for Operator tokens.
type Token struct {
	Kind  Kind
	Value float64
	Op    byte
}

// Num returns a Number token.
func Num(value float64) Token { return Token{Kind: Number, Value: value} }

// Op returns an Operator token for one of the runes '+', '-', '*', '/', or '^'.
func Op(op byte) Token { return Token{Kind: Operator, Op: op} }

// String returns the source text for the token, writing the free variable as x.
func (t Token) String() string {
	switch t.Kind {
	case Number:
		return strconv.FormatFloat(t.Value, 'f', -1, 64)
	case Operator:
		return string(t.Op)
	case LeftParen:
		return "("
	case RightParen:
		return ")"
	case Variable:
		return "x"
	}
	return "?"
}

// operandEnd is true for tokens that may end an operand.
func (t Token) operandEnd() bool {
	return t.Kind == Number || t.Kind == Variable || t.Kind == RightParen
}

// operandStart is true for tokens that may begin an operand.
func (t Token) operandStart() bool {
	return t.Kind == Number || t.Kind == Variable || t.Kind == LeftParen
}

// precedence returns the binding strength of an operator token.
func (t Token) precedence() int {
	switch t.Op {
	case '^':
		return 3
	case '*', '/':
		return 2
	}
	return 1
}

// ErrMalformedExpression error is returned when an input string contains a character that is not
// a digit, a letter, an operator, a parenthesis, or a space.
type ErrMalformedExpression struct {
	Input    string
	Position int
	Char     rune
	Message  string
}

// Error returns the error string representation for ErrMalformedExpression errors.
func (e ErrMalformedExpression) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("malformed expression %q: %s", e.Input, e.Message)
	}
	return fmt.Sprintf("malformed expression %q: cannot classify %q at position %d", e.Input, e.Char, e.Position)
}

// Expression is a canonical token sequence. It contains no spaces, no bracket pair around a single
// token, no adjacent numbers, explicit multiplication between operands, and an explicit zero in
// front of every unary minus.
type Expression []Token

// String returns the canonical text of the expression. Normalizing the returned string yields an
// identical Expression.
//
//	expr, err := grafer.Normalize("2x(x - 1)")
//	if err != nil {
//		panic(err)
//	}
//	s := expr.String() // "2*x*(x-1)"
func (e Expression) String() string { return e.Format(DefaultVariable) }

// Format returns the canonical text of the expression with the free variable written as v.
// NormalizeVariable(e.Format(v), v) yields an identical Expression.
func (e Expression) Format(v rune) string {
	var b strings.Builder
	for _, t := range e {
		if t.Kind == Variable {
			b.WriteRune(v)
			continue
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Operators returns the number of operator tokens in the expression, which is also the number of
// reduction steps required to evaluate it.
func (e Expression) Operators() int {
	var count int
	for _, t := range e {
		if t.Kind == Operator {
			count++
		}
	}
	return count
}

// Normalize converts a raw expression string in the free variable x into its canonical token
// sequence.
//
//	expr, err := grafer.Normalize("-(2x)^2")
//	if err != nil {
//		panic(err)
//	}
//	s := expr.String() // "0-(2*x)^2"
func Normalize(input string) (Expression, error) {
	return NormalizeVariable(input, DefaultVariable)
}

// NormalizeVariable converts a raw expression string into its canonical token sequence, treating
// the letter v as the free variable.
func NormalizeVariable(input string, v rune) (Expression, error) {
	lexemes := make([]string, 0, len(input))

	// one lexeme per character, spaces dropped
	for idx, r := range input {
		switch {
		case r == ' ':
		case unicode.IsDigit(r), unicode.IsLetter(r), r == '(', r == ')', strings.ContainsRune("+-*/^", r):
			lexemes = append(lexemes, string(r))
		default:
			return nil, ErrMalformedExpression{Input: input, Position: idx, Char: r}
		}
	}
	if len(lexemes) == 0 {
		return nil, ErrMalformedExpression{Input: input, Message: "empty expression"}
	}

	if len(lexemes) > 1 {
		lexemes = insertMultiplication(lexemes)
		lexemes = mergeNumbers(lexemes)
		lexemes = collapseBrackets(lexemes)
		lexemes = insertZero(lexemes)
	}

	expr := make(Expression, len(lexemes))
	for idx, l := range lexemes {
		switch r := []rune(l)[0]; {
		case unicode.IsDigit(r):
			value, err := strconv.ParseFloat(l, 64)
			if err != nil {
				return nil, ErrMalformedExpression{Input: input, Message: "bad number " + l}
			}
			expr[idx] = Num(value)
		case r == '(':
			expr[idx] = Token{Kind: LeftParen}
		case r == ')':
			expr[idx] = Token{Kind: RightParen}
		case r == v:
			expr[idx] = Token{Kind: Variable}
		case unicode.IsLetter(r):
			return nil, ErrMalformedExpression{Input: input, Char: r, Message: fmt.Sprintf("unknown variable %q", r)}
		default:
			expr[idx] = Op(byte(r))
		}
	}
	return expr, nil
}

func isDigits(l string) bool {
	for _, r := range l {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return l != ""
}

func isLetter(l string) bool {
	r := []rune(l)
	return len(r) == 1 && unicode.IsLetter(r[0])
}

// implicitMultiplication is true when a '*' belongs between two adjacent lexemes.
func implicitMultiplication(left, right string) bool {
	leftOperand := isLetter(left) || isDigits(left)
	rightOperand := isLetter(right) || isDigits(right)
	switch {
	case isLetter(left) && rightOperand:
		return true
	case isDigits(left) && isLetter(right):
		return true
	case leftOperand && right == "(":
		return true
	case left == ")" && (rightOperand || right == "("):
		return true
	}
	return false
}

func insertMultiplication(lexemes []string) []string {
	out := make([]string, 0, 2*len(lexemes))
	out = append(out, lexemes[0])
	for _, l := range lexemes[1:] {
		if implicitMultiplication(out[len(out)-1], l) {
			out = append(out, "*")
		}
		out = append(out, l)
	}
	return out
}

func mergeNumbers(lexemes []string) []string {
	out := make([]string, 0, len(lexemes))
	for _, l := range lexemes {
		if last := len(out) - 1; last >= 0 && isDigits(out[last]) && isDigits(l) {
			out[last] += l
			continue
		}
		out = append(out, l)
	}
	return out
}

// collapseBrackets removes every bracket pair that encloses exactly one lexeme, repeating outward
// for nested pairs.
func collapseBrackets(lexemes []string) []string {
	for i := 1; i < len(lexemes)-1; i++ {
		for j := i; j > 0 && j < len(lexemes)-1 && lexemes[j-1] == "(" && lexemes[j+1] == ")"; j-- {
			lexemes = append(lexemes[:j-1], append([]string{lexemes[j]}, lexemes[j+2:]...)...)
			i = j - 1
		}
	}
	return lexemes
}

// insertZero makes every minus binary by writing a zero in front of a leading minus and of any
// minus that directly follows an opening bracket.
func insertZero(lexemes []string) []string {
	out := make([]string, 0, len(lexemes)+2)
	for idx, l := range lexemes {
		if l == "-" && (idx == 0 || lexemes[idx-1] == "(") {
			out = append(out, "0")
		}
		out = append(out, l)
	}
	return out
}
