package grafer

import (
	"reflect"
	"testing"
)

func TestNormalizeCanonicalText(t *testing.T) {
	list := map[string]string{
		"x":           "x",
		"(x)":         "x",
		"((5))":       "5",
		"2x":          "2*x",
		"2*x":         "2*x",
		"12x":         "12*x",
		" 1 2 + x ":   "12+x",
		"xx":          "x*x",
		"x2":          "x*2",
		"-x":          "0-x",
		"(-x)":        "(0-x)",
		"-(x+1)":      "0-(x+1)",
		"x(x+1)":      "x*(x+1)",
		"(x)2":        "x*2",
		"2(3)":        "2*3",
		"(x+1)(x-1)":  "(x+1)*(x-1)",
		"((x+1))":     "((x+1))",
		"2x(x - 1)":   "2*x*(x-1)",
		"-(2x)^2":     "0-(2*x)^2",
		"3x^2 - 4x+7": "3*x^2-4*x+7",
	}
	for input, output := range list {
		expr, err := Normalize(input)
		if err != nil {
			t.Errorf("Case: %s; Actual: %s; Expected: %v", input, err, nil)
		} else if expr.String() != output {
			t.Errorf("Case: %s; Actual: %#v; Expected: %#v", input, expr.String(), output)
		}
	}
}

func TestNormalizeDecodesTokens(t *testing.T) {
	expr, err := Normalize("-12(x)")
	if err != nil {
		t.Fatal(err)
	}
	expected := Expression{Num(0), Op('-'), Num(12), Op('*'), {Kind: Variable}}
	if !reflect.DeepEqual(expr, expected) {
		t.Errorf("Actual: %#v; Expected: %#v", expr, expected)
	}
}

func TestNormalizeEquivalentInputs(t *testing.T) {
	list := map[string]string{
		"(x)":   "x",
		"2x":    "2*x",
		"x 1":   "x*1",
		"((x))": "x",
	}
	for a, b := range list {
		exprA, err := Normalize(a)
		if err != nil {
			t.Fatal(err)
		}
		exprB, err := Normalize(b)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(exprA, exprB) {
			t.Errorf("Case: %s; Actual: %#v; Expected: %#v", a, exprA, exprB)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	list := []string{"x", "2x", "-x", "(-x)^2", "x(x+1)(x-1)", "((x+1))", "1/x", "-(2x)^3 - 10", "007x"}
	for _, input := range list {
		expr, err := Normalize(input)
		if err != nil {
			t.Fatal(err)
		}
		again, err := Normalize(expr.String())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(again, expr) {
			t.Errorf("Case: %s; Actual: %#v; Expected: %#v", input, again, expr)
		}
	}
}

func TestNormalizeMalformed(t *testing.T) {
	list := []string{"", "   ", "3.5", "x$1", "x % 2", "y+1", "2x + z"}
	for _, input := range list {
		_, err := Normalize(input)
		if _, ok := err.(ErrMalformedExpression); !ok {
			t.Errorf("Case: %q; Actual: %#v; Expected: %T", input, err, ErrMalformedExpression{})
		}
	}
}

func TestNormalizeMalformedPosition(t *testing.T) {
	_, err := Normalize("x$1")
	e, ok := err.(ErrMalformedExpression)
	if !ok {
		t.Fatalf("Actual: %#v; Expected: %T", err, ErrMalformedExpression{})
	}
	if actual, expected := e.Position, 1; actual != expected {
		t.Errorf("Actual: %#v; Expected: %#v", actual, expected)
	}
	if actual, expected := e.Char, '$'; actual != expected {
		t.Errorf("Actual: %#v; Expected: %#v", actual, expected)
	}
}

func TestNormalizeVariable(t *testing.T) {
	expr, err := NormalizeVariable("2t", 't')
	if err != nil {
		t.Fatal(err)
	}
	expected := Expression{Num(2), Op('*'), {Kind: Variable}}
	if !reflect.DeepEqual(expr, expected) {
		t.Errorf("Actual: %#v; Expected: %#v", expr, expected)
	}

	if _, err = NormalizeVariable("2x", 't'); err == nil {
		t.Errorf("Actual: %#v; Expected: %T", err, ErrMalformedExpression{})
	}
}

func TestExpressionFormat(t *testing.T) {
	expr, err := NormalizeVariable("3(t+1)t", 't')
	if err != nil {
		t.Fatal(err)
	}
	if actual, expected := expr.Format('t'), "3*(t+1)*t"; actual != expected {
		t.Errorf("Actual: %#v; Expected: %#v", actual, expected)
	}
	if actual, expected := expr.String(), "3*(x+1)*x"; actual != expected {
		t.Errorf("Actual: %#v; Expected: %#v", actual, expected)
	}
}

func TestExpressionOperators(t *testing.T) {
	list := map[string]int{
		"x":          0,
		"-x":         1,
		"2x^2":       2,
		"(x+1)(x-1)": 3,
	}
	for input, count := range list {
		expr, err := Normalize(input)
		if err != nil {
			t.Fatal(err)
		}
		if actual := expr.Operators(); actual != count {
			t.Errorf("Case: %s; Actual: %#v; Expected: %#v", input, actual, count)
		}
	}
}

func TestKindString(t *testing.T) {
	if actual, expected := RightParen.String(), "RightParen"; actual != expected {
		t.Errorf("Actual: %#v; Expected: %#v", actual, expected)
	}
	if actual, expected := Kind(-1).String(), "Kind(-1)"; actual != expected {
		t.Errorf("Actual: %#v; Expected: %#v", actual, expected)
	}
}
