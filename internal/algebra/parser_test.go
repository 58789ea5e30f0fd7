package algebra

import (
	"errors"
	"testing"
)

func TestParseRendersExpectedTree(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2", "2"},
		{"0.5", "1/2"},
		{".5", "1/2"},
		{"3/4", "(3 / 4)"},
		{"x", "x"},
		{"2x", "(2 * x)"},
		{"x^2+2x+1", "(((x ^ 2) + (2 * x)) + 1)"},
		{"(x+1)(x-1)", "((x + 1) * (x - 1))"},
		{"x(x+2)", "(x * (x + 2))"},
		{"-x^2", "(-(x ^ 2))"},
		{"2^3^2", "(2 ^ (3 ^ 2))"},
		{"x^-1", "(x ^ (-1))"},
		{"2**3", "(2 ^ 3)"},
		{"x²", "(x ^ 2)"},
		{"3×4÷2", "((3 * 4) / 2)"},
		{"２＋３", "(2 + 3)"},
		{"（x＋1）", "(x + 1)"},
		{"sin(x)", "sin(x)"},
		{"2sin(x)", "(2 * sin(x))"},
		{"ln(e)", "ln(e)"},
		{" 1 / 2 ", "(1 / 2)"},
		{"x y", "xy"}, // whitespace is stripped before lexing; xy is one symbol
		{"1+2*3", "(1 + (2 * 3))"},
		{"(1+2)*3", "((1 + 2) * 3)"},
	}

	for _, tt := range tests {
		n, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if got := n.String(); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"2+",
		"*x",
		"sin x",
		"sin()",
		"(x+1",
		"x+1)",
		"1.2.3",
		"2^",
		"x!",
		"x@y",
		".",
	}

	for _, input := range inputs {
		n, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) = %s, want error", input, n)
			continue
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("Parse(%q) error %v is not a *ParseError", input, err)
		}
	}
}

func TestParseImplicitMultiplicationBindsPowers(t *testing.T) {
	// 2x^3 must read as 2*(x^3), not (2x)^3.
	n, err := Parse("2x^3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := n.String(); got != "(2 * (x ^ 3))" {
		t.Errorf("2x^3 parsed as %s", got)
	}
}
