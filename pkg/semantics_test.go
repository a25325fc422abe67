package symdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolTable(t *testing.T) {
	stab := NewGlobalSymbolTable()
	assert.True(t, stab.Has(ReservedPi))
	assert.True(t, stab.Has(ReservedE))
	assert.False(t, stab.Has("x"))

	stab.Add("x")
	assert.True(t, stab.Has("x"))
}

func TestAnalyze(t *testing.T) {
	foreign := &BinaryOperator{"+", RankAddition, BinaryAddition.Eval}

	cases := []struct {
		root   Expr
		vars   []string
		expect []error
	}{
		{
			bin(BinaryMultiplication, sym(ReservedPi), sym("x")),
			[]string{"x"},
			nil,
		},
		{
			bin(BinaryAddition, sym("z"), bin(BinaryMultiplication, sym("y"), sym("z"))),
			[]string{"x"},
			[]error{&UndefinedError{"y"}, &UndefinedError{"z"}},
		},
		{
			&UnaryApp{UnarySin, bin(foreign, sym("x"), num(1))},
			[]string{"x"},
			[]error{&UndefinedOperationError{"+"}},
		},
		{
			bin(BinaryAddition, sym("cos"), sym("q")),
			[]string{"cos"},
			[]error{
				&NameCollisionError{Name: "cos", Operator: "cos"},
				&UndefinedError{"q"},
			},
		},
	}

	for _, c := range cases {
		got := Analyze(c.root, c.vars, StandardRegistry())
		assert.Equal(t, c.expect, got, c.root.String())
	}
}

func TestAnalyzeParsedFunctions(t *testing.T) {
	in := NewInterpreter(DefaultConfig())

	for _, data := range []string{"4*7", "sin(pi*x)^2", "ln(x)+(x^4)", "e^x-x%2"} {
		f, err := in.Parse("f", data, "x")
		if assert.NoError(t, err, data) {
			assert.Empty(t, Analyze(f.Root, f.Vars, in.Registry()), data)
		}
	}
}
