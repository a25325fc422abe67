package symdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bin(op *BinaryOperator, l, r Expr) *BinaryApp {
	return &BinaryApp{Op: op, Left: l, Right: r}
}

func num(v float32) *Constant {
	return &Constant{Value: v}
}

func sym(name string) *Variable {
	return &Variable{Name: name}
}

func TestString(t *testing.T) {
	x, y := sym("x"), sym("y")

	cases := []struct {
		expr   Expr
		expect string
	}{
		{num(4), "4"},
		{num(2.5), "2.5"},
		{num(-1), "(-1)"},
		{&UnaryApp{UnarySin, x}, "sin(x)"},
		{bin(BinaryAddition, x, bin(BinaryMultiplication, num(2), y)), "x+2*y"},
		{bin(BinaryMultiplication, bin(BinaryAddition, x, num(1)), y), "(x+1)*y"},
		{bin(BinarySubtraction, x, bin(BinarySubtraction, y, num(1))), "x-y-1"},
		{bin(BinarySubtraction, bin(BinarySubtraction, x, y), num(1)), "(x-y)-1"},
		{bin(BinaryDivision, x, bin(BinaryMultiplication, y, num(2))), "x/(y*2)"},
		{bin(BinaryMultiplication, x, bin(BinaryDivision, y, num(2))), "x*y/2"},
		{bin(BinaryExponentiation, &UnaryApp{UnarySin, x}, num(2)), "sin(x)^2"},
		{bin(BinaryMultiplication, x, num(-1)), "x*(-1)"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, c.expr.String())
	}
}

func TestDisplayRoundTrip(t *testing.T) {
	x, y := sym("x"), sym("y")
	ops := []*BinaryOperator{
		BinaryModulo, BinaryMultiplication, BinaryAddition,
		BinarySubtraction, BinaryDivision, BinaryExponentiation,
	}

	var trees []Expr
	for _, outer := range ops {
		for _, inner := range ops {
			trees = append(trees,
				bin(outer, bin(inner, x, num(2)), y),
				bin(outer, y, bin(inner, num(2), x)),
			)
		}
	}

	trees = append(trees,
		&UnaryApp{UnaryCos, bin(BinarySubtraction, x, num(-2))},
		bin(BinaryDivision, &UnaryApp{UnaryLn, x}, bin(BinaryExponentiation, y, num(0.5))),
	)

	b := Bindings{"x": 1.5, "y": 2}
	in := NewInterpreter(DefaultConfig())
	for _, tree := range trees {
		want, err := Evaluate(tree, b)
		require.NoError(t, err)

		parsed, err := in.ParseExpr(tree.String(), "x", "y")
		require.NoError(t, err, tree.String())

		got, err := Evaluate(parsed, b)
		require.NoError(t, err)

		assert.InDelta(t, want, got, 1e-4, tree.String())
		assert.True(t, Equal(tree, parsed), "%s parsed as %s", tree, parsed)
	}
}

func TestEvaluate(t *testing.T) {
	x := sym("x")

	got, err := Evaluate(bin(BinaryMultiplication, sym(ReservedPi), x), Bindings{"x": 2})
	require.NoError(t, err)
	assert.InDelta(t, 6.2831853, got, 1e-5)

	got, err = Evaluate(sym(ReservedE), nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.7182818, got, 1e-5)

	// Explicit bindings win over the reserved values
	got, err = Evaluate(sym(ReservedE), Bindings{ReservedE: 1})
	require.NoError(t, err)
	assert.Equal(t, float32(1), got)

	_, err = Evaluate(bin(BinaryAddition, x, sym("y")), Bindings{"x": 1})
	var eErr *EvaluationError
	require.ErrorAs(t, err, &eErr)
	assert.Equal(t, "y", eErr.Name)
}

func TestEqual(t *testing.T) {
	x := sym("x")

	assert.True(t, Equal(num(1), num(1)))
	assert.False(t, Equal(num(1), num(2)))
	assert.False(t, Equal(num(1), x))
	assert.True(t, Equal(bin(BinaryAddition, x, num(1)), bin(BinaryAddition, sym("x"), num(1))))
	assert.False(t, Equal(bin(BinaryAddition, x, num(1)), bin(BinaryAddition, num(1), x)))
	assert.False(t, Equal(bin(BinaryAddition, x, num(1)), bin(BinarySubtraction, x, num(1))))
	assert.False(t, Equal(&UnaryApp{UnarySin, x}, &UnaryApp{UnarySinh, x}))
}

func TestClone(t *testing.T) {
	tree := bin(BinaryAddition, &UnaryApp{UnarySin, sym("x")}, num(2))
	c := Clone(tree)

	assert.True(t, Equal(tree, c))

	cb := c.(*BinaryApp)
	assert.NotSame(t, tree, cb)
	assert.NotSame(t, tree.Left, cb.Left)
	assert.NotSame(t, tree.Right, cb.Right)
	assert.Same(t, tree.Op, cb.Op)
}

func TestCommonFactors(t *testing.T) {
	x, y := sym("x"), sym("y")

	cases := []struct {
		expr   Expr
		expect []Expr
	}{
		{x, []Expr{x}},
		{bin(BinaryMultiplication, x, num(4)), []Expr{x, num(4)}},
		{bin(BinaryAddition, bin(BinaryMultiplication, x, num(4)), bin(BinaryMultiplication, num(5), x)), []Expr{x}},
		{bin(BinaryAddition, x, y), nil},
		{bin(BinaryExponentiation, x, num(2)), []Expr{x}},
		{bin(BinaryExponentiation, x, y), []Expr{bin(BinaryExponentiation, x, y)}},
		{bin(BinaryExponentiation, x, num(0.5)), []Expr{bin(BinaryExponentiation, x, num(0.5))}},
		{bin(BinaryMultiplication, x, bin(BinaryMultiplication, x, y)), []Expr{x, y}},
	}

	for _, c := range cases {
		got := CommonFactors(c.expr)
		require.Len(t, got, len(c.expect), c.expr.String())

		for i := range got {
			assert.True(t, Equal(c.expect[i], got[i]), "%s: factor %d is %s", c.expr, i, got[i])
		}
	}
}

func TestFreeVariables(t *testing.T) {
	tree := bin(BinaryAddition,
		bin(BinaryMultiplication, sym("y"), &UnaryApp{UnarySin, sym("x")}),
		bin(BinaryDivision, sym("x"), sym(ReservedPi)),
	)

	assert.Equal(t, []string{"pi", "x", "y"}, FreeVariables(tree))
	assert.Empty(t, FreeVariables(num(1)))
}
