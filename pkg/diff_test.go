package symdiff

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numericDerivative is a central difference in float64.
func numericDerivative(t *testing.T, e Expr, at float64) float64 {
	const h = 1e-3

	hi, err := Evaluate(e, Bindings{"x": float32(at + h)})
	require.NoError(t, err)

	lo, err := Evaluate(e, Bindings{"x": float32(at - h)})
	require.NoError(t, err)

	return (float64(hi) - float64(lo)) / (2 * h)
}

func TestDifferentiate(t *testing.T) {
	cases := []struct {
		data string
		at   []float64
	}{
		{"x^3+2*x", []float64{0.5, 2}},
		{"x*sin(x)", []float64{0, 1, 2}},
		{"cos(2*x)", []float64{0.3, 1}},
		{"tan(x)", []float64{0, 0.5}},
		{"sinh(x)-cosh(x)", []float64{-1, 1}},
		{"tanh(x/2)", []float64{0, 1}},
		{"ln(x)", []float64{0.5, 2}},
		{"sqrt(x)", []float64{1, 4}},
		{"x/(x+1)", []float64{0, 2}},
		{"2^x", []float64{0, 1.5}},
		{"x^x", []float64{0.5, 2}},
		{"e^(x*x)", []float64{0, 0.5}},
		{"x-3", []float64{1}},
	}

	in := NewInterpreter(DefaultConfig())
	for _, c := range cases {
		e, err := in.ParseExpr(c.data, "x")
		require.NoError(t, err, c.data)

		d, err := Differentiate(e, "x", in.Registry())
		require.NoError(t, err, c.data)

		for _, at := range c.at {
			got, err := Evaluate(d, Bindings{"x": float32(at)})
			require.NoError(t, err, c.data)
			assert.InDelta(t, numericDerivative(t, e, at), got, 5e-2, "%s at %v: %s", c.data, at, d)
		}
	}
}

func TestDifferentiateLeaves(t *testing.T) {
	reg := StandardRegistry()

	d, err := Differentiate(num(5), "x", reg)
	require.NoError(t, err)
	assert.True(t, Equal(num(0), d))

	d, err = Differentiate(sym("x"), "x", reg)
	require.NoError(t, err)
	assert.True(t, Equal(num(1), d))

	d, err = Differentiate(sym("y"), "x", reg)
	require.NoError(t, err)
	assert.True(t, Equal(num(0), d))
}

func TestDifferentiateShapes(t *testing.T) {
	in := NewInterpreter(DefaultConfig())

	cases := []struct {
		data   string
		expect string
	}{
		{"sin(x)", "1*cos(x)"},
		{"cos(x)", "(1*sin(x))*(-1)"},
		{"ln(x)", "1/x"},
		{"sqrt(x)", "1/(2*sqrt(x))"},
		{"x*y", "x*0+y*1"},
	}

	for _, c := range cases {
		e, err := in.ParseExpr(c.data, "x", "y")
		require.NoError(t, err, c.data)

		d, err := Differentiate(e, "x", in.Registry())
		require.NoError(t, err, c.data)
		assert.Equal(t, c.expect, d.String(), c.data)
	}
}

func TestDifferentiateDoesNotShare(t *testing.T) {
	e, err := NewInterpreter(DefaultConfig()).ParseExpr("sin(x)*x", "x")
	require.NoError(t, err)

	before := e.String()
	d, err := Differentiate(e, "x", StandardRegistry())
	require.NoError(t, err)

	// (sin(x)*x)' = sin(x)*1 + x*(1*cos(x))
	sum := d.(*BinaryApp)
	left := sum.Left.(*BinaryApp)
	assert.NotSame(t, e.(*BinaryApp).Left, left.Left)
	assert.Equal(t, before, e.String())
}

func TestUndifferentiable(t *testing.T) {
	cases := []struct {
		data string
		op   string
	}{
		{"5 % x", "%"},
		{"abs(x)", "abs"},
		{"floor(x)+1", "floor"},
		{"2*ceil(x)", "ceil"},
	}

	for _, c := range cases {
		f, err := Parse(c.data, "x")
		require.NoError(t, err, c.data)

		_, err = f.Differentiate("x")

		var uErr *UndifferentiableError
		require.True(t, errors.As(err, &uErr), c.data)
		assert.Equal(t, c.op, uErr.Operator)
	}
}

func TestMissingOperator(t *testing.T) {
	reg := NewRegistry()
	reg.AddBinary(BinaryAddition, linearRule)
	reg.AddUnary(UnarySin, derivSin)

	_, err := Differentiate(&UnaryApp{UnarySin, sym("x")}, "x", reg)

	var mErr *MissingOperatorError
	require.ErrorAs(t, err, &mErr)
	assert.Contains(t, []string{"*", "cos"}, mErr.Symbol)
}

func TestSinSquaredDerivative(t *testing.T) {
	f, err := NewInterpreter(DefaultConfig()).Parse("f", "sin(pi*x)^2", "x")
	require.NoError(t, err)

	d, err := f.Differentiate("x")
	require.NoError(t, err)

	s, err := d.Simplify()
	require.NoError(t, err)

	for _, x := range []float32{0, 0.25, 0.5} {
		want := 2 * math.Pi * math.Sin(math.Pi*float64(x)) * math.Cos(math.Pi*float64(x))

		got, err := s.Evaluate(Bindings{"x": x})
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-4, "x=%v: %s", x, s)
	}

	// Before simplification the power rule needs ln(sin(pi*x)), which is
	// only defined away from the roots
	got, err := d.Evaluate(Bindings{"x": 0.25})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, got, 1e-4)
}
