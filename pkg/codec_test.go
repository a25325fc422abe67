package symdiff

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalExpr(t *testing.T) {
	cases := []struct {
		data   string
		expect Expr
	}{
		{"const: 2.5", num(2.5)},
		{"const: 0", num(0)},
		{"var: x", sym("x")},
		{
			"op: sin\nargs:\n  - var: x\n",
			&UnaryApp{UnarySin, sym("x")},
		},
		{
			"op: \"-\"\nargs:\n  - op: \"*\"\n    args: [{var: x}, {const: 2}]\n  - const: 1\n",
			bin(BinarySubtraction, bin(BinaryMultiplication, sym("x"), num(2)), num(1)),
		},
	}

	for _, c := range cases {
		got, err := UnmarshalExpr([]byte(c.data), StandardRegistry())
		require.NoError(t, err, c.data)
		assert.True(t, Equal(c.expect, got), "%q decoded as %s", c.data, got)
	}
}

func TestUnmarshalExprErrors(t *testing.T) {
	cases := []struct {
		data   string
		target interface{}
	}{
		{"op: cot\nargs: [{var: x}]", new(*MissingOperatorError)},
		{"op: \"&\"\nargs: [{var: x}, {var: y}]", new(*MissingOperatorError)},
		{"op: sin\nargs: [{var: x}, {var: y}, {var: z}]", new(*ParseError)},
		{"op: sin", new(*ParseError)},
		{"var: x\nconst: 1", new(*ParseError)},
		{"{}", new(*ParseError)},
	}

	for _, c := range cases {
		_, err := UnmarshalExpr([]byte(c.data), StandardRegistry())
		require.Error(t, err, c.data)
		assert.True(t, errors.As(err, c.target), "%q: %v", c.data, err)
	}

	_, err := UnmarshalExpr([]byte("op: [unterminated"), StandardRegistry())
	assert.Error(t, err)
}

func TestMarshalFunction(t *testing.T) {
	f, err := NewInterpreter(DefaultConfig()).Parse("f", "sin(pi*x)^2", "x")
	require.NoError(t, err)

	data, err := MarshalFunction(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: f")
	assert.Contains(t, string(data), "display: f(x) = sin(pi*x)^2")

	got, err := UnmarshalFunction(data, nil)
	require.NoError(t, err)
	assert.Equal(t, f.String(), got.String())
	assert.Equal(t, []string{"x"}, got.Vars)

	v, err := got.At(0.25)
	require.NoError(t, err)
	assert.Equal(t, "f(0.25) = 0.50", v)
}

func TestUnmarshalFunctionUndeclared(t *testing.T) {
	data := "name: g\nvars: [x]\nexpr:\n  op: \"+\"\n  args: [{var: x}, {var: w}]\n"

	_, err := UnmarshalFunction([]byte(data), nil)

	var uErr *UndefinedError
	require.True(t, errors.As(err, &uErr), "%v", err)
	assert.Equal(t, "w", uErr.Name)
}

func TestUnmarshalFunctionMissingExpr(t *testing.T) {
	_, err := UnmarshalFunction([]byte("name: g\nvars: [x]\n"), nil)

	var pErr *ParseError
	assert.True(t, errors.As(err, &pErr), "%v", err)
}
