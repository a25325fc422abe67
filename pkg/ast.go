package symdiff

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

const (
	ReservedPi = "pi"
	ReservedE  = "e"
)

// Expr is one of *Constant, *Variable, *UnaryApp or *BinaryApp. Trees are
// never modified after construction: every transform builds a new tree.
type Expr interface {
	fmt.Stringer
	expr()
}

type Constant struct {
	Value float32
}

type Variable struct {
	Name string
}

type UnaryApp struct {
	Op    *UnaryOperator
	Child Expr
}

type BinaryApp struct {
	Op    *BinaryOperator
	Left  Expr
	Right Expr
}

func (*Constant) expr()  {}
func (*Variable) expr()  {}
func (*UnaryApp) expr()  {}
func (*BinaryApp) expr() {}

// Bindings maps variable names to values. pi and e resolve even when absent.
type Bindings map[string]float32

func (b Bindings) lookup(name string) (float32, bool) {
	if v, ok := b[name]; ok {
		return v, true
	}

	switch name {
	case ReservedPi:
		return math.Pi, true
	case ReservedE:
		return math.E, true
	}

	return 0, false
}

func Evaluate(e Expr, b Bindings) (float32, error) {
	switch n := e.(type) {
	case *Constant:
		return n.Value, nil
	case *Variable:
		v, ok := b.lookup(n.Name)
		if !ok {
			return 0, &EvaluationError{Name: n.Name}
		}

		return v, nil
	case *UnaryApp:
		v, err := Evaluate(n.Child, b)
		if err != nil {
			return 0, err
		}

		return n.Op.Eval(float64(v)), nil
	case *BinaryApp:
		l, err := Evaluate(n.Left, b)
		if err != nil {
			return 0, err
		}

		r, err := Evaluate(n.Right, b)
		if err != nil {
			return 0, err
		}

		return n.Op.Eval(l, r), nil
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

func formatConstant(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if math.Signbit(float64(v)) {
		// keeps "x-(-1)" from displaying as "x--1"
		return "(" + s + ")"
	}

	return s
}

func (e *Constant) String() string {
	return formatConstant(e.Value)
}

func (e *Variable) String() string {
	return e.Name
}

func (e *UnaryApp) String() string {
	return e.Op.Name + "(" + e.Child.String() + ")"
}

func (e *BinaryApp) String() string {
	return e.operand(e.Left, true) + e.Op.Symbol + e.operand(e.Right, false)
}

// operand brackets a child only when re-parsing the output would otherwise
// group it differently: a weaker child, or a left child of equal rank since
// equal ranks split at the leftmost occurrence.
func (e *BinaryApp) operand(child Expr, left bool) string {
	s := child.String()

	b, ok := child.(*BinaryApp)
	if !ok {
		return s
	}

	if b.Op.weaker(e.Op) || (left && b.Op.Rank == e.Op.Rank) {
		return "(" + s + ")"
	}

	return s
}

// Equal compares trees structurally. Operators compare by identity.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Constant:
		y, ok := b.(*Constant)
		return ok && x.Value == y.Value
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *UnaryApp:
		y, ok := b.(*UnaryApp)
		return ok && x.Op == y.Op && Equal(x.Child, y.Child)
	case *BinaryApp:
		y, ok := b.(*BinaryApp)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	}

	return false
}

func Clone(e Expr) Expr {
	switch n := e.(type) {
	case *Constant:
		return &Constant{Value: n.Value}
	case *Variable:
		return &Variable{Name: n.Name}
	case *UnaryApp:
		return &UnaryApp{Op: n.Op, Child: Clone(n.Child)}
	case *BinaryApp:
		return &BinaryApp{Op: n.Op, Left: Clone(n.Left), Right: Clone(n.Right)}
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

// CommonFactors returns the sub-expressions that divide e. For a sum or a
// difference these are the factors shared by both operands, for a product the
// factors of either operand. A power with a constant exponent above one yields
// its base. Anything else is its own single factor.
func CommonFactors(e Expr) []Expr {
	if b, ok := e.(*BinaryApp); ok {
		switch b.Op.Symbol {
		case "+", "-":
			return intersectFactors(CommonFactors(b.Left), CommonFactors(b.Right))
		case "*":
			return unionFactors(CommonFactors(b.Left), CommonFactors(b.Right))
		case "^":
			if c, ok := b.Right.(*Constant); ok && c.Value > 1 {
				return []Expr{b.Left}
			}
		}
	}

	return []Expr{e}
}

func containsFactor(set []Expr, e Expr) bool {
	for _, f := range set {
		if Equal(f, e) {
			return true
		}
	}

	return false
}

func unionFactors(a, b []Expr) []Expr {
	var out []Expr
	for _, set := range [][]Expr{a, b} {
		for _, f := range set {
			if !containsFactor(out, f) {
				out = append(out, f)
			}
		}
	}

	return out
}

func intersectFactors(a, b []Expr) []Expr {
	var out []Expr
	for _, f := range a {
		if containsFactor(b, f) && !containsFactor(out, f) {
			out = append(out, f)
		}
	}

	return out
}

// FreeVariables lists the distinct variable names in e, sorted.
func FreeVariables(e Expr) []string {
	seen := make(map[string]bool)
	collectVariables(e, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

func collectVariables(e Expr, seen map[string]bool) {
	switch n := e.(type) {
	case *Variable:
		seen[n.Name] = true
	case *UnaryApp:
		collectVariables(n.Child, seen)
	case *BinaryApp:
		collectVariables(n.Left, seen)
		collectVariables(n.Right, seen)
	}
}
