package symdiff

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Ranks order binary operators from the tightest binding (0) to the loosest.
// Every operator has its own rank, so bracketing never needs associativity.
const (
	RankExponentiation = iota
	RankDivision
	RankMultiplication
	RankAddition
	RankSubtraction
	RankModulo
)

type BinaryOperator struct {
	Symbol string
	Rank   int
	Eval   func(a, b float32) float32
}

func (op *BinaryOperator) String() string {
	return op.Symbol
}

// weaker reports whether op binds more loosely than other.
func (op *BinaryOperator) weaker(other *BinaryOperator) bool {
	return op.Rank > other.Rank
}

// UnaryOperator is a named function of one argument. LaTeX is a format string
// with one %s verb for the rendered argument.
type UnaryOperator struct {
	Name  string
	LaTeX string
	Eval  func(x float64) float32
}

func (op *UnaryOperator) String() string {
	return op.Name
}

// A BinaryRule builds the derivative of an application of its operator. A nil
// rule marks the operator as undifferentiable.
type BinaryRule func(d *Deriver, e *BinaryApp) (Expr, error)

type UnaryRule func(d *Deriver, e *UnaryApp) (Expr, error)

var (
	BinaryModulo = &BinaryOperator{"%", RankModulo, func(a, b float32) float32 {
		return float32(math.Mod(float64(a), float64(b)))
	}}
	BinaryMultiplication = &BinaryOperator{"*", RankMultiplication, func(a, b float32) float32 { return a * b }}
	BinaryAddition       = &BinaryOperator{"+", RankAddition, func(a, b float32) float32 { return a + b }}
	BinarySubtraction    = &BinaryOperator{"-", RankSubtraction, func(a, b float32) float32 { return a - b }}
	BinaryDivision       = &BinaryOperator{"/", RankDivision, func(a, b float32) float32 { return a / b }}
	BinaryExponentiation = &BinaryOperator{"^", RankExponentiation, func(a, b float32) float32 {
		return float32(math.Pow(float64(a), float64(b)))
	}}
)

var (
	UnarySin   = &UnaryOperator{"sin", `\sin\left(%s\right)`, func(x float64) float32 { return float32(math.Sin(x)) }}
	UnaryCos   = &UnaryOperator{"cos", `\cos\left(%s\right)`, func(x float64) float32 { return float32(math.Cos(x)) }}
	UnaryTan   = &UnaryOperator{"tan", `\tan\left(%s\right)`, func(x float64) float32 { return float32(math.Tan(x)) }}
	UnarySinh  = &UnaryOperator{"sinh", `\sinh\left(%s\right)`, func(x float64) float32 { return float32(math.Sinh(x)) }}
	UnaryCosh  = &UnaryOperator{"cosh", `\cosh\left(%s\right)`, func(x float64) float32 { return float32(math.Cosh(x)) }}
	UnaryTanh  = &UnaryOperator{"tanh", `\tanh\left(%s\right)`, func(x float64) float32 { return float32(math.Tanh(x)) }}
	UnaryLn    = &UnaryOperator{"ln", `\ln\left(%s\right)`, func(x float64) float32 { return float32(math.Log(x)) }}
	UnarySqrt  = &UnaryOperator{"sqrt", `\sqrt{%s}`, func(x float64) float32 { return float32(math.Sqrt(x)) }}
	UnaryAbs   = &UnaryOperator{"abs", `\left|%s\right|`, func(x float64) float32 { return float32(math.Abs(x)) }}
	UnaryFloor = &UnaryOperator{"floor", `\left\lfloor %s\right\rfloor`, func(x float64) float32 { return float32(math.Floor(x)) }}
	UnaryCeil  = &UnaryOperator{"ceil", `\left\lceil %s\right\rceil`, func(x float64) float32 { return float32(math.Ceil(x)) }}
)

// Registry is the operator catalog handed to the bracketer, the parser, the
// differentiator and the simplifier. It is read-only once built.
type Registry struct {
	binary      []*BinaryOperator
	unary       []*UnaryOperator
	binaryRules map[*BinaryOperator]BinaryRule
	unaryRules  map[*UnaryOperator]UnaryRule
}

func NewRegistry() *Registry {
	return &Registry{
		binaryRules: make(map[*BinaryOperator]BinaryRule),
		unaryRules:  make(map[*UnaryOperator]UnaryRule),
	}
}

func StandardRegistry() *Registry {
	r := NewRegistry()

	r.AddBinary(BinaryModulo, nil)
	r.AddBinary(BinaryMultiplication, productRule)
	r.AddBinary(BinaryAddition, linearRule)
	r.AddBinary(BinarySubtraction, linearRule)
	r.AddBinary(BinaryDivision, quotientRule)
	r.AddBinary(BinaryExponentiation, powerRule)

	r.AddUnary(UnaryAbs, nil)
	r.AddUnary(UnaryCeil, nil)
	r.AddUnary(UnaryCos, derivCos)
	r.AddUnary(UnaryCosh, derivCosh)
	r.AddUnary(UnaryFloor, nil)
	r.AddUnary(UnaryLn, derivLn)
	r.AddUnary(UnarySin, derivSin)
	r.AddUnary(UnarySinh, derivSinh)
	r.AddUnary(UnarySqrt, derivSqrt)
	r.AddUnary(UnaryTan, derivTan)
	r.AddUnary(UnaryTanh, derivTanh)

	return r
}

// AddBinary registers op. Symbols are kept longest first so that a multi-rune
// symbol wins over any single-rune prefix of it.
func (r *Registry) AddBinary(op *BinaryOperator, rule BinaryRule) {
	r.binary = append(r.binary, op)
	sort.SliceStable(r.binary, func(i, j int) bool {
		return len(r.binary[i].Symbol) > len(r.binary[j].Symbol)
	})

	r.binaryRules[op] = rule
}

// AddUnary registers op. Names are kept longest first so that "sinh" is tried
// before "sin".
func (r *Registry) AddUnary(op *UnaryOperator, rule UnaryRule) {
	r.unary = append(r.unary, op)
	sort.SliceStable(r.unary, func(i, j int) bool {
		if len(r.unary[i].Name) != len(r.unary[j].Name) {
			return len(r.unary[i].Name) > len(r.unary[j].Name)
		}

		return r.unary[i].Name < r.unary[j].Name
	})

	r.unaryRules[op] = rule
}

func (r *Registry) Binary(symbol string) *BinaryOperator {
	for _, op := range r.binary {
		if op.Symbol == symbol {
			return op
		}
	}

	return nil
}

func (r *Registry) Unary(name string) *UnaryOperator {
	for _, op := range r.unary {
		if op.Name == name {
			return op
		}
	}

	return nil
}

func (r *Registry) BinaryOperators() []*BinaryOperator {
	return append([]*BinaryOperator(nil), r.binary...)
}

func (r *Registry) UnaryOperators() []*UnaryOperator {
	return append([]*UnaryOperator(nil), r.unary...)
}

func (r *Registry) BinaryRule(op *BinaryOperator) BinaryRule {
	return r.binaryRules[op]
}

func (r *Registry) UnaryRule(op *UnaryOperator) UnaryRule {
	return r.unaryRules[op]
}

// binaryAt returns the operator whose symbol starts at s[i:], or nil.
func (r *Registry) binaryAt(s string, i int) *BinaryOperator {
	for _, op := range r.binary {
		if strings.HasPrefix(s[i:], op.Symbol) {
			return op
		}
	}

	return nil
}

// CheckNames rejects declared variables that would be read as an operator or
// that the lexer would not read as one identifier.
func (r *Registry) CheckNames(vars []string) error {
	for _, v := range vars {
		for _, op := range r.unary {
			if v == op.Name {
				return &NameCollisionError{Name: v, Operator: op.Name}
			}
		}

		for _, op := range r.binary {
			if strings.Contains(v, op.Symbol) {
				return &NameCollisionError{Name: v, Operator: op.Symbol}
			}
		}

		if !isIdentifier(v) {
			return &InvalidNameError{Name: v}
		}
	}

	return nil
}

// isIdentifier matches what identifierState reads.
func isIdentifier(s string) bool {
	for i, r := range s {
		if unicode.IsLetter(r) {
			continue
		}

		if i == 0 || !(unicode.IsDigit(r) || r == '_') {
			return false
		}
	}

	return s != ""
}
