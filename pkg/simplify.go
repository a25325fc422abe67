package symdiff

// Rule is one algebraic rewrite. Rules only look at binary applications and
// recognize operators by symbol, so they work with any registry that provides
// the symbols they need.
type Rule struct {
	Name      string
	Match     func(e *BinaryApp) bool
	Transform func(b *Builder, e *BinaryApp) Expr
}

// defaultRules is the rewrite list in the order it is tried. The first
// matching rule wins and its result is simplified again.
var defaultRules = []Rule{
	{"zeroMult", matchZeroMult, func(b *Builder, e *BinaryApp) Expr { return b.Const(0) }},
	{"zeroAdd", matchZeroAdd, dropIdentity(0)},
	{"oneMult", matchOneMult, dropIdentity(1)},
	{"divOne", matchDivOne, func(b *Builder, e *BinaryApp) Expr { return Clone(e.Left) }},
	{"constsMult", matchFoldable("*"), fold},
	{"constsAdd", matchFoldable("+"), fold},
	{"mulIntoDivLeft", matchMulIntoDivLeft, mulIntoDivLeft},
	{"mulIntoDivRight", matchMulIntoDivRight, mulIntoDivRight},
	{"factor", matchFactor, factor},
	{"divCancel", matchDivCancel, divCancel},
}

const DefaultMaxRewrites = 10000

type Simplifier struct {
	registry *Registry
	rules    []Rule
	limit    int
	rewrites int
}

func NewSimplifier(registry *Registry, maxRewrites int) *Simplifier {
	if maxRewrites <= 0 {
		maxRewrites = DefaultMaxRewrites
	}

	return &Simplifier{
		registry: registry,
		rules:    append([]Rule(nil), defaultRules...),
		limit:    maxRewrites,
	}
}

func Simplify(e Expr, registry *Registry) (Expr, error) {
	return NewSimplifier(registry, DefaultMaxRewrites).Simplify(e)
}

// Rules returns a copy of the rewrite list in the order it is tried.
func (s *Simplifier) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// Rewrites is the number of rule applications performed by the last call to
// Simplify.
func (s *Simplifier) Rewrites() int {
	return s.rewrites
}

// Simplify rewrites e bottom-up until no rule matches any node. The input is
// left untouched. The rewrite limit applies to each call separately; a
// Simplifier must not be used by several goroutines at once.
func (s *Simplifier) Simplify(e Expr) (Expr, error) {
	s.rewrites = 0
	return s.simplify(e)
}

func (s *Simplifier) simplify(e Expr) (Expr, error) {
	switch n := e.(type) {
	case *UnaryApp:
		child, err := s.simplify(n.Child)
		if err != nil {
			return nil, err
		}

		return &UnaryApp{Op: n.Op, Child: child}, nil
	case *BinaryApp:
		left, err := s.simplify(n.Left)
		if err != nil {
			return nil, err
		}

		right, err := s.simplify(n.Right)
		if err != nil {
			return nil, err
		}

		return s.rewrite(&BinaryApp{Op: n.Op, Left: left, Right: right})
	default:
		return Clone(e), nil
	}
}

func (s *Simplifier) rewrite(e *BinaryApp) (Expr, error) {
	for _, rule := range s.rules {
		if !rule.Match(e) {
			continue
		}

		s.rewrites++
		if s.rewrites > s.limit {
			return nil, &RewriteLimitError{Limit: s.limit}
		}

		b := NewBuilder(s.registry)
		out := rule.Transform(b, e)
		if err := b.Err(); err != nil {
			return nil, err
		}

		return s.simplify(out)
	}

	return e, nil
}

func isConstant(e Expr, v float32) bool {
	c, ok := e.(*Constant)
	return ok && c.Value == v
}

func isOp(e Expr, symbol string) (*BinaryApp, bool) {
	b, ok := e.(*BinaryApp)
	if !ok || b.Op.Symbol != symbol {
		return nil, false
	}

	return b, true
}

func matchZeroMult(e *BinaryApp) bool {
	return e.Op.Symbol == "*" && (isConstant(e.Left, 0) || isConstant(e.Right, 0))
}

func matchZeroAdd(e *BinaryApp) bool {
	return e.Op.Symbol == "+" && (isConstant(e.Left, 0) || isConstant(e.Right, 0))
}

func matchOneMult(e *BinaryApp) bool {
	return e.Op.Symbol == "*" && (isConstant(e.Left, 1) || isConstant(e.Right, 1))
}

func matchDivOne(e *BinaryApp) bool {
	return e.Op.Symbol == "/" && isConstant(e.Right, 1)
}

// dropIdentity keeps the operand that is not the identity element v.
func dropIdentity(v float32) func(*Builder, *BinaryApp) Expr {
	return func(b *Builder, e *BinaryApp) Expr {
		if isConstant(e.Left, v) {
			return Clone(e.Right)
		}

		return Clone(e.Left)
	}
}

func matchFoldable(symbol string) func(*BinaryApp) bool {
	return func(e *BinaryApp) bool {
		_, l := e.Left.(*Constant)
		_, r := e.Right.(*Constant)

		return e.Op.Symbol == symbol && l && r
	}
}

func fold(b *Builder, e *BinaryApp) Expr {
	l, r := e.Left.(*Constant), e.Right.(*Constant)
	return b.Const(e.Op.Eval(l.Value, r.Value))
}

func matchMulIntoDivLeft(e *BinaryApp) bool {
	_, ok := isOp(e.Right, "/")
	return e.Op.Symbol == "*" && ok
}

// a * (b/c) = (a*b) / c
func mulIntoDivLeft(b *Builder, e *BinaryApp) Expr {
	div := e.Right.(*BinaryApp)
	return b.Binary("/", b.Binary("*", Clone(e.Left), Clone(div.Left)), Clone(div.Right))
}

func matchMulIntoDivRight(e *BinaryApp) bool {
	_, ok := isOp(e.Left, "/")
	return e.Op.Symbol == "*" && ok
}

// (a/b) * c = (a*c) / b
func mulIntoDivRight(b *Builder, e *BinaryApp) Expr {
	div := e.Left.(*BinaryApp)
	return b.Binary("/", b.Binary("*", Clone(div.Left), Clone(e.Right)), Clone(div.Right))
}

// significant drops the constants 0 and 1, which are never worth pulling out.
func significant(factors []Expr) []Expr {
	var out []Expr
	for _, f := range factors {
		if isConstant(f, 0) || isConstant(f, 1) {
			continue
		}

		out = append(out, f)
	}

	return out
}

func matchFactor(e *BinaryApp) bool {
	if e.Op.Symbol != "+" && e.Op.Symbol != "-" {
		return false
	}

	return len(significant(CommonFactors(e))) > 0
}

// factor pulls the common factors of a sum or difference out front:
// x*4 + x*5 becomes x*(4+5).
func factor(b *Builder, e *BinaryApp) Expr {
	rest, pulled := cancelAll(e, significant(CommonFactors(e)))
	if len(pulled) == 0 {
		return Clone(e)
	}

	return b.Binary("*", product(b, pulled), rest)
}

func matchDivCancel(e *BinaryApp) bool {
	if e.Op.Symbol != "/" {
		return false
	}

	return len(sharedFactors(e)) > 0
}

func sharedFactors(e *BinaryApp) []Expr {
	return significant(intersectFactors(CommonFactors(e.Left), CommonFactors(e.Right)))
}

// divCancel removes the factors shared by numerator and denominator.
func divCancel(b *Builder, e *BinaryApp) Expr {
	num, den := Expr(e.Left), Expr(e.Right)
	for _, f := range sharedFactors(e) {
		n, ok := cancelOne(num, f)
		if !ok {
			continue
		}

		d, ok := cancelOne(den, f)
		if !ok {
			continue
		}

		num, den = n, d
	}

	return b.Binary("/", Clone(num), Clone(den))
}

// cancelAll divides e by each factor in turn, returning the quotient and the
// factors that could be removed.
func cancelAll(e Expr, factors []Expr) (Expr, []Expr) {
	var pulled []Expr
	for _, f := range factors {
		if next, ok := cancelOne(e, f); ok {
			e = next
			pulled = append(pulled, f)
		}
	}

	return Clone(e), pulled
}

// cancelOne divides e by f, touching only positions where f multiplies the
// rest of e: the whole of e, one side of a product, both sides of a sum or a
// difference, or the base of a power with a constant exponent above one.
func cancelOne(e, f Expr) (Expr, bool) {
	if Equal(e, f) {
		return &Constant{Value: 1}, true
	}

	n, ok := e.(*BinaryApp)
	if !ok {
		return nil, false
	}

	switch n.Op.Symbol {
	case "*":
		if l, ok := cancelOne(n.Left, f); ok {
			return &BinaryApp{Op: n.Op, Left: l, Right: n.Right}, true
		}

		if r, ok := cancelOne(n.Right, f); ok {
			return &BinaryApp{Op: n.Op, Left: n.Left, Right: r}, true
		}
	case "+", "-":
		l, ok := cancelOne(n.Left, f)
		if !ok {
			return nil, false
		}

		r, ok := cancelOne(n.Right, f)
		if !ok {
			return nil, false
		}

		return &BinaryApp{Op: n.Op, Left: l, Right: r}, true
	case "^":
		c, ok := n.Right.(*Constant)
		if !ok || c.Value <= 1 || !Equal(n.Left, f) {
			return nil, false
		}

		if c.Value == 2 {
			return n.Left, true
		}

		return &BinaryApp{Op: n.Op, Left: n.Left, Right: &Constant{Value: c.Value - 1}}, true
	}

	return nil, false
}

func product(b *Builder, factors []Expr) Expr {
	out := Clone(factors[0])
	for _, f := range factors[1:] {
		out = b.Binary("*", out, Clone(f))
	}

	return out
}
