package symdiff

import "fmt"

// Builder assembles new nodes from operators looked up by symbol in a
// registry. The first missing operator is kept in Err; later calls still
// return placeholder nodes so rules can be written without error checks.
type Builder struct {
	registry *Registry
	err      error
}

func NewBuilder(registry *Registry) *Builder {
	return &Builder{registry: registry}
}

func (b *Builder) Binary(symbol string, left, right Expr) Expr {
	op := b.registry.Binary(symbol)
	if op == nil {
		b.fail(symbol)
		return &Constant{}
	}

	return &BinaryApp{Op: op, Left: left, Right: right}
}

func (b *Builder) Unary(name string, child Expr) Expr {
	op := b.registry.Unary(name)
	if op == nil {
		b.fail(name)
		return &Constant{}
	}

	return &UnaryApp{Op: op, Child: child}
}

func (b *Builder) Const(v float32) Expr {
	return &Constant{Value: v}
}

func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(symbol string) {
	if b.err == nil {
		b.err = &MissingOperatorError{Symbol: symbol}
	}
}

// Deriver carries the differentiation variable while rules recurse.
type Deriver struct {
	registry *Registry
	variable string
}

func Differentiate(e Expr, variable string, registry *Registry) (Expr, error) {
	d := &Deriver{registry: registry, variable: variable}
	return d.Derive(e)
}

func (d *Deriver) Variable() string {
	return d.variable
}

func (d *Deriver) Builder() *Builder {
	return NewBuilder(d.registry)
}

func (d *Deriver) Derive(e Expr) (Expr, error) {
	switch n := e.(type) {
	case *Constant:
		return &Constant{Value: 0}, nil
	case *Variable:
		if n.Name == d.variable {
			return &Constant{Value: 1}, nil
		}

		return &Constant{Value: 0}, nil
	case *UnaryApp:
		rule := d.registry.UnaryRule(n.Op)
		if rule == nil {
			return nil, &UndifferentiableError{Operator: n.Op.Name}
		}

		return rule(d, n)
	case *BinaryApp:
		rule := d.registry.BinaryRule(n.Op)
		if rule == nil {
			return nil, &UndifferentiableError{Operator: n.Op.Symbol}
		}

		return rule(d, n)
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

func (d *Deriver) deriveBoth(e *BinaryApp) (Expr, Expr, error) {
	df, err := d.Derive(e.Left)
	if err != nil {
		return nil, nil, err
	}

	dg, err := d.Derive(e.Right)
	if err != nil {
		return nil, nil, err
	}

	return df, dg, nil
}

// (f ± g)' = f' ± g'
func linearRule(d *Deriver, e *BinaryApp) (Expr, error) {
	df, dg, err := d.deriveBoth(e)
	if err != nil {
		return nil, err
	}

	return &BinaryApp{Op: e.Op, Left: df, Right: dg}, nil
}

// (fg)' = f*g' + g*f'
func productRule(d *Deriver, e *BinaryApp) (Expr, error) {
	df, dg, err := d.deriveBoth(e)
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("+",
		b.Binary("*", Clone(e.Left), dg),
		b.Binary("*", Clone(e.Right), df),
	)

	return out, b.Err()
}

// (f/g)' = (g*f' - f*g') / g^2
func quotientRule(d *Deriver, e *BinaryApp) (Expr, error) {
	df, dg, err := d.deriveBoth(e)
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("/",
		b.Binary("-",
			b.Binary("*", Clone(e.Right), df),
			b.Binary("*", Clone(e.Left), dg),
		),
		b.Binary("^", Clone(e.Right), b.Const(2)),
	)

	return out, b.Err()
}

// (f^g)' = f^g * (g'*ln(f) + g*(f'/f)), valid for f > 0.
func powerRule(d *Deriver, e *BinaryApp) (Expr, error) {
	df, dg, err := d.deriveBoth(e)
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("*",
		Clone(e),
		b.Binary("+",
			b.Binary("*", dg, b.Unary("ln", Clone(e.Left))),
			b.Binary("*", Clone(e.Right), b.Binary("/", df, Clone(e.Left))),
		),
	)

	return out, b.Err()
}

// chainRule returns f' * outer(f).
func chainRule(d *Deriver, e *UnaryApp, outer string) (Expr, error) {
	df, err := d.Derive(e.Child)
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("*", df, b.Unary(outer, Clone(e.Child)))

	return out, b.Err()
}

func derivSin(d *Deriver, e *UnaryApp) (Expr, error) {
	return chainRule(d, e, "cos")
}

func derivCos(d *Deriver, e *UnaryApp) (Expr, error) {
	inner, err := chainRule(d, e, "sin")
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("*", inner, b.Const(-1))

	return out, b.Err()
}

func derivSinh(d *Deriver, e *UnaryApp) (Expr, error) {
	return chainRule(d, e, "cosh")
}

func derivCosh(d *Deriver, e *UnaryApp) (Expr, error) {
	return chainRule(d, e, "sinh")
}

// overSquare returns f' / outer(f)^2, the shape of the tan and tanh rules.
func overSquare(d *Deriver, e *UnaryApp, outer string) (Expr, error) {
	df, err := d.Derive(e.Child)
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("/", df, b.Binary("^", b.Unary(outer, Clone(e.Child)), b.Const(2)))

	return out, b.Err()
}

func derivTan(d *Deriver, e *UnaryApp) (Expr, error) {
	return overSquare(d, e, "cos")
}

func derivTanh(d *Deriver, e *UnaryApp) (Expr, error) {
	return overSquare(d, e, "cosh")
}

// ln(f)' = f'/f
func derivLn(d *Deriver, e *UnaryApp) (Expr, error) {
	df, err := d.Derive(e.Child)
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("/", df, Clone(e.Child))

	return out, b.Err()
}

// sqrt(f)' = f' / (2*sqrt(f))
func derivSqrt(d *Deriver, e *UnaryApp) (Expr, error) {
	df, err := d.Derive(e.Child)
	if err != nil {
		return nil, err
	}

	b := d.Builder()
	out := b.Binary("/", df, b.Binary("*", b.Const(2), Clone(e)))

	return out, b.Err()
}
