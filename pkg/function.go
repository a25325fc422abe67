package symdiff

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	// Registry is the operator catalog. Nil selects StandardRegistry.
	Registry *Registry
	// MaxDepth bounds the bracket nesting written in the input.
	MaxDepth int
	// MaxTreeDepth bounds the nesting once every operator is bracketed. Equal
	// ranks group to the right, so a chain of n terms nests n-1 levels deep.
	MaxTreeDepth int
	// MaxRewrites bounds the rule applications of one simplification.
	MaxRewrites int
	// ImplicitMultiplication turns "4x" into "4*x" before parsing.
	ImplicitMultiplication bool
}

const (
	DefaultMaxDepth     = 256
	DefaultMaxTreeDepth = 4096
)

func DefaultConfig() Config {
	return Config{
		Registry:               StandardRegistry(),
		MaxDepth:               DefaultMaxDepth,
		MaxTreeDepth:           DefaultMaxTreeDepth,
		MaxRewrites:            DefaultMaxRewrites,
		ImplicitMultiplication: true,
	}
}

// Interpreter runs the text pipeline: whitespace removal, bracket checks,
// implicit multiplication, bracketing and parsing.
type Interpreter struct {
	cfg Config
}

func NewInterpreter(cfg Config) *Interpreter {
	if cfg.Registry == nil {
		cfg.Registry = StandardRegistry()
	}

	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}

	if cfg.MaxTreeDepth <= 0 {
		cfg.MaxTreeDepth = DefaultMaxTreeDepth
	}

	if cfg.MaxRewrites <= 0 {
		cfg.MaxRewrites = DefaultMaxRewrites
	}

	return &Interpreter{cfg: cfg}
}

func (in *Interpreter) Registry() *Registry {
	return in.cfg.Registry
}

// ParseExpr parses s with the given variables declared. pi and e are always
// declared.
func (in *Interpreter) ParseExpr(s string, vars ...string) (Expr, error) {
	reg := in.cfg.Registry
	if err := reg.CheckNames(vars); err != nil {
		return nil, err
	}

	s = strings.Join(strings.Fields(s), "")
	if err := CheckBalance(s); err != nil {
		return nil, err
	}

	if d := NestingDepth(s); d > in.cfg.MaxDepth {
		return nil, &NestingDepthError{Depth: d, Max: in.cfg.MaxDepth}
	}

	var err error
	if in.cfg.ImplicitMultiplication {
		declared := append([]string{ReservedPi, ReservedE}, vars...)
		if s, err = InsertMultiplication(s, reg, declared); err != nil {
			return nil, err
		}
	}

	if s, err = RemoveSuperfluousBrackets(s); err != nil {
		return nil, err
	}

	if s, err = PlaceBrackets(s, reg); err != nil {
		return nil, err
	}

	if d := NestingDepth(s); d > in.cfg.MaxTreeDepth {
		return nil, &NestingDepthError{Depth: d, Max: in.cfg.MaxTreeDepth, Bracketed: true}
	}

	return NewParser(reg, vars).Parse(s)
}

// Parse reads a named function of vars. An empty name displays the bare
// expression.
func (in *Interpreter) Parse(name, s string, vars ...string) (*Function, error) {
	root, err := in.ParseExpr(s, vars...)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", s)
	}

	return &Function{
		Name:   name,
		Vars:   append([]string(nil), vars...),
		Root:   root,
		interp: in,
	}, nil
}

// Function is a parsed expression together with its declared variables.
type Function struct {
	Name string
	Vars []string
	Root Expr

	interp *Interpreter
}

// NewFunction wraps an existing tree. A nil interpreter uses DefaultConfig.
func NewFunction(name string, vars []string, root Expr, in *Interpreter) *Function {
	return &Function{Name: name, Vars: vars, Root: root, interp: in}
}

func (f *Function) String() string {
	if f.Name == "" {
		return f.Root.String()
	}

	return f.Name + "(" + strings.Join(f.Vars, ", ") + ") = " + f.Root.String()
}

func (f *Function) Evaluate(b Bindings) (float32, error) {
	return Evaluate(f.Root, b)
}

// At evaluates the function with values bound to Vars in order and formats
// the call as "f(0.25) = 1.00".
func (f *Function) At(values ...float32) (string, error) {
	if len(values) != len(f.Vars) {
		return "", errors.Errorf("%s takes %d values, got %d", f.label(), len(f.Vars), len(values))
	}

	b := make(Bindings, len(values))
	args := make([]string, len(values))
	for i, v := range values {
		b[f.Vars[i]] = v
		args[i] = FormatValue(v)
	}

	v, err := f.Evaluate(b)
	if err != nil {
		return "", errors.Wrapf(err, "evaluate %s", f.label())
	}

	return f.label() + "(" + strings.Join(args, ", ") + ") = " + FormatValue(v), nil
}

func (f *Function) interpreter() *Interpreter {
	if f.interp == nil {
		return defaultInterpreter
	}

	return f.interp
}

func (f *Function) label() string {
	if f.Name == "" {
		return "f"
	}

	return f.Name
}

// Differentiate returns the derivative with respect to variable. The result
// is not simplified.
func (f *Function) Differentiate(variable string) (*Function, error) {
	root, err := Differentiate(f.Root, variable, f.interpreter().cfg.Registry)
	if err != nil {
		return nil, errors.Wrapf(err, "differentiate %s by %s", f.label(), variable)
	}

	return NewFunction(f.derivativeName(variable), f.Vars, root, f.interpreter()), nil
}

func (f *Function) derivativeName(variable string) string {
	if f.Name == "" {
		return ""
	}

	if len(f.Vars) <= 1 {
		return f.Name + "'"
	}

	return "d" + f.Name + "/d" + variable
}

func (f *Function) Simplify() (*Function, error) {
	root, err := NewSimplifier(f.interpreter().cfg.Registry, f.interpreter().cfg.MaxRewrites).Simplify(f.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "simplify %s", f.label())
	}

	return NewFunction(f.Name, f.Vars, root, f.interpreter()), nil
}

// Gradient returns the simplified partial derivatives, one per declared
// variable.
func (f *Function) Gradient() ([]*Function, error) {
	grad := make([]*Function, 0, len(f.Vars))
	for _, v := range f.Vars {
		d, err := f.Differentiate(v)
		if err != nil {
			return nil, err
		}

		if d, err = d.Simplify(); err != nil {
			return nil, err
		}

		grad = append(grad, d)
	}

	return grad, nil
}

// FormatValue renders v with two decimals.
func FormatValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}

var defaultInterpreter = NewInterpreter(DefaultConfig())

// Parse reads an unnamed expression with the default configuration.
func Parse(s string, vars ...string) (*Function, error) {
	return defaultInterpreter.Parse("", s, vars...)
}
