package symdiff

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// exprNode is the YAML shape of a tree. Exactly one of Const, Var or Op is
// set; Op nodes carry one argument for a function and two for an operator.
type exprNode struct {
	Const *float32    `yaml:"const,omitempty"`
	Var   string      `yaml:"var,omitempty"`
	Op    string      `yaml:"op,omitempty"`
	Args  []*exprNode `yaml:"args,omitempty"`
}

type functionNode struct {
	Name    string    `yaml:"name,omitempty"`
	Vars    []string  `yaml:"vars,omitempty"`
	Display string    `yaml:"display,omitempty"`
	Expr    *exprNode `yaml:"expr"`
}

func toNode(e Expr) *exprNode {
	switch n := e.(type) {
	case *Constant:
		v := n.Value
		return &exprNode{Const: &v}
	case *Variable:
		return &exprNode{Var: n.Name}
	case *UnaryApp:
		return &exprNode{Op: n.Op.Name, Args: []*exprNode{toNode(n.Child)}}
	case *BinaryApp:
		return &exprNode{Op: n.Op.Symbol, Args: []*exprNode{toNode(n.Left), toNode(n.Right)}}
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}

func (n *exprNode) toExpr(reg *Registry) (Expr, error) {
	if n == nil {
		return nil, &ParseError{Reason: "missing expression"}
	}

	set := 0
	for _, present := range []bool{n.Const != nil, n.Var != "", n.Op != ""} {
		if present {
			set++
		}
	}

	if set != 1 {
		return nil, &ParseError{Fragment: fmt.Sprintf("%+v", *n), Reason: "node needs exactly one of const, var or op"}
	}

	switch {
	case n.Const != nil:
		return &Constant{Value: *n.Const}, nil
	case n.Var != "":
		return &Variable{Name: n.Var}, nil
	}

	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		e, err := a.toExpr(reg)
		if err != nil {
			return nil, err
		}

		args[i] = e
	}

	switch len(args) {
	case 1:
		op := reg.Unary(n.Op)
		if op == nil {
			return nil, &MissingOperatorError{Symbol: n.Op}
		}

		return &UnaryApp{Op: op, Child: args[0]}, nil
	case 2:
		op := reg.Binary(n.Op)
		if op == nil {
			return nil, &MissingOperatorError{Symbol: n.Op}
		}

		return &BinaryApp{Op: op, Left: args[0], Right: args[1]}, nil
	default:
		return nil, &ParseError{Fragment: n.Op, Reason: fmt.Sprintf("%d arguments", len(args))}
	}
}

func MarshalExpr(e Expr) ([]byte, error) {
	return yaml.Marshal(toNode(e))
}

// UnmarshalExpr decodes a tree, resolving operators through reg.
func UnmarshalExpr(data []byte, reg *Registry) (Expr, error) {
	var n exprNode
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "decode expression")
	}

	e, err := n.toExpr(reg)
	if err != nil {
		return nil, errors.Wrap(err, "decode expression")
	}

	return e, nil
}

// MarshalFunction encodes f together with its display form.
func MarshalFunction(f *Function) ([]byte, error) {
	return yaml.Marshal(&functionNode{
		Name:    f.Name,
		Vars:    f.Vars,
		Display: f.String(),
		Expr:    toNode(f.Root),
	})
}

// UnmarshalFunction decodes a function. The display field is informational
// and ignored.
func UnmarshalFunction(data []byte, in *Interpreter) (*Function, error) {
	if in == nil {
		in = defaultInterpreter
	}

	var n functionNode
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "decode function")
	}

	root, err := n.Expr.toExpr(in.Registry())
	if err != nil {
		return nil, errors.Wrapf(err, "decode function %q", n.Name)
	}

	if errs := Analyze(root, n.Vars, in.Registry()); len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "decode function %q", n.Name)
	}

	return NewFunction(n.Name, n.Vars, root, in), nil
}
