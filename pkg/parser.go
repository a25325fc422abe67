package symdiff

import (
	"regexp"
	"strconv"
)

var constantPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Parser turns a fully bracketed string, as produced by PlaceBrackets, into
// an expression tree.
type Parser struct {
	registry *Registry
	vars     map[string]bool
}

// attempt tries to read s as one kind of node. ok is false when the attempt
// does not apply and the next one should be tried.
type attempt func(s string) (e Expr, ok bool, err error)

// NewParser builds a parser that accepts the given variables plus pi and e.
func NewParser(registry *Registry, vars []string) *Parser {
	p := &Parser{
		registry: registry,
		vars:     map[string]bool{ReservedPi: true, ReservedE: true},
	}

	for _, v := range vars {
		p.vars[v] = true
	}

	return p
}

func (p *Parser) Parse(s string) (Expr, error) {
	if s == "" {
		return nil, &ParseError{Fragment: s, Reason: "empty expression"}
	}

	if s[0] == '(' {
		c, err := CloseIndex(s, 0)
		if err != nil {
			return nil, err
		}

		if c == len(s)-1 {
			return p.Parse(s[1:c])
		}
	}

	for _, try := range []attempt{p.binary, p.unary, p.variable, p.constant} {
		e, ok, err := try(s)
		if err != nil {
			return nil, err
		}

		if ok {
			return e, nil
		}
	}

	return nil, &ParseError{Fragment: s}
}

// binary splits s at its first top-level operator.
func (p *Parser) binary(s string) (Expr, bool, error) {
	ops, err := p.registry.topLevel(s)
	if err != nil {
		return nil, false, err
	}

	if len(ops) == 0 {
		return nil, false, nil
	}

	first := ops[0]
	left, right := s[:first.index], s[first.index+len(first.op.Symbol):]
	if left == "" || right == "" {
		// A leading minus belongs to a constant
		return nil, false, nil
	}

	l, err := p.Parse(left)
	if err != nil {
		return nil, false, err
	}

	r, err := p.Parse(right)
	if err != nil {
		return nil, false, err
	}

	return &BinaryApp{Op: first.op, Left: l, Right: r}, true, nil
}

// unary reads "name(...)" where the bracket closes at the end of s.
func (p *Parser) unary(s string) (Expr, bool, error) {
	for _, op := range p.registry.unary {
		n := len(op.Name)
		if len(s) <= n || s[:n] != op.Name || s[n] != '(' {
			continue
		}

		c, err := CloseIndex(s, n)
		if err != nil {
			return nil, false, err
		}

		if c != len(s)-1 {
			continue
		}

		child, err := p.Parse(s[n:])
		if err != nil {
			return nil, false, err
		}

		return &UnaryApp{Op: op, Child: child}, true, nil
	}

	return nil, false, nil
}

func (p *Parser) variable(s string) (Expr, bool, error) {
	if !p.vars[s] {
		return nil, false, nil
	}

	return &Variable{Name: s}, true, nil
}

func (p *Parser) constant(s string) (Expr, bool, error) {
	if !constantPattern.MatchString(s) {
		return nil, false, nil
	}

	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return nil, false, &ParseError{Fragment: s, Reason: err.Error()}
	}

	return &Constant{Value: float32(v)}, true, nil
}
