package symdiff

import (
	"fmt"
	"sort"
)

// SymbolTable holds the names visible inside a function body.
type SymbolTable struct {
	names map[string]bool
}

// NewGlobalSymbolTable holds the reserved constants.
func NewGlobalSymbolTable() *SymbolTable {
	t := NewSymbolTable()
	t.Add(ReservedPi)
	t.Add(ReservedE)

	return t
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{names: make(map[string]bool)}
}

func (t *SymbolTable) Add(name string) {
	t.names[name] = true
}

func (t *SymbolTable) Has(name string) bool {
	return t.names[name]
}

type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// UndefinedOperationError reports an operator node whose operator is not the
// one the registry holds under that symbol.
type UndefinedOperationError struct {
	Op string
}

func (e *UndefinedOperationError) Error() string {
	return fmt.Sprintf("operator %q is not defined in this registry", e.Op)
}

// Analyze checks a tree built outside the parser: every variable must be
// declared and every operator must come from reg. All problems are reported,
// each once, in a stable order.
func Analyze(root Expr, vars []string, reg *Registry) []error {
	stab := NewGlobalSymbolTable()
	for _, v := range vars {
		stab.Add(v)
	}

	var errs []error
	if err := reg.CheckNames(vars); err != nil {
		errs = append(errs, err)
	}

	undefined := make(map[string]bool)
	ops := make(map[string]bool)
	analyze(root, stab, reg, undefined, ops)

	for _, name := range sortedKeys(undefined) {
		errs = append(errs, &UndefinedError{Name: name})
	}

	for _, op := range sortedKeys(ops) {
		errs = append(errs, &UndefinedOperationError{Op: op})
	}

	return errs
}

func analyze(e Expr, stab *SymbolTable, reg *Registry, undefined, ops map[string]bool) {
	switch n := e.(type) {
	case *Variable:
		if !stab.Has(n.Name) {
			undefined[n.Name] = true
		}
	case *UnaryApp:
		if reg.Unary(n.Op.Name) != n.Op {
			ops[n.Op.Name] = true
		}

		analyze(n.Child, stab, reg, undefined, ops)
	case *BinaryApp:
		if reg.Binary(n.Op.Symbol) != n.Op {
			ops[n.Op.Symbol] = true
		}

		analyze(n.Left, stab, reg, undefined, ops)
		analyze(n.Right, stab, reg, undefined, ops)
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}
