package symdiff

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// LLVMIRBuilder lowers functions to single-precision LLVM IR, one
// "define float" per function with one float parameter per variable.
type LLVMIRBuilder struct {
	mod      *ir.Module
	block    *ir.Block
	globals  *ValueLookup
	values   *ValueLookup
	builtins *ValueLookup
	funcs    *ValueLookup
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		mod:      ir.NewModule(),
		globals:  NewValueLookup(),
		builtins: NewValueLookup(),
		funcs:    NewValueLookup(),
	}

	builder.globals.Set(ReservedPi, constant.NewFloat(types.Float, piValue))
	builder.globals.Set(ReservedE, constant.NewFloat(types.Float, eValue))
	builder.values = builder.globals

	return builder
}

func (b *LLVMIRBuilder) Module() *ir.Module {
	return b.mod
}

func (b *LLVMIRBuilder) Function(f *Function) (*ir.Func, error) {
	if errs := Analyze(f.Root, f.Vars, f.interpreter().Registry()); len(errs) > 0 {
		return nil, errs[0]
	}

	params := make([]*ir.Param, len(f.Vars))
	for i, v := range f.Vars {
		params[i] = ir.NewParam(v, types.Float)
	}

	name, err := b.functionName(f)
	if err != nil {
		return nil, err
	}

	fn := b.mod.NewFunc(name, types.Float, params...)
	b.funcs.Set(name, fn)

	prevBlock := b.block
	b.block = fn.NewBlock("")

	prevVals := b.values
	b.values = NewValueLookup()
	b.values.Inherit(prevVals)

	defer func() {
		b.block = prevBlock
		b.values = prevVals
	}()

	for _, p := range params {
		b.values.Set(p.Name(), p)
	}

	v, ins, err := b.load(f.Root)
	if err != nil {
		return nil, err
	}

	b.block.Insts = append(b.block.Insts, ins...)
	b.block.NewRet(v)

	return fn, nil
}

// functionName picks the symbol for f. Names must be unique in a module;
// unnamed functions take "f", then "f1", "f2" and so on.
func (b *LLVMIRBuilder) functionName(f *Function) (string, error) {
	if f.Name != "" {
		if _, ok := b.funcs.Get(f.Name); ok {
			return "", &LoweringError{Reason: fmt.Sprintf("function %q is defined twice", f.Name)}
		}

		return f.Name, nil
	}

	name := f.label()
	for i := 1; ; i++ {
		if _, ok := b.funcs.Get(name); !ok {
			return name, nil
		}

		name = fmt.Sprintf("%s%d", f.label(), i)
	}
}

func (b *LLVMIRBuilder) load(expr Expr) (value.Value, []ir.Instruction, error) {
	switch e := expr.(type) {
	case *Constant:
		return constant.NewFloat(types.Float, float64(e.Value)), nil, nil
	case *Variable:
		v, ok := b.values.Get(e.Name)
		if !ok {
			return nil, nil, &LoweringError{Reason: fmt.Sprintf("undefined variable %q", e.Name)}
		}

		return v, nil, nil
	case *UnaryApp:
		return b.unaryExpression(e)
	case *BinaryApp:
		return b.binaryExpression(e)
	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryApp) (value.Value, []ir.Instruction, error) {
	v1, i1, err := b.load(expr.Left)
	if err != nil {
		return nil, nil, err
	}

	v2, i2, err := b.load(expr.Right)
	if err != nil {
		return nil, nil, err
	}

	ins := append(i1, i2...)

	switch expr.Op.Symbol {
	case "+":
		op := ir.NewFAdd(v1, v2)
		return op, append(ins, op), nil
	case "-":
		op := ir.NewFSub(v1, v2)
		return op, append(ins, op), nil
	case "*":
		op := ir.NewFMul(v1, v2)
		return op, append(ins, op), nil
	case "/":
		op := ir.NewFDiv(v1, v2)
		return op, append(ins, op), nil
	case "%":
		op := ir.NewFRem(v1, v2)
		return op, append(ins, op), nil
	}

	callee, ok := b.builtin(expr.Op.Symbol)
	if !ok {
		return nil, nil, &LoweringError{Reason: "no instruction for operator " + expr.Op.Symbol}
	}

	call := ir.NewCall(callee, v1, v2)
	return call, append(ins, call), nil
}

func (b *LLVMIRBuilder) unaryExpression(expr *UnaryApp) (value.Value, []ir.Instruction, error) {
	v, ins, err := b.load(expr.Child)
	if err != nil {
		return nil, nil, err
	}

	callee, ok := b.builtin(expr.Op.Name)
	if !ok {
		return nil, nil, &LoweringError{Reason: "no libm function for " + expr.Op.Name}
	}

	call := ir.NewCall(callee, v)
	return call, append(ins, call), nil
}

// Lower emits one LLVM function per argument into a fresh module.
func Lower(fs ...*Function) (*ir.Module, error) {
	builder := NewLLVMIRBuilder()
	for _, f := range fs {
		if _, err := builder.Function(f); err != nil {
			return nil, errors.Wrapf(err, "lower %s", f.label())
		}
	}

	return builder.Module(), nil
}
