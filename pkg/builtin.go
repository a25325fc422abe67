package symdiff

import (
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

const (
	piValue = float64(float32(math.Pi))
	eValue  = float64(float32(math.E))
)

type funcDefinition = func(mod *ir.Module) *ir.Func

// builtinDefinitions maps operator names to the declarations they lower to.
var builtinDefinitions = map[string]funcDefinition{
	"^":     declareFloatFunc("llvm.pow.f32", 2),
	"sin":   declareFloatFunc("sinf", 1),
	"cos":   declareFloatFunc("cosf", 1),
	"tan":   declareFloatFunc("tanf", 1),
	"sinh":  declareFloatFunc("sinhf", 1),
	"cosh":  declareFloatFunc("coshf", 1),
	"tanh":  declareFloatFunc("tanhf", 1),
	"ln":    declareFloatFunc("logf", 1),
	"sqrt":  declareFloatFunc("llvm.sqrt.f32", 1),
	"abs":   declareFloatFunc("llvm.fabs.f32", 1),
	"floor": declareFloatFunc("llvm.floor.f32", 1),
	"ceil":  declareFloatFunc("llvm.ceil.f32", 1),
}

func declareFloatFunc(symbol string, arity int) funcDefinition {
	return func(mod *ir.Module) *ir.Func {
		params := make([]*ir.Param, arity)
		for i := range params {
			params[i] = ir.NewParam("", types.Float)
		}

		return mod.NewFunc(symbol, types.Float, params...)
	}
}

// builtin declares the function behind an operator on first use.
func (b *LLVMIRBuilder) builtin(name string) (value.Value, bool) {
	if f, ok := b.builtins.Get(name); ok {
		return f, true
	}

	definition, ok := builtinDefinitions[name]
	if !ok {
		return nil, false
	}

	f := definition(b.mod)
	b.builtins.Set(name, f)

	return f, true
}
