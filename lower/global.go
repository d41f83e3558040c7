package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// setupGlobals pre-populates the global environment with the predeclared
// VERSION constant and declares the external, variadic printf function that
// (printf ...) forms call into. It runs once, at Generator construction, and
// the global environment it writes to has no parent.
func (gen *Generator) setupGlobals() {
	versionGlobal := gen.m.NewGlobalDef("VERSION", constant.NewInt(types.I32, version))
	versionGlobal.Align = 4
	gen.globalEnv.Define("VERSION", versionGlobal)

	printfType := types.NewPointer(types.I8)
	gen.printfFn = gen.m.NewFunc("printf", types.I32, ir.NewParam("", printfType))
	gen.printfFn.Sig.Variadic = true
}
