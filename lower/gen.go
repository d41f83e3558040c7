// Package lower implements the Eva lowering engine: the recursive walker
// that consumes a parsed ast.Node tree and emits verifier-clean LLVM IR
// through github.com/llir/llvm, together with the lexical environment and
// type discipline that back it.
package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"eva/ast"
	"eva/env"
)

// version is the value of the predeclared VERSION global.
const version = 44

// Generator owns the LLVM IR module being built and the state of the
// function currently being lowered. A Generator lowers exactly one Eva
// program; construct a fresh one per compilation.
type Generator struct {
	// eh is invoked for every lowering error (unbound names, malformed
	// forms, verifier failures). UnknownType warnings do not pass through
	// eh; resolveType reports them via diag.Warn directly. Fatal
	// diagnostics are expected to terminate the process; the generator
	// itself never recovers from one and may leave the module partially
	// built if eh returns.
	eh func(error)

	// m is the LLVM IR module being generated.
	m *ir.Module

	// globalEnv is the root of the environment chain, created once and
	// outliving every child scope.
	globalEnv *env.Environment

	// funcs indexes functions already created in m by name, so that
	// `(def f ...)` redefinitions reuse the existing prototype rather than
	// redeclaring it. Calls resolve their callee through the environment
	// only, so a call to a function not yet defined is an unbound name.
	funcs map[string]*ir.Func

	// printfFn is the external, variadic printf declaration installed by
	// the global initializer.
	printfFn *ir.Func

	// curFn and cur track the function and basic block the walker is
	// currently emitting into. allocEntry bypasses cur and always targets
	// curFn's entry block directly.
	curFn *ir.Func
	cur   *ir.Block
}

// NewGenerator returns a Generator ready to lower a single Eva program. eh
// is invoked for every lowering error encountered during lowering.
func NewGenerator(eh func(error)) *Generator {
	gen := &Generator{
		eh:    eh,
		m:     ir.NewModule(),
		funcs: make(map[string]*ir.Func),
	}
	gen.globalEnv = env.New()
	gen.setupGlobals()
	return gen
}

// Lower lowers the top-level Eva form (the driver always supplies a `begin`
// list wrapping the whole program) into a `main` function returning i32 0,
// and returns the completed module.
func (gen *Generator) Lower(program ast.Node) *ir.Module {
	fn := gen.createFunction("main", types.I32, nil, gen.globalEnv)

	if _, err := gen.lowerExpr(program, gen.globalEnv); err != nil {
		gen.eh(err)
	}

	gen.cur.NewRet(constant.NewInt(types.I32, 0))

	if err := verifyFunc(fn); err != nil {
		gen.eh(err)
	}
	return gen.m
}

// Module returns the module under construction. Exposed chiefly for tests
// that want to inspect IR before Lower's final verification pass.
func (gen *Generator) Module() *ir.Module {
	return gen.m
}
