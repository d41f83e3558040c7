package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"eva/env"
)

// createFunction returns the function named name, reusing its existing
// prototype if one was already created in this module (in which case
// retType and params are ignored), and otherwise creating a new one and
// binding name to it in e. Either way a fresh entry basic block is created
// and the primary cursor is pointed at it, ready for a body to be lowered
// into.
func (gen *Generator) createFunction(name string, retType types.Type, params []*ir.Param, e *env.Environment) *ir.Func {
	fn, ok := gen.funcs[name]
	if !ok {
		fn = gen.m.NewFunc(name, retType, params...)
		gen.funcs[name] = fn
		e.Define(name, fn)
	}

	entry := fn.NewBlock("entry")
	gen.curFn = fn
	gen.cur = entry
	return fn
}

// newDanglingBlock returns a basic block that is not yet appended to any
// function. Control-flow forms (if, while) need to create successor blocks
// before lowering into them, so they can inspect the block the walker
// leaves cur pointing at once the predecessor's body has been lowered.
func newDanglingBlock(name string) *ir.Block {
	return ir.NewBlock(name)
}

// appendBlock appends a dangling block (see newDanglingBlock) to fn.
func appendBlock(fn *ir.Func, b *ir.Block) {
	fn.Blocks = append(fn.Blocks, b)
}

// allocEntry allocates a stack slot of type typ in the current function's
// entry block, regardless of where the primary cursor (gen.cur) currently
// points. Every alloca must dominate every use, which for a function's
// mutable locals means living in the entry block.
func (gen *Generator) allocEntry(typ types.Type) *ir.InstAlloca {
	entry := gen.curFn.Blocks[0]
	alloc := ir.NewAlloca(typ)
	entry.Insts = append([]ir.Instruction{alloc}, entry.Insts...)
	return alloc
}
