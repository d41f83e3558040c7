package lower

import (
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"eva/ast"
	"eva/env"
)

// lowerExpr lowers one Eva AST node to LLVM IR, emitting into gen.cur, and
// returns the value the node evaluates to. e is the environment names in
// node resolve through.
func (gen *Generator) lowerExpr(node ast.Node, e *env.Environment) (value.Value, error) {
	switch node := node.(type) {
	case ast.Number:
		return constant.NewInt(types.I32, int64(node.Value)), nil
	case ast.String:
		return gen.internString(unescape(node.Value)), nil
	case ast.Bool:
		return constant.NewBool(node.Value), nil
	case ast.Symbol:
		return gen.lowerSymbol(node, e)
	case ast.List:
		return gen.lowerList(node, e)
	default:
		return nil, malformed("unsupported AST node %T", node)
	}
}

// unescape rewrites the textual two-byte sequence `\n` to a single newline
// byte, the sole escape sequence the lowerer processes. Any other backslash
// sequence is left untouched.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// internString returns an i8* pointing at a private, module-level constant
// holding s plus a trailing NUL.
func (gen *Generator) internString(s string) value.Value {
	raw := s + "\x00"
	g := gen.m.NewGlobalDef("", constant.NewCharArrayFromString(raw))
	g.Linkage = enum.LinkagePrivate
	zero := constant.NewInt(types.I32, 0)
	gep := constant.NewGetElementPtr(types.NewArray(uint64(len(raw)), types.I8), g, zero, zero)
	gep.InBounds = true
	return gep
}

// lowerSymbol resolves a bare identifier reference. A local slot or global
// is loaded; a function handle is returned verbatim.
func (gen *Generator) lowerSymbol(sym ast.Symbol, e *env.Environment) (value.Value, error) {
	handle, err := e.Lookup(sym.Name)
	if err != nil {
		return nil, unbound("%v", err)
	}
	switch handle := handle.(type) {
	case *ir.InstAlloca, *ir.Global:
		elemType := handle.Type().(*types.PointerType).ElemType
		return gen.cur.NewLoad(elemType, handle), nil
	case *ir.Func:
		return handle, nil
	default:
		return nil, malformed("symbol %q resolved to unsupported handle %T", sym.Name, handle)
	}
}

// lowerList dispatches a compound form by its head symbol, falling back to
// a function call for any Symbol-headed list that isn't a known form.
func (gen *Generator) lowerList(list ast.List, e *env.Environment) (value.Value, error) {
	tag, ok := list.Tag()
	if !ok {
		return nil, malformed("list %v must have a symbol head", list)
	}
	args := list.Args()
	switch tag {
	case "var":
		return gen.lowerVar(args, e)
	case "set":
		return gen.lowerSet(args, e)
	case "begin":
		return gen.lowerBegin(args, e)
	case "if":
		return gen.lowerIf(args, e)
	case "while":
		return gen.lowerWhile(args, e)
	case "+", "-", "*", "/":
		return gen.lowerArith(tag, args, e)
	case "==", "!=", "<", "<=", ">", ">=":
		return gen.lowerCompare(tag, args, e)
	case "def":
		return gen.lowerDef(args, e)
	case "printf":
		return gen.lowerPrintf(args, e)
	default:
		return gen.lowerCall(tag, args, e)
	}
}

// lowerVar implements `(var decl init)`.
func (gen *Generator) lowerVar(args []ast.Node, e *env.Environment) (value.Value, error) {
	if len(args) != 2 {
		return nil, malformed("(var decl init) takes exactly 2 arguments, got %d", len(args))
	}
	decl, initExpr := args[0], args[1]

	init, err := gen.lowerExpr(initExpr, e)
	if err != nil {
		return nil, err
	}
	name, err := declName(decl)
	if err != nil {
		return nil, err
	}
	typ, err := gen.declType(decl)
	if err != nil {
		return nil, err
	}

	slot := gen.allocEntry(typ)
	e.Define(name, slot)
	gen.cur.NewStore(init, slot)
	return init, nil
}

// lowerSet implements `(set name rhs)`.
func (gen *Generator) lowerSet(args []ast.Node, e *env.Environment) (value.Value, error) {
	if len(args) != 2 {
		return nil, malformed("(set name rhs) takes exactly 2 arguments, got %d", len(args))
	}
	sym, ok := args[0].(ast.Symbol)
	if !ok {
		return nil, malformed("(set name rhs) requires a symbol name, got %v", args[0])
	}
	rhs, err := gen.lowerExpr(args[1], e)
	if err != nil {
		return nil, err
	}
	slot, err := e.Lookup(sym.Name)
	if err != nil {
		return nil, unbound("%v", err)
	}
	gen.cur.NewStore(rhs, slot)
	return rhs, nil
}

// lowerBegin implements `(begin e1 ... en)`.
func (gen *Generator) lowerBegin(args []ast.Node, e *env.Environment) (value.Value, error) {
	child := e.NewChild()
	var result value.Value = constant.NewInt(types.I32, 0)
	for _, expr := range args {
		v, err := gen.lowerExpr(expr, child)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// lowerIf implements `(if c t e)`. The block that feeds the join phi is
// whatever block cur points to once a branch has been lowered, which may
// not be the block the branch started in — a nested if inside the
// then-branch, for example, leaves cur somewhere past the original "then"
// block by the time it returns.
func (gen *Generator) lowerIf(args []ast.Node, e *env.Environment) (value.Value, error) {
	if len(args) != 3 {
		return nil, malformed("(if c t e) takes exactly 3 arguments, got %d", len(args))
	}
	condExpr, thenExpr, elseExpr := args[0], args[1], args[2]

	cond, err := gen.lowerExpr(condExpr, e)
	if err != nil {
		return nil, err
	}
	if !types.Equal(cond.Type(), types.I1) {
		return nil, malformed("if condition must be i1, got %v", cond.Type())
	}

	thenBlock := gen.curFn.NewBlock("then")
	elseBlock := newDanglingBlock("else")
	ifEnd := newDanglingBlock("ifend")

	gen.cur.NewCondBr(cond, thenBlock, elseBlock)

	gen.cur = thenBlock
	thenVal, err := gen.lowerExpr(thenExpr, e)
	if err != nil {
		return nil, err
	}
	gen.cur.NewBr(ifEnd)
	thenEnd := gen.cur

	appendBlock(gen.curFn, elseBlock)
	gen.cur = elseBlock
	elseVal, err := gen.lowerExpr(elseExpr, e)
	if err != nil {
		return nil, err
	}
	gen.cur.NewBr(ifEnd)
	elseEnd := gen.cur

	appendBlock(gen.curFn, ifEnd)
	gen.cur = ifEnd

	return gen.cur.NewPhi(
		ir.NewIncoming(thenVal, thenEnd),
		ir.NewIncoming(elseVal, elseEnd),
	), nil
}

// lowerWhile implements `(while c body)`.
func (gen *Generator) lowerWhile(args []ast.Node, e *env.Environment) (value.Value, error) {
	if len(args) != 2 {
		return nil, malformed("(while c body) takes exactly 2 arguments, got %d", len(args))
	}
	condExpr, bodyExpr := args[0], args[1]

	condBlock := gen.curFn.NewBlock("cond")
	bodyBlock := newDanglingBlock("body")
	loopEnd := newDanglingBlock("loopend")

	gen.cur.NewBr(condBlock)

	gen.cur = condBlock
	cond, err := gen.lowerExpr(condExpr, e)
	if err != nil {
		return nil, err
	}
	if !types.Equal(cond.Type(), types.I1) {
		return nil, malformed("while condition must be i1, got %v", cond.Type())
	}
	gen.cur.NewCondBr(cond, bodyBlock, loopEnd)

	appendBlock(gen.curFn, bodyBlock)
	gen.cur = bodyBlock
	if _, err := gen.lowerExpr(bodyExpr, e); err != nil {
		return nil, err
	}
	gen.cur.NewBr(condBlock)

	appendBlock(gen.curFn, loopEnd)
	gen.cur = loopEnd

	return constant.NewInt(types.I32, 0), nil
}

// lowerArith implements the binary arithmetic operators.
func (gen *Generator) lowerArith(op string, args []ast.Node, e *env.Environment) (value.Value, error) {
	x, y, err := gen.lowerBinaryOperands(op, args, e)
	if err != nil {
		return nil, err
	}
	switch op {
	case "+":
		return gen.cur.NewAdd(x, y), nil
	case "-":
		return gen.cur.NewSub(x, y), nil
	case "*":
		return gen.cur.NewMul(x, y), nil
	case "/":
		return gen.cur.NewSDiv(x, y), nil
	default:
		return nil, malformed("unsupported arithmetic operator %q", op)
	}
}

// lowerCompare implements the binary comparison operators. Comparisons are
// unsigned throughout, a deliberate, known simplification: signed
// predicates would be more correct for `number`.
func (gen *Generator) lowerCompare(op string, args []ast.Node, e *env.Environment) (value.Value, error) {
	x, y, err := gen.lowerBinaryOperands(op, args, e)
	if err != nil {
		return nil, err
	}
	var pred enum.IPred
	switch op {
	case "==":
		pred = enum.IPredEQ
	case "!=":
		pred = enum.IPredNE
	case "<":
		pred = enum.IPredULT
	case "<=":
		pred = enum.IPredULE
	case ">":
		pred = enum.IPredUGT
	case ">=":
		pred = enum.IPredUGE
	default:
		return nil, malformed("unsupported comparison operator %q", op)
	}
	return gen.cur.NewICmp(pred, x, y), nil
}

// lowerBinaryOperands lowers the two operands of a binary form.
func (gen *Generator) lowerBinaryOperands(op string, args []ast.Node, e *env.Environment) (value.Value, value.Value, error) {
	if len(args) != 2 {
		return nil, nil, malformed("%q takes exactly 2 operands, got %d", op, len(args))
	}
	x, err := gen.lowerExpr(args[0], e)
	if err != nil {
		return nil, nil, err
	}
	y, err := gen.lowerExpr(args[1], e)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// lowerDef implements `(def name params body)` and
// `(def name params -> retType body)`.
func (gen *Generator) lowerDef(args []ast.Node, e *env.Environment) (value.Value, error) {
	if len(args) != 3 && len(args) != 5 {
		return nil, malformed("(def name params [-> retType] body) has the wrong shape (%d arguments)", len(args))
	}
	nameSym, ok := args[0].(ast.Symbol)
	if !ok {
		return nil, malformed("def requires a symbol name, got %v", args[0])
	}
	paramList, ok := args[1].(ast.List)
	if !ok {
		return nil, malformed("def requires a parameter list, got %v", args[1])
	}

	retType := types.Type(types.I32)
	body := args[2]
	if len(args) == 5 {
		arrow, ok := args[2].(ast.Symbol)
		if !ok || arrow.Name != "->" {
			return nil, malformed("def with 5 arguments must use `-> retType` before the body")
		}
		retSym, ok := args[3].(ast.Symbol)
		if !ok {
			return nil, malformed("def return type annotation must be a symbol, got %v", args[3])
		}
		retType = gen.resolveType(retSym.Name)
		body = args[4]
	}

	paramNames := make([]string, len(paramList.Elems))
	paramTypes := make([]types.Type, len(paramList.Elems))
	for i, decl := range paramList.Elems {
		name, err := declName(decl)
		if err != nil {
			return nil, err
		}
		typ, err := gen.declType(decl)
		if err != nil {
			return nil, err
		}
		paramNames[i] = name
		paramTypes[i] = typ
	}
	params := make([]*ir.Param, len(paramNames))
	for i, name := range paramNames {
		params[i] = ir.NewParam(name, paramTypes[i])
	}

	prevFn, prevBlock := gen.curFn, gen.cur
	fn := gen.createFunction(nameSym.Name, retType, params, e)

	child := e.NewChild()
	for i, param := range fn.Params {
		slot := gen.allocEntry(paramTypes[i])
		gen.cur.NewStore(param, slot)
		child.Define(paramNames[i], slot)
	}

	bodyVal, err := gen.lowerExpr(body, child)
	if err != nil {
		return nil, err
	}
	gen.cur.NewRet(bodyVal)

	if err := verifyFunc(fn); err != nil {
		gen.eh(err)
	}

	gen.curFn, gen.cur = prevFn, prevBlock
	return fn, nil
}

// lowerPrintf implements `(printf fmt args...)`.
func (gen *Generator) lowerPrintf(args []ast.Node, e *env.Environment) (value.Value, error) {
	if len(args) == 0 {
		return nil, malformed("printf requires at least a format string argument")
	}
	vals := make([]value.Value, len(args))
	for i, arg := range args {
		v, err := gen.lowerExpr(arg, e)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return gen.cur.NewCall(gen.printfFn, vals...), nil
}

// lowerCall implements a generic function call: any Symbol-headed list that
// is not one of the known forms above.
func (gen *Generator) lowerCall(name string, args []ast.Node, e *env.Environment) (value.Value, error) {
	callee, err := e.Lookup(name)
	if err != nil {
		return nil, unbound("%v", err)
	}
	fn, ok := callee.(*ir.Func)
	if !ok {
		return nil, malformed("%q does not name a function", name)
	}
	vals := make([]value.Value, len(args))
	for i, arg := range args {
		v, err := gen.lowerExpr(arg, e)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return gen.cur.NewCall(fn, vals...), nil
}
