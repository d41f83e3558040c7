package lower

import (
	"github.com/llir/llvm/ir/types"

	"eva/ast"
	"eva/diag"
)

// resolveType maps a source type name to its LLVM IR type. Any name other
// than "number" or "string" is an UnknownType diagnostic (non-fatal) and
// defaults to i32.
func (gen *Generator) resolveType(typeName string) types.Type {
	switch typeName {
	case "number":
		return types.I32
	case "string":
		return types.NewPointer(types.I8)
	default:
		diag.Warn(diag.UnknownType, "unknown type %q; defaulting to number", typeName)
		return types.I32
	}
}

// declName returns the name introduced by a declaration node, which is
// either a bare Symbol or a two-element (name type) List.
func declName(decl ast.Node) (string, error) {
	switch decl := decl.(type) {
	case ast.Symbol:
		return decl.Name, nil
	case ast.List:
		if len(decl.Elems) != 2 {
			return "", malformed("declaration %v must have exactly a name and a type", decl)
		}
		sym, ok := decl.Elems[0].(ast.Symbol)
		if !ok {
			return "", malformed("declaration %v must name a symbol", decl)
		}
		return sym.Name, nil
	default:
		return "", malformed("declaration %v must be a symbol or (name type) list", decl)
	}
}

// declType returns the IR type named by a declaration node, defaulting to
// i32 (number) when the declaration is a bare Symbol.
func (gen *Generator) declType(decl ast.Node) (types.Type, error) {
	switch decl := decl.(type) {
	case ast.Symbol:
		return types.I32, nil
	case ast.List:
		if len(decl.Elems) != 2 {
			return nil, malformed("declaration %v must have exactly a name and a type", decl)
		}
		typeSym, ok := decl.Elems[1].(ast.Symbol)
		if !ok {
			return nil, malformed("declaration %v must annotate a symbol type", decl)
		}
		return gen.resolveType(typeSym.Name), nil
	default:
		return nil, malformed("declaration %v must be a symbol or (name type) list", decl)
	}
}
