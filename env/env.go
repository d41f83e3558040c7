// Package env implements the lexical scope chain used by the lowering
// engine to resolve names to LLVM IR value handles.
package env

import (
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

// Environment is a lexical scope: a binding record plus a link to the
// enclosing (parent) scope. The parent link never changes once an
// Environment is constructed; the record is mutated by Define.
type Environment struct {
	record map[string]value.Value
	parent *Environment
}

// New returns a new, parentless environment. Used once, for the global
// scope.
func New() *Environment {
	return &Environment{record: make(map[string]value.Value)}
}

// NewChild returns a new environment whose parent is env, used for `begin`
// bodies and function bodies.
func (env *Environment) NewChild() *Environment {
	return &Environment{record: make(map[string]value.Value), parent: env}
}

// Define installs or overwrites the binding for name in env's own record and
// returns handle.
func (env *Environment) Define(name string, handle value.Value) value.Value {
	env.record[name] = handle
	return handle
}

// Lookup resolves name by walking the parent chain outward, returning the
// handle bound in the nearest enclosing scope. It fails if no scope in the
// chain defines name.
func (env *Environment) Lookup(name string) (value.Value, error) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.record[name]; ok {
			return v, nil
		}
	}
	return nil, errors.Errorf("variable %q is not defined", name)
}
