// Package ast defines the abstract syntax tree produced by the Eva parser
// and consumed by the lowering engine.
package ast

import "fmt"

// Node is an Eva AST node. It is implemented by Number, String, Symbol, Bool
// and List.
type Node interface {
	// isNode restricts implementations of Node to this package.
	isNode()
	// String returns the s-expression text of the node.
	String() string
}

// Number is a 32-bit signed integer literal.
type Number struct {
	Value int32
}

func (Number) isNode() {}

func (n Number) String() string {
	return fmt.Sprintf("%d", n.Value)
}

// String is a raw string literal. Escape sequences such as `\n` are encoded
// textually and are unescaped by the lowerer, not by the parser.
type String struct {
	Value string
}

func (String) isNode() {}

func (s String) String() string {
	return fmt.Sprintf("%q", s.Value)
}

// Symbol is an identifier, e.g. a variable or function name, or the head of
// a form.
type Symbol struct {
	Name string
}

func (Symbol) isNode() {}

func (s Symbol) String() string {
	return s.Name
}

// Bool is the literal `true` or `false`.
type Bool struct {
	Value bool
}

func (Bool) isNode() {}

func (b Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// List is an ordered sequence of nodes. When the first element is a Symbol,
// it names the form (e.g. `if`, `var`, `def`) or a function-call target.
type List struct {
	Elems []Node
}

func (List) isNode() {}

func (l List) String() string {
	s := "("
	for i, e := range l.Elems {
		if i > 0 {
			s += " "
		}
		s += e.String()
	}
	return s + ")"
}

// Head returns the first element of the list and true, or nil and false if
// the list is empty.
func (l List) Head() (Node, bool) {
	if len(l.Elems) == 0 {
		return nil, false
	}
	return l.Elems[0], true
}

// Tag reports the symbol naming the form of the list, and whether the list's
// head is in fact a Symbol.
func (l List) Tag() (string, bool) {
	head, ok := l.Head()
	if !ok {
		return "", false
	}
	sym, ok := head.(Symbol)
	return sym.Name, ok
}

// Args returns the elements of the list following the head.
func (l List) Args() []Node {
	if len(l.Elems) == 0 {
		return nil
	}
	return l.Elems[1:]
}
