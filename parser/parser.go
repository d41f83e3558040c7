package parser

import (
	"strconv"

	"github.com/pkg/errors"

	"eva/ast"
)

// reader walks a token slice, tracking the current read position.
type reader struct {
	toks []token
	pos  int
}

func (r *reader) peek() (token, bool) {
	if r.pos >= len(r.toks) {
		return token{}, false
	}
	return r.toks[r.pos], true
}

func (r *reader) next() (token, bool) {
	t, ok := r.peek()
	if ok {
		r.pos++
	}
	return t, ok
}

// Parse tokenizes and parses src into a single top-level form.
func Parse(src string) (ast.Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r := &reader{toks: toks}
	form, err := readForm(r)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, ok := r.peek(); ok {
		return nil, errors.Errorf("unexpected trailing input after top-level form")
	}
	return form, nil
}

// readForm reads one form (atom or parenthesized list) from r.
func readForm(r *reader) (ast.Node, error) {
	t, ok := r.next()
	if !ok {
		return nil, errors.Errorf("expected a form, got end of input")
	}
	switch t.text {
	case "(":
		return readList(r)
	case ")":
		return nil, errors.Errorf("unexpected ')'")
	default:
		return readAtom(t), nil
	}
}

// readList reads forms until a matching ')', having already consumed '('.
func readList(r *reader) (ast.Node, error) {
	var elems []ast.Node
	for {
		t, ok := r.peek()
		if !ok {
			return nil, errors.Errorf("unterminated list; expected ')'")
		}
		if t.text == ")" {
			r.next()
			return ast.List{Elems: elems}, nil
		}
		elem, err := readForm(r)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		elems = append(elems, elem)
	}
}

// readAtom classifies a single non-paren token as a Number, String, Bool or
// Symbol. Numbers are matched before symbols so a bare "-" or "-x" correctly
// falls through to Symbol.
func readAtom(t token) ast.Node {
	if t.isQuoted() {
		return ast.String{Value: t.text[1 : len(t.text)-1]}
	}
	if n, err := strconv.ParseInt(t.text, 10, 32); err == nil {
		return ast.Number{Value: int32(n)}
	}
	switch t.text {
	case "true":
		return ast.Bool{Value: true}
	case "false":
		return ast.Bool{Value: false}
	default:
		return ast.Symbol{Name: t.text}
	}
}
