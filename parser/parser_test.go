package parser

import (
	"testing"

	"eva/ast"
)

func TestParseAtoms(t *testing.T) {
	cases := []struct {
		src  string
		want ast.Node
	}{
		{"42", ast.Number{Value: 42}},
		{"-7", ast.Number{Value: -7}},
		{`"hello"`, ast.String{Value: "hello"}},
		{"true", ast.Bool{Value: true}},
		{"false", ast.Bool{Value: false}},
		{"x", ast.Symbol{Name: "x"}},
	}
	for _, c := range cases {
		got, err := Parse(c.src)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", c.src, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %#v; want %#v", c.src, got, c.want)
		}
	}
}

func TestParseList(t *testing.T) {
	got, err := Parse(`(+ 1 2)`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	list, ok := got.(ast.List)
	if !ok {
		t.Fatalf("Parse returned %T; want ast.List", got)
	}
	tag, ok := list.Tag()
	if !ok || tag != "+" {
		t.Fatalf("Tag() = %q, %v; want %q, true", tag, ok, "+")
	}
	if len(list.Args()) != 2 {
		t.Fatalf("Args() returned %d elements; want 2", len(list.Args()))
	}
}

func TestParseNested(t *testing.T) {
	got, err := Parse(`(if (> x 0) (set x 1) (set x 2))`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	list, ok := got.(ast.List)
	if !ok || len(list.Elems) != 4 {
		t.Fatalf("Parse returned %#v; want a 4-element list", got)
	}
}

func TestParseComment(t *testing.T) {
	got, err := Parse("; a comment\n42")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := ast.Number{Value: 42}
	if got != want {
		t.Errorf("Parse = %#v; want %#v", got, want)
	}
}

func TestParseUnterminatedString(t *testing.T) {
	if _, err := Parse(`"unterminated`); err == nil {
		t.Fatalf("Parse did not report an error for an unterminated string")
	}
}

func TestParseUnmatchedParen(t *testing.T) {
	if _, err := Parse(`(+ 1 2`); err == nil {
		t.Fatalf("Parse did not report an error for an unterminated list")
	}
}

func TestParseTrailingInput(t *testing.T) {
	if _, err := Parse(`1 2`); err == nil {
		t.Fatalf("Parse did not report an error for trailing input")
	}
}
