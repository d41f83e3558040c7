// eva compiles a single Eva program to LLVM IR assembly, printing the
// result to stdout and persisting it to an output file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"eva/diag"
	"eva/lower"
	"eva/parser"
)

func usage() {
	const use = `
Usage: eva [OPTION]... [FILE | PROGRAM]

With no FILE and no PROGRAM, reads the program from standard input.
If the argument names a readable file, it is read as the program source;
otherwise the argument itself is treated as literal Eva source text.
`
	fmt.Fprintln(os.Stderr, use[1:])
	flag.PrintDefaults()
}

func main() {
	out := flag.String("o", "./out.ll", "output path for the generated LLVM IR")
	flag.Usage = usage
	flag.Parse()

	source, err := readSource(flag.Args())
	if err != nil {
		diag.Fatal(diag.IOFailure, "%v", err)
	}

	if err := exec(source, *out); err != nil {
		kind := diag.IOFailure
		if execErr, ok := err.(*execError); ok {
			kind = execErr.kind
		}
		diag.Fatal(kind, "%v", err)
	}
}

// readSource returns the program text named by args: the contents of args[0]
// if it names a readable file, args[0] itself as literal source if not, or
// standard input if args is empty.
func readSource(args []string) (string, error) {
	if len(args) == 0 {
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(src), nil
	}
	if src, err := os.ReadFile(args[0]); err == nil {
		return string(src), nil
	}
	return args[0], nil
}

// execError tags an error from exec with the diagnostic kind its failure
// site corresponds to, so main can report it under the right banner instead
// of collapsing every failure into a single kind.
type execError struct {
	kind diag.Kind
	err  error
}

func (e *execError) Error() string { return e.err.Error() }
func (e *execError) Unwrap() error { return e.err }

// reportLoweringError is the Generator error handler wired into exec: it
// translates a lowering error's Kind into the matching diagnostic kind and
// reports it as fatal, halting the process.
func reportLoweringError(err error) {
	if err == nil {
		return
	}
	kind := diag.MalformedForm
	if lowerErr, ok := err.(*lower.Error); ok {
		switch lowerErr.Kind {
		case lower.KindUnboundName:
			kind = diag.UnboundName
		case lower.KindMalformedForm:
			kind = diag.MalformedForm
		case lower.KindVerifierFailure:
			kind = diag.VerifierFailure
		}
	}
	diag.Fatal(kind, "%v", err)
}

// exec compiles source to LLVM IR, prints the result to stdout, and
// persists it to outPath. The program is wrapped as a single `begin` form so
// that source text is a flat sequence of top-level definitions and
// expressions, evaluated in order, without requiring the author to wrap it
// themselves.
func exec(source, outPath string) error {
	program, err := parser.Parse("(begin " + source + ")")
	if err != nil {
		return &execError{kind: diag.MalformedForm, err: err}
	}

	gen := lower.NewGenerator(reportLoweringError)
	m := gen.Lower(program)

	ir := m.String()
	fmt.Print(ir)

	if err := os.WriteFile(outPath, []byte(ir), 0o644); err != nil {
		return &execError{kind: diag.IOFailure, err: err}
	}
	return nil
}
