// Package diag reports lowering and parsing diagnostics with the colorized
// banner style used throughout the retrieval pack's compiler front ends.
package diag

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

// Kind names a diagnostic category. Most kinds are fatal; UnknownType is the
// sole non-fatal kind.
type Kind int

const (
	UnboundName Kind = iota
	MalformedForm
	VerifierFailure
	IOFailure
	UnknownType
)

var kindNames = map[Kind]string{
	UnboundName:     "Unbound Name",
	MalformedForm:   "Malformed Form",
	VerifierFailure: "Verifier Failure",
	IOFailure:       "I/O Failure",
	UnknownType:     "Unknown Type",
}

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorColorFG = pterm.FgRed
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warnColorFG  = pterm.FgYellow
)

// Fatal prints a colored banner naming kind and the formatted message to
// stderr, then terminates the process with a nonzero exit code. It never
// returns.
func Fatal(kind Kind, format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, errorStyleBG.Sprint(kindNames[kind]+" Error")+errorColorFG.Sprint(" "+fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// Warn prints a colored banner naming kind and the formatted message to
// stderr and returns, for non-fatal diagnostics such as UnknownType.
func Warn(kind Kind, format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, warnStyleBG.Sprint(kindNames[kind]+" Warning")+warnColorFG.Sprint(" "+fmt.Sprintf(format, args...)))
}
