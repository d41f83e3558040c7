package lower

import "github.com/pkg/errors"

// Kind classifies a lowering error so that callers of the eh callback (the
// CLI driver, or a test) can decide how to react without string-matching
// messages.
type Kind int

const (
	// KindUnboundName is raised when a Symbol reference cannot be resolved
	// through the environment chain.
	KindUnboundName Kind = iota
	// KindMalformedForm is raised when a known form has the wrong shape or
	// arity.
	KindMalformedForm
	// KindVerifierFailure is raised when the structural checks in verify.go
	// find a malformed function.
	KindVerifierFailure
)

// Error wraps a lowering diagnostic with its Kind.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: errors.Errorf(format, args...)}
}

// unbound reports a Symbol that no scope in the environment chain defines.
func unbound(format string, args ...interface{}) error {
	return newError(KindUnboundName, format, args...)
}

// malformed reports a known form used with the wrong shape or arity.
func malformed(format string, args ...interface{}) error {
	return newError(KindMalformedForm, format, args...)
}

// verifierFailure reports a structural defect a generated function must not
// have (e.g. a block with no terminator, or a phi whose incoming count does
// not match its predecessor count).
func verifierFailure(format string, args ...interface{}) error {
	return newError(KindVerifierFailure, format, args...)
}
