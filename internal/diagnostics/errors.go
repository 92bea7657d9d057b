// Package diagnostics defines the typed error kinds the compiler core
// reports and a terminal reporter for rendering them.
package diagnostics

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hassandahiru/ccompiler/internal/lexer"
)

// ErrorKind classifies a CoreError. Every failure path in the type
// normalizer, builder, IR generator, CFG builder and passes is required
// to surface one of these rather than an ad-hoc error string.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	InvalidType
	UndeclaredIdentifier
	Redeclaration
	MalformedDeclarator
	InvalidControlFlow
	InternalInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case InvalidType:
		return "invalid type"
	case UndeclaredIdentifier:
		return "undeclared identifier"
	case Redeclaration:
		return "redeclaration"
	case MalformedDeclarator:
		return "malformed declarator"
	case InvalidControlFlow:
		return "invalid control flow"
	case InternalInvariant:
		return "internal invariant violated"
	default:
		return "unknown error"
	}
}

// CoreError is the interface every compiler-core failure satisfies.
type CoreError interface {
	error
	Kind() ErrorKind
	Position() lexer.Position
}

type coreError struct {
	kind ErrorKind
	pos  lexer.Position
	err  error
}

func (e *coreError) Error() string {
	if e.pos.Filename == "" && e.pos.Line == 0 {
		return fmt.Sprintf("%s: %s", e.kind, e.err)
	}
	return fmt.Sprintf("%s: %s: %s", e.pos, e.kind, e.err)
}

func (e *coreError) Kind() ErrorKind          { return e.kind }
func (e *coreError) Position() lexer.Position { return e.pos }
func (e *coreError) Unwrap() error            { return e.err }

// New constructs a CoreError of the given kind at pos, with a stack
// trace attached at the call site via pkg/errors.
func New(kind ErrorKind, pos lexer.Position, format string, args ...interface{}) CoreError {
	return &coreError{kind: kind, pos: pos, err: errors.Errorf(format, args...)}
}

// Wrap attaches kind and pos to an existing error, preserving its stack
// if it already carries one.
func Wrap(kind ErrorKind, pos lexer.Position, err error, message string) CoreError {
	return &coreError{kind: kind, pos: pos, err: errors.WithMessage(err, message)}
}

// IsKind reports whether err is a CoreError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce CoreError
	if errors.As(err, &ce) {
		return ce.Kind() == kind
	}
	return false
}
