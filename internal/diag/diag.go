// Package diag defines the compiler's error taxonomy and dev-mode warnings.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasols/vindur-sub001/internal/ast"
)

// Kind is the category of a compile error.
type Kind string

const (
	UnresolvedReference      Kind = "UnresolvedReference"
	CircularReference        Kind = "CircularReference"
	InvalidInterpolation     Kind = "InvalidInterpolation"
	UnresolvedFunctionCall   Kind = "UnresolvedFunctionCall"
	FunctionCompilationError Kind = "FunctionCompilationError"
	InvalidColorValue        Kind = "InvalidColorValue"
	InvalidStyleFlagType     Kind = "InvalidStyleFlagType"
	StructuralMisuse         Kind = "StructuralMisuse"
	EvaluationError          Kind = "EvaluationError"
	SyntaxError              Kind = "SyntaxError"
)

// Reason narrows a FunctionCompilationError to the construct that was rejected.
type Reason string

const (
	ReasonAsyncOrGenerator    Reason = "async-or-generator"
	ReasonComplexBody         Reason = "complex-body"
	ReasonUnsupportedOperator Reason = "unsupported-operator"
	ReasonExternalDependency  Reason = "external-dependency"
	ReasonMemberAccess        Reason = "member-access"
	ReasonTernaryCondition    Reason = "unsupported-ternary-condition"
	ReasonTernaryBranch       Reason = "unsupported-ternary-branch"
	ReasonValueType           Reason = "unsupported-value-type"
)

// ErrFileNotFound is returned by file systems for missing files and wrapped
// by UnresolvedReference errors raised for imports.
var ErrFileNotFound = errors.New("file not found")

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// PosOf returns the start position of n.
func PosOf(n ast.Node) Pos {
	if n == nil {
		return Pos{}
	}
	s := n.Loc().Start
	return Pos{Line: s.Line, Column: s.Column}
}

// Error is a fatal compile error for one file.
type Error struct {
	Kind   Kind
	Reason Reason
	File   string
	Pos    Pos
	Msg    string
	// Cycle is the resolution chain for CircularReference errors, first
	// element repeated at the end.
	Cycle []string
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(e.Kind))
	sb.WriteString("] ")
	if e.File != "" {
		sb.WriteString(e.File)
		if e.Pos.Line > 0 {
			fmt.Fprintf(&sb, ":%d:%d", e.Pos.Line, e.Pos.Column)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Msg)
	if len(e.Cycle) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(e.Cycle, " -> "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind located at n (which may be nil).
func New(kind Kind, file string, n ast.Node, format string, args ...any) *Error {
	return &Error{Kind: kind, File: file, Pos: PosOf(n), Msg: fmt.Sprintf(format, args...)}
}

// Wrap is New with an underlying cause.
func Wrap(err error, kind Kind, file string, n ast.Node, format string, args ...any) *Error {
	e := New(kind, file, n, format, args...)
	e.Err = err
	return e
}

// Compile creates a FunctionCompilationError for the helper fn.
func Compile(reason Reason, fn, file string, n ast.Node, format string, args ...any) *Error {
	e := New(FunctionCompilationError, file, n, "cannot compile %s: %s", fn, fmt.Sprintf(format, args...))
	e.Reason = reason
	return e
}

// Cycle creates a CircularReference error for the given chain.
func Cycle(file string, n ast.Node, chain []string) *Error {
	e := New(CircularReference, file, n, "circular reference detected")
	e.Cycle = append([]string(nil), chain...)
	return e
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err's chain contains an *Error of the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
