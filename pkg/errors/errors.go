package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// SigilError is the interface implemented by all Sigil errors.
type SigilError interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Syntax", "Binding", "Runtime", "Integrity"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// SyntaxError represents an error during lexing or parsing.
type SyntaxError struct {
	Position
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }

// BindingError represents a lexical binding failure: referencing a name (or
// `#name`) that is not declared, reading a binding before its declaration has
// executed, redeclaring a name in the same scope, or assigning to a constant.
type BindingError struct {
	Position
	Msg   string
	Cause error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("Binding Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *BindingError) Pos() Position   { return e.Position }
func (e *BindingError) Kind() string    { return "Binding" }
func (e *BindingError) Message() string { return e.Msg }
func (e *BindingError) Unwrap() error   { return e.Cause }

// RuntimeError represents an error during program execution.
type RuntimeError struct {
	Position
	Msg   string
	Cause error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *RuntimeError) Pos() Position   { return e.Position }
func (e *RuntimeError) Kind() string    { return "Runtime" }
func (e *RuntimeError) Message() string { return e.Msg }
func (e *RuntimeError) Unwrap() error   { return e.Cause }

// IntegrityError represents a proxy handler asserting knowledge it must not
// have: returning a private symbol from a key-listing trap. It is raised
// before any partial effect is observable.
type IntegrityError struct {
	Position
	Msg   string
	Cause error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("Integrity Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *IntegrityError) Pos() Position   { return e.Position }
func (e *IntegrityError) Kind() string    { return "Integrity" }
func (e *IntegrityError) Message() string { return e.Msg }
func (e *IntegrityError) Unwrap() error   { return e.Cause }

// --- Constructors ---

func NewSyntaxError(pos Position, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Position: pos, Msg: fmt.Sprintf(format, args...)}
}

func NewBindingError(pos Position, format string, args ...interface{}) *BindingError {
	return &BindingError{Position: pos, Msg: fmt.Sprintf(format, args...)}
}

func NewRuntimeError(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

func NewIntegrityError(format string, args ...interface{}) *IntegrityError {
	return &IntegrityError{Msg: fmt.Sprintf(format, args...)}
}

// WithPosition attaches a source position and returns the error, for call
// chaining at construction sites.
func (e *RuntimeError) WithPosition(pos Position) *RuntimeError {
	e.Position = pos
	return e
}

func (e *BindingError) WithPosition(pos Position) *BindingError {
	e.Position = pos
	return e
}

// WithPos returns the error annotated with a position if it does not carry
// one already. Runtime errors originate inside the object model, which has
// no notion of source location; the evaluator attaches the position of the
// expression it was executing.
func WithPos(err SigilError, pos Position) SigilError {
	if err.Pos().Line != 0 {
		return err
	}
	switch e := err.(type) {
	case *RuntimeError:
		return &RuntimeError{Position: pos, Msg: e.Msg, Cause: e.Cause}
	case *IntegrityError:
		return &IntegrityError{Position: pos, Msg: e.Msg, Cause: e.Cause}
	case *BindingError:
		return &BindingError{Position: pos, Msg: e.Msg, Cause: e.Cause}
	case *SyntaxError:
		return &SyntaxError{Position: pos, Msg: e.Msg, Cause: e.Cause}
	}
	return err
}

// --- Error Reporting ---

var (
	kindColor   = color.New(color.FgRed, color.Bold)
	markerColor = color.New(color.FgYellow)
)

// DisplayErrors prints a list of Sigil errors to w in a user-friendly format,
// including the source line and a position marker. Coloring follows the
// package-level color.NoColor setting.
func DisplayErrors(w io.Writer, src string, errs []SigilError) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(src, "\n")

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s: %s\n", kindColor.Sprintf("%s Error", kind), msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		fmt.Fprintf(w, "%s at %d:%d: %s\n", kindColor.Sprintf("%s Error", kind), pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", sourceLine)

		marker := strings.Repeat(" ", pos.Column) + "^"
		fmt.Fprintf(w, "  %s\n", markerColor.Sprint(marker))
		fmt.Fprintln(w)
	}
}
