// Package errors defines AppError, the structured error carried across every
// MolParse layer.  Domain parsers, application services, repositories, and the
// HTTP/CLI surfaces all speak this one type, so an error born deep in the
// SMILES lexer arrives at the API boundary with its code, column detail, and
// cause chain intact.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth bounds the number of frames recorded per error.
const stackDepth = 32

// captureStack formats the call stack starting two frames above the caller,
// skipping captureStack itself and the factory that invoked it.  Frames inside
// the runtime are dropped to keep traces short.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError pairs a typed ErrorCode with a human-readable message and an
// optional cause.  It implements error and Unwrap, so errors.Is and errors.As
// traverse the chain with no extra machinery at call sites.
//
//	return errors.New(errors.ErrCodeSmilesUnclosedRing, "ring number 1 never closed")
//	return errors.Wrap(repoErr, errors.CodeDBQueryError, "failed to query molecule")
//	return errors.New(errors.CodeMoleculeNotFound, "molecule abc123 not found").WithDetail("searched postgres")
type AppError struct {
	// Code identifies the failure category; see codes.go for the full set.
	Code ErrorCode

	// Message is the primary description, safe to return in API responses.
	Message string

	// Detail holds supplementary context such as a column position or an
	// entity ID.  Kept separate from Message so responses stay terse.
	Detail string

	// Cause is the wrapped lower-level error, if any.
	Cause error

	// Stack is the call stack captured at construction.  It is deliberately
	// excluded from Error() output; the logging middleware reads it directly.
	Stack string
}

// Error renders "[<code>] <message>" with ": <detail>" appended when Detail
// is non-empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the cause to the errors.Is / errors.As machinery.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of the receiver carrying the given detail string.
// Calling it on a nil receiver returns nil, so it composes with factories that
// may return nil.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy of the receiver with err attached as the cause.
// Useful when the AppError was built before the lower-level failure surfaced.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New builds an AppError for a failure originating in the current layer.
// The call stack is captured at this point.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap builds an AppError around an existing error, returning nil when err is
// nil so it can wrap a call result inline:
//
//	return errors.Wrap(repo.FindBySMILES(ctx, s), errors.CodeDBQueryError, "query failed")
//
// A CodeInternal wrap of an error that is already an *AppError keeps the inner
// code, so a domain classification survives cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeInternal {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsNotFound reports whether err's chain contains an *AppError carrying
// CodeNotFound or CodeMoleculeNotFound.  Repositories use it to translate a
// miss into an HTTP 404 without switching on individual codes.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case CodeNotFound, CodeMoleculeNotFound:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the first *AppError in err's chain, CodeOK for
// a nil error, and CodeInternal for errors that never passed through this
// package.  Middleware uses it for metric labels and status mapping.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}
