// Package smiles parses SMILES strings into validated molecular graphs.
//
// Parsing runs in three conceptual stages over a single left-to-right scan:
// lexing (character stream → tokens), interpretation (tokens → atoms, bonds,
// branches, ring closures), and validation (valence checking and implicit
// hydrogen inference).  The first error encountered aborts the parse; there
// is no recovery or multi-error collection.
package smiles

import (
	"fmt"

	apperrors "github.com/turtacn/MolParse/pkg/errors"
)

// ErrorKind classifies a parse failure by the stage that detected it.
type ErrorKind string

const (
	// KindLex marks character-level failures: bytes that no token starts with.
	KindLex ErrorKind = "lex"
	// KindSyntax marks structural failures: tokens in an order the grammar
	// does not allow, or unterminated constructs.
	KindSyntax ErrorKind = "syntax"
	// KindSemantic marks failures of meaning on well-formed syntax: unknown
	// elements, mismatched ring bonds, exceeded valence.
	KindSemantic ErrorKind = "semantic"
)

// ParseError is the single error type returned by the parser.  Column is the
// 0-based byte offset into the input where the offending construct begins.
type ParseError struct {
	Kind    ErrorKind
	Code    apperrors.ErrorCode
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error at column %d: %s", e.Kind, e.Column, e.Message)
}

// AppError converts the parse error into the application error shape used at
// the service boundary, preserving the code and position.
func (e *ParseError) AppError() *apperrors.AppError {
	return apperrors.New(e.Code, e.Message).
		WithDetail(fmt.Sprintf("column %d", e.Column))
}

func lexErr(code apperrors.ErrorCode, col int, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: KindLex, Code: code, Column: col, Message: fmt.Sprintf(format, args...)}
}

func syntaxErr(code apperrors.ErrorCode, col int, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: KindSyntax, Code: code, Column: col, Message: fmt.Sprintf(format, args...)}
}

func semanticErr(code apperrors.ErrorCode, col int, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: KindSemantic, Code: code, Column: col, Message: fmt.Sprintf(format, args...)}
}
