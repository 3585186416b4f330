package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessageQueueError  ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")

	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeMessageQueueError

	// Domain specific aliases
	CodeMoleculeNotFound = ErrCodeMoleculeNotFound
	CodeSmilesLexError   = ErrCodeSmilesLexError
)

// SMILES Parser Error Codes.
//
// The SMI_ family maps the parser's three-level taxonomy onto platform
// codes: 0xx are lexical, 1xx syntactic, 2xx semantic.  Callers that only
// need the coarse classification should use IsLexErrorCode /
// IsSyntaxErrorCode / IsSemanticErrorCode rather than matching individual
// codes.
const (
	ErrCodeSmilesLexError          ErrorCode = "SMI_001"
	ErrCodeSmilesIncompletePercent ErrorCode = "SMI_002"
	ErrCodeSmilesUnmatchedBracket  ErrorCode = "SMI_101"
	ErrCodeSmilesUnmatchedParen    ErrorCode = "SMI_102"
	ErrCodeSmilesMalformedBracket  ErrorCode = "SMI_103"
	ErrCodeSmilesDanglingBond      ErrorCode = "SMI_104"
	ErrCodeSmilesEmptyInput        ErrorCode = "SMI_105"
	ErrCodeSmilesUnknownElement    ErrorCode = "SMI_201"
	ErrCodeSmilesInvalidAromatic   ErrorCode = "SMI_202"
	ErrCodeSmilesRingBondMismatch  ErrorCode = "SMI_203"
	ErrCodeSmilesUnclosedRing      ErrorCode = "SMI_204"
	ErrCodeSmilesValenceExceeded   ErrorCode = "SMI_205"
	ErrCodeSmilesInvalidCharge     ErrorCode = "SMI_206"
	ErrCodeSmilesInvalidChirality  ErrorCode = "SMI_207"
	ErrCodeSmilesInvalidRingNumber ErrorCode = "SMI_208"
	ErrCodeSmilesDuplicateBond     ErrorCode = "SMI_209"
	ErrCodeSmilesInvalidIsotope    ErrorCode = "SMI_210"
	ErrCodeSmilesInvalidClass      ErrorCode = "SMI_211"
	ErrCodeSmilesBracketRequired   ErrorCode = "SMI_212"
	ErrCodeSmilesInvalidHCount     ErrorCode = "SMI_213"
)

// Molecule Store Error Codes
const (
	ErrCodeMoleculeNotFound      ErrorCode = "MOL_001"
	ErrCodeMoleculeAlreadyExists ErrorCode = "MOL_002"
	ErrCodeMoleculePersistFailed ErrorCode = "MOL_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessageQueueError:  http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeSmilesLexError:          http.StatusBadRequest,
	ErrCodeSmilesIncompletePercent: http.StatusBadRequest,
	ErrCodeSmilesUnmatchedBracket:  http.StatusBadRequest,
	ErrCodeSmilesUnmatchedParen:    http.StatusBadRequest,
	ErrCodeSmilesMalformedBracket:  http.StatusBadRequest,
	ErrCodeSmilesDanglingBond:      http.StatusBadRequest,
	ErrCodeSmilesEmptyInput:        http.StatusBadRequest,
	ErrCodeSmilesUnknownElement:    http.StatusUnprocessableEntity,
	ErrCodeSmilesInvalidAromatic:   http.StatusUnprocessableEntity,
	ErrCodeSmilesRingBondMismatch:  http.StatusUnprocessableEntity,
	ErrCodeSmilesUnclosedRing:      http.StatusUnprocessableEntity,
	ErrCodeSmilesValenceExceeded:   http.StatusUnprocessableEntity,
	ErrCodeSmilesInvalidCharge:     http.StatusUnprocessableEntity,
	ErrCodeSmilesInvalidChirality:  http.StatusUnprocessableEntity,
	ErrCodeSmilesInvalidRingNumber: http.StatusUnprocessableEntity,
	ErrCodeSmilesDuplicateBond:     http.StatusUnprocessableEntity,
	ErrCodeSmilesInvalidIsotope:    http.StatusUnprocessableEntity,
	ErrCodeSmilesInvalidClass:      http.StatusUnprocessableEntity,
	ErrCodeSmilesBracketRequired:   http.StatusUnprocessableEntity,
	ErrCodeSmilesInvalidHCount:     http.StatusUnprocessableEntity,

	ErrCodeMoleculeNotFound:      http.StatusNotFound,
	ErrCodeMoleculeAlreadyExists: http.StatusConflict,
	ErrCodeMoleculePersistFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessageQueueError:  "message queue error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeSmilesLexError:          "unrecognized character in SMILES input",
	ErrCodeSmilesIncompletePercent: "incomplete percent-escaped ring number",
	ErrCodeSmilesUnmatchedBracket:  "unmatched square bracket",
	ErrCodeSmilesUnmatchedParen:    "unmatched parenthesis",
	ErrCodeSmilesMalformedBracket:  "malformed bracket atom",
	ErrCodeSmilesDanglingBond:      "bond symbol with no atom to bind",
	ErrCodeSmilesEmptyInput:        "empty SMILES input",
	ErrCodeSmilesUnknownElement:    "unrecognized element symbol",
	ErrCodeSmilesInvalidAromatic:   "element cannot be aromatic",
	ErrCodeSmilesRingBondMismatch:  "ring-closure bond kinds disagree",
	ErrCodeSmilesUnclosedRing:      "ring number never closed",
	ErrCodeSmilesValenceExceeded:   "valence exceeded",
	ErrCodeSmilesInvalidCharge:     "invalid charge specification",
	ErrCodeSmilesInvalidChirality:  "invalid chirality specification",
	ErrCodeSmilesInvalidRingNumber: "invalid ring number",
	ErrCodeSmilesDuplicateBond:     "duplicate bond between atoms",
	ErrCodeSmilesInvalidIsotope:    "invalid isotope specification",
	ErrCodeSmilesInvalidClass:      "invalid atom class",
	ErrCodeSmilesBracketRequired:   "element requires bracket notation",
	ErrCodeSmilesInvalidHCount:     "invalid hydrogen count",

	ErrCodeMoleculeNotFound:      "molecule not found",
	ErrCodeMoleculeAlreadyExists: "molecule already exists",
	ErrCodeMoleculePersistFailed: "failed to persist molecule",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

// IsLexErrorCode reports whether the code belongs to the lexical family (SMI_0xx).
func IsLexErrorCode(code ErrorCode) bool {
	return strings.HasPrefix(string(code), "SMI_0")
}

// IsSyntaxErrorCode reports whether the code belongs to the syntactic family (SMI_1xx).
func IsSyntaxErrorCode(code ErrorCode) bool {
	return strings.HasPrefix(string(code), "SMI_1")
}

// IsSemanticErrorCode reports whether the code belongs to the semantic family (SMI_2xx).
func IsSemanticErrorCode(code ErrorCode) bool {
	return strings.HasPrefix(string(code), "SMI_2")
}
