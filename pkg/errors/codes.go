package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Sentinel codes outside the catalogue.
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Common Error Codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_005"
	ErrCodeTimeout        ErrorCode = "COMMON_009"
	ErrCodeValidation     ErrorCode = "COMMON_010"
	ErrCodeSerialization  ErrorCode = "COMMON_011"
	ErrCodeCacheError     ErrorCode = "COMMON_013"
	ErrCodeNotImplemented ErrorCode = "COMMON_016"
	ErrCodeCacheMiss      ErrorCode = "COMMON_017"
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidFormat ErrorCode = "MOL_003"
	ErrCodeMoleculeParsingFailed ErrorCode = "MOL_006"
)

// Layout Module Error Codes
const (
	ErrCodeInvalidMolecule   ErrorCode = "LAY_001"
	ErrCodeInvalidOptions    ErrorCode = "LAY_002"
	ErrCodeLayoutFailed      ErrorCode = "LAY_003"
	ErrCodeLayoutCache       ErrorCode = "LAY_004"
	ErrCodeTemplateNotFound  ErrorCode = "LAY_005"
	ErrCodeOutputUnsupported ErrorCode = "LAY_006"
)

// Aliases kept for call sites that read better with the short form.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeCacheError   = ErrCodeCacheError
)

// ErrorCodeExitStatus maps ErrorCodes to process exit statuses used by the CLI.
// Input problems exit with 2, everything else with 1.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeBadRequest:            2,
	ErrCodeValidation:            2,
	ErrCodeSerialization:         2,
	ErrCodeMoleculeInvalidFormat: 2,
	ErrCodeMoleculeParsingFailed: 2,
	ErrCodeInvalidMolecule:       2,
	ErrCodeInvalidOptions:        2,
	ErrCodeOutputUnsupported:     2,
	ErrCodeTemplateNotFound:      2,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "invalid parameter",
	ErrCodeNotFound:       "resource not found",
	ErrCodeTimeout:        "operation timed out",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeCacheError:     "cache operation failed",
	ErrCodeNotImplemented: "not implemented",
	ErrCodeCacheMiss:      "cache miss",

	ErrCodeMoleculeInvalidFormat: "invalid molecule format",
	ErrCodeMoleculeParsingFailed: "molecule parsing failed",

	ErrCodeInvalidMolecule:   "invalid molecule for layout",
	ErrCodeInvalidOptions:    "invalid layout options",
	ErrCodeLayoutFailed:      "layout generation failed",
	ErrCodeLayoutCache:       "layout cache failure",
	ErrCodeTemplateNotFound:  "template not found",
	ErrCodeOutputUnsupported: "unsupported output format",
}

// ExitStatusForCode returns the CLI exit status for an ErrorCode.
func ExitStatusForCode(code ErrorCode) int {
	if code == CodeOK {
		return 0
	}
	if status, ok := ErrorCodeExitStatus[code]; ok {
		return status
	}
	return 1
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of a code, e.g. "LAY" for "LAY_003".
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if i := strings.IndexByte(s, '_'); i > 0 {
		return s[:i]
	}
	return ""
}
