package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a stable, module-prefixed identifier for a failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common codes shared by every layer.
const (
	ErrCodeOK                 ErrorCode = "COMMON_000"
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
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeStorageError       ErrorCode = "COMMON_016"
	ErrCodeMessagingError     ErrorCode = "COMMON_017"
	ErrCodeUnknown            ErrorCode = "COMMON_999"
)

// Short aliases used at call sites.
const (
	CodeOK           = ErrCodeOK
	CodeUnknown      = ErrCodeUnknown
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeForbidden    = ErrCodeForbidden
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// Feasibility engine codes.
const (
	ErrCodeCatalogEmpty      ErrorCode = "FEA_001"
	ErrCodeCatalogInvalid    ErrorCode = "FEA_002"
	ErrCodeCoordinateMissing ErrorCode = "FEA_003"
	ErrCodeHubNotFound       ErrorCode = "FEA_004"
	ErrCodeCoordinateRange   ErrorCode = "FEA_005"
)

// Authentication codes.
const (
	ErrCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrCodeProviderMismatch   ErrorCode = "AUTH_002"
	ErrCodeTokenInvalid       ErrorCode = "AUTH_003"
	ErrCodeTokenExpired       ErrorCode = "AUTH_004"
	ErrCodeOAuthStateInvalid  ErrorCode = "AUTH_005"
	ErrCodeOAuthExchange      ErrorCode = "AUTH_006"
	ErrCodeUserNotFound       ErrorCode = "AUTH_007"
)

// Community codes.
const (
	ErrCodeCommunityNotFound ErrorCode = "COM_001"
	ErrCodePostInvalid       ErrorCode = "COM_002"
	ErrCodeAttachmentTooBig  ErrorCode = "COM_003"
)

// Assistant and chat history codes.
const (
	ErrCodeLLMFailed        ErrorCode = "AST_001"
	ErrCodeSearchFailed     ErrorCode = "AST_002"
	ErrCodeSessionNotFound  ErrorCode = "AST_003"
	ErrCodeReportIncomplete ErrorCode = "AST_004"
)

// ErrorCodeHTTPStatus maps codes to the HTTP status returned to callers.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeOK:                 http.StatusOK,
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
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeCatalogEmpty:      http.StatusInternalServerError,
	ErrCodeCatalogInvalid:    http.StatusInternalServerError,
	ErrCodeCoordinateMissing: http.StatusBadRequest,
	ErrCodeHubNotFound:       http.StatusNotFound,
	ErrCodeCoordinateRange:   http.StatusBadRequest,

	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeProviderMismatch:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeOAuthStateInvalid:  http.StatusBadRequest,
	ErrCodeOAuthExchange:      http.StatusBadGateway,
	ErrCodeUserNotFound:       http.StatusNotFound,

	ErrCodeCommunityNotFound: http.StatusNotFound,
	ErrCodePostInvalid:       http.StatusBadRequest,
	ErrCodeAttachmentTooBig:  http.StatusRequestEntityTooLarge,

	ErrCodeLLMFailed:        http.StatusBadGateway,
	ErrCodeSearchFailed:     http.StatusBadGateway,
	ErrCodeSessionNotFound:  http.StatusNotFound,
	ErrCodeReportIncomplete: http.StatusBadRequest,
}

// ErrorCodeMessage maps codes to a default caller-facing message.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timed out",
	ErrCodeValidation:         "validation failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeExternalService:    "upstream service error",

	ErrCodeCatalogEmpty:      "hub catalog is empty",
	ErrCodeCoordinateMissing: "Latitude and longitude are required.",
	ErrCodeHubNotFound:       "hub not found",
	ErrCodeCoordinateRange:   "Latitude must be within [-90, 90] and longitude within [-180, 180].",

	ErrCodeInvalidCredentials: "Invalid email or password",
	ErrCodeProviderMismatch:   "account is registered with a different sign-in method",
	ErrCodeTokenInvalid:       "invalid session token",
	ErrCodeTokenExpired:       "session expired",
	ErrCodeOAuthStateInvalid:  "invalid oauth state",

	ErrCodeCommunityNotFound: "community not found",
	ErrCodeSessionNotFound:   "chat session not found",
}

// HTTPStatusForCode returns the HTTP status for code, 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether code maps to a 4xx status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether code maps to a 5xx status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of code ("COMMON", "FEA", ...).
func ModuleForCode(code ErrorCode) string {
	prefix, _, found := strings.Cut(string(code), "_")
	if !found || prefix == "" {
		return "UNKNOWN"
	}
	return prefix
}

//Personal.AI order the ending
