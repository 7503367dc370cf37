// Package errors provides the unified error type used across H2Siting.
// Every layer returns *AppError (or wraps a lower-level error in one) so that
// HTTP, gRPC and CLI surfaces can map failures to a status and message without
// inspecting driver-specific error types.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const stackDepth = 32

// captureStack formats the call stack above New/Wrap, skipping runtime frames.
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

// AppError carries a typed code, a caller-facing message, optional detail and
// the underlying cause. errors.Is / errors.As traverse Cause.
//
//	return errors.New(errors.ErrCodeCoordinateMissing, "Latitude and longitude are required.")
//	return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert post")
type AppError struct {
	Code    ErrorCode
	Message string
	Detail  string
	Cause   error

	// Stack is captured at construction and never rendered by Error().
	Stack string
}

// Error renders "[CODE] message: detail: cause", omitting empty segments.
func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(e.Code.String())
	sb.WriteString("] ")
	sb.WriteString(e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of e with Detail set. Nil-safe.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy of e with Cause set. Nil-safe.
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

// New builds an AppError with no cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap builds an AppError around err. A nil err yields nil. When code is
// CodeUnknown and err already carries an AppError, its code is kept.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
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

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	if err == nil {
		return nil
	}
	ae := Wrap(err, code, fmt.Sprintf(format, args...))
	ae.Stack = captureStack(1)
	return ae
}

func newWithCode(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(2),
	}
}

// NotFound builds a CodeNotFound error.
func NotFound(message string) *AppError { return newWithCode(CodeNotFound, message) }

// InvalidParam builds a CodeInvalidParam error.
func InvalidParam(message string) *AppError { return newWithCode(CodeInvalidParam, message) }

// Unauthorized builds a CodeUnauthorized error.
func Unauthorized(message string) *AppError { return newWithCode(CodeUnauthorized, message) }

// Forbidden builds a CodeForbidden error.
func Forbidden(message string) *AppError { return newWithCode(CodeForbidden, message) }

// Internal builds a CodeInternal error.
func Internal(message string) *AppError { return newWithCode(CodeInternal, message) }

// Conflict builds a CodeConflict error.
func Conflict(message string) *AppError { return newWithCode(CodeConflict, message) }

// RateLimit builds a CodeRateLimit error.
func RateLimit(message string) *AppError { return newWithCode(CodeRateLimit, message) }

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any AppError in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Cause
	}
	return false
}

// IsNotFound reports whether err's chain holds any not-found flavoured code.
func IsNotFound(err error) bool {
	for _, code := range []ErrorCode{
		CodeNotFound, ErrCodeHubNotFound, ErrCodeUserNotFound,
		ErrCodeCommunityNotFound, ErrCodeSessionNotFound,
	} {
		if IsCode(err, code) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err's chain holds CodeConflict.
func IsConflict(err error) bool {
	return IsCode(err, CodeConflict)
}

// GetCode returns the code of the outermost AppError, CodeOK for nil and
// CodeUnknown for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// HTTPStatus resolves the HTTP status for any error.
func HTTPStatus(err error) int {
	return HTTPStatusForCode(GetCode(err))
}

// Is and As re-export the standard library helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

// As is errors.As.
func As(err error, target interface{}) bool { return errors.As(err, target) }

//Personal.AI order the ending
