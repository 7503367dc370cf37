package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal", errors.CodeInternal, "unexpected failure"},
		{"missing coordinates", errors.ErrCodeCoordinateMissing, "Latitude and longitude are required."},
		{"rate limit", errors.CodeRateLimit, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
	assert.Nil(t, errors.Wrapf(nil, errors.CodeInternal, "ignored %d", 1))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("connection refused")
	ae := errors.Wrap(root, errors.ErrCodeDatabaseError, "failed to insert post")

	require.NotNil(t, ae)
	assert.True(t, stderrors.Is(ae, root))
	assert.Equal(t, root, ae.Unwrap())
}

func TestWrap_UnknownCodeKeepsInnerCode(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSessionNotFound, "session 7 not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "loading history")

	assert.Equal(t, errors.ErrCodeSessionNotFound, outer.Code)
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInvalidParam, "bad input")
	assert.Equal(t, "[COMMON_002] bad input", ae.Error())

	withDetail := ae.WithDetail("lat=abc")
	assert.Equal(t, "[COMMON_002] bad input: lat=abc", withDetail.Error())

	withCause := withDetail.WithCause(fmt.Errorf("strconv failure"))
	assert.Equal(t, "[COMMON_002] bad input: lat=abc: strconv failure", withCause.Error())

	// The receiver is never mutated by the fluent helpers.
	assert.Empty(t, ae.Detail)
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_TraversesNestedAppErrors(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeHubNotFound, "no hub")
	mid := errors.Wrap(inner, errors.CodeInternal, "engine")
	outer := fmt.Errorf("handler: %w", mid)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeHubNotFound))
	assert.True(t, errors.IsCode(outer, errors.CodeInternal))
	assert.False(t, errors.IsCode(outer, errors.CodeConflict))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"generic", errors.NotFound("missing"), true},
		{"session", errors.New(errors.ErrCodeSessionNotFound, "missing"), true},
		{"community wrapped", fmt.Errorf("x: %w", errors.New(errors.ErrCodeCommunityNotFound, "missing")), true},
		{"conflict", errors.Conflict("dup"), false},
		{"plain", stderrors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, errors.IsNotFound(tc.err))
		})
	}
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(errors.Forbidden("no")))
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatus(errors.New(errors.ErrCodeCoordinateMissing, "x")))
	assert.Equal(t, http.StatusUnauthorized, errors.HTTPStatus(errors.New(errors.ErrCodeInvalidCredentials, "x")))
	assert.Equal(t, http.StatusConflict, errors.HTTPStatus(errors.Conflict("x")))
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatus(stderrors.New("plain")))
}

func TestFactories(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  *errors.AppError
		code errors.ErrorCode
	}{
		{errors.NotFound("a"), errors.CodeNotFound},
		{errors.InvalidParam("a"), errors.CodeInvalidParam},
		{errors.Unauthorized("a"), errors.CodeUnauthorized},
		{errors.Forbidden("a"), errors.CodeForbidden},
		{errors.Internal("a"), errors.CodeInternal},
		{errors.Conflict("a"), errors.CodeConflict},
		{errors.RateLimit("a"), errors.CodeRateLimit},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, "a", tc.err.Message)
	}
}

//Personal.AI order the ending
