// Package errors_test covers the AppError type, factory functions and the
// error-chain helpers.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molrad/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"configuration", errors.CodeConfiguration, "rpow must be > 0"},
		{"shape mismatch", errors.CodeShapeMismatch, "mask does not broadcast"},
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
			assert.Contains(t, ae.Stack, "errors_test.go")
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeShapeMismatch, "mask does not broadcast")
	assert.Equal(t, "[RAD_002] mask does not broadcast", ae.Error())

	withDetail := ae.WithDetail("mask=[4] distances=[2 3]")
	assert.Equal(t, "[RAD_002] mask does not broadcast: mask=[4] distances=[2 3]", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestNewf(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.CodeConfiguration, "level %d: rpow must be > 0", 2)
	assert.Equal(t, "level 2: rpow must be > 0", ae.Message)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.NewConfigurationError("trig_basis must be > 0")
	outer := errors.Wrap(inner, errors.CodeUnknown, "level 1")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeConfiguration, outer.Code)
	assert.True(t, errors.IsConfigurationError(outer))
	assert.Same(t, inner, stderrors.Unwrap(outer))
}

func TestWrap_OverridesCode(t *testing.T) {
	t.Parallel()

	outer := errors.Wrap(fmt.Errorf("boom"), errors.CodeInternal, "forward failed")
	assert.Equal(t, errors.CodeInternal, outer.Code)
	assert.Contains(t, outer.Error(), "boom")
}

func TestWithCause_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithCause(fmt.Errorf("x")))
	assert.Nil(t, ae.WithDetail("x"))
}

func TestIsCode_ThroughFmtWrapping(t *testing.T) {
	t.Parallel()

	base := errors.NewShapeMismatchError("bad mask")
	wrapped := fmt.Errorf("handler: %w", base)

	assert.True(t, errors.IsCode(wrapped, errors.CodeShapeMismatch))
	assert.True(t, errors.IsShapeMismatchError(wrapped))
	assert.False(t, errors.IsConfigurationError(wrapped))
}

func TestIsConfigurationError_IncludesUnsupportedBackend(t *testing.T) {
	t.Parallel()

	err := errors.New(errors.CodeUnsupportedBackend, "device cuda is not available")
	assert.True(t, errors.IsConfigurationError(err))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(errors.NotFound("level 7")))
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(errors.InvalidParam("bad")))
	assert.Equal(t, errors.CodeInternal, errors.GetCode(errors.Internal("bad")))
}

func TestAsAndIs(t *testing.T) {
	inner := errors.NewShapeMismatchError("bad mask")
	wrapped := fmt.Errorf("outer: %w", inner)

	var ae *errors.AppError
	require.True(t, errors.As(wrapped, &ae))
	assert.Equal(t, errors.CodeShapeMismatch, ae.Code)
	assert.True(t, errors.Is(wrapped, inner))
}

//Personal.AI order the ending
