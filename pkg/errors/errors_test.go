package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyIP-Layout/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"invalid molecule", errors.ErrCodeInvalidMolecule, "bond references atom 12"},
		{"invalid options", errors.ErrCodeInvalidOptions, "bond length must be positive"},
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

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.ErrCodeInvalidMolecule, "atom %d out of range", 7)
	assert.Equal(t, "atom 7 out of range", ae.Message)
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeLayoutFailed, "layout failed")
	assert.Equal(t, "[LAY_003] layout failed", ae.Error())

	withDetail := ae.WithDetail("3 orphan units")
	assert.Equal(t, "[LAY_003] layout failed: 3 orphan units", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := fmt.Errorf("redis: connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeLayoutCache, "cache read failed")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeInvalidMolecule, "bad bond")
	outer := errors.Wrap(inner, errors.CodeUnknown, "while depicting")

	assert.Equal(t, errors.ErrCodeInvalidMolecule, outer.Code)
}

func TestIsCode_TraversesChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeMoleculeInvalidFormat, "duplicate atom id")
	outer := fmt.Errorf("service: %w", errors.Wrap(inner, errors.ErrCodeInvalidMolecule, "invalid input"))

	assert.True(t, errors.IsCode(outer, errors.ErrCodeInvalidMolecule))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeMoleculeInvalidFormat))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeLayoutCache))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeLayoutCache))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.NotFound("template")))
	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeCacheMiss, "miss")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeInvalidOptions, errors.GetCode(errors.InvalidOptions("bad")))
}

func TestWithCause_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithCause(stderrors.New("x")))
	assert.Nil(t, ae.WithDetail("x"))
}

func TestStack_ContainsCaller(t *testing.T) {
	t.Parallel()

	ae := errors.InvalidMolecule("empty")
	assert.True(t, strings.Contains(ae.Stack, "errors_test.go"))
}
