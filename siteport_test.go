package siteport_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := siteport.Errorf(siteport.ENOTFOUND, "document %q not found", "test")

	assert.Equal(t, siteport.ENOTFOUND, siteport.ErrorCode(err))
	assert.Equal(t, "document \"test\" not found", siteport.ErrorMessage(err))
}

func TestErrorf_PreservesWrappedError(t *testing.T) {
	t.Parallel()

	err := siteport.Errorf(siteport.ENAVIGATION, "navigate: %w", context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "navigate: context deadline exceeded", siteport.ErrorMessage(err))
}

func TestErrorCode_WrappedApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", siteport.Errorf(siteport.ECORRUPT, "bad json"))

	assert.Equal(t, siteport.ECORRUPT, siteport.ErrorCode(err))
	assert.Equal(t, "bad json", siteport.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, siteport.ErrorCode(nil))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, siteport.EINTERNAL, siteport.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, siteport.ErrorMessage(nil))
}

func TestErrorMessage_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "boom", siteport.ErrorMessage(errors.New("boom")))
}

func TestIsExtractionFailed(t *testing.T) {
	t.Parallel()

	for _, code := range []string{siteport.ENAVIGATION, siteport.ETIMEOUT, siteport.ENOCONTENT, siteport.EEMPTY} {
		assert.True(t, siteport.IsExtractionFailed(siteport.Errorf(code, "x")), code)
	}
	assert.False(t, siteport.IsExtractionFailed(siteport.Errorf(siteport.ECAPTURE, "x")))
	assert.False(t, siteport.IsExtractionFailed(errors.New("plain")))
	assert.False(t, siteport.IsExtractionFailed(nil))
}
