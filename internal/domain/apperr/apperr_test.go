package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/platebook/platebook/internal/domain/apperr"
)

func TestKindOf(t *testing.T) {
	err := apperr.New(apperr.KindConflict, "already following %s", "bob")
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "already following bob", err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(wrapped))
	require.True(t, apperr.Is(wrapped, apperr.KindConflict))
}

func TestKindOfUnknownErrorIsInternal(t *testing.T) {
	require.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
	require.Equal(t, apperr.KindInternal, apperr.KindOf(nil))
	require.False(t, apperr.Is(nil, apperr.KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("serialization failure")
	err := apperr.Wrap(apperr.KindTransient, cause, "transaction aborted")
	require.ErrorIs(t, err, cause)
	require.Equal(t, "transaction aborted: serialization failure", err.Error())
	require.Equal(t, "transient", apperr.KindOf(err).String())
}
