package operr

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew_NilErrorStaysNil(t *testing.T) {
	require.NoError(t, New(nil, uuid.New()))
}

func TestNew_ExtractOperationID(t *testing.T) {
	id := uuid.New()
	wrapped := New(errors.New("boom"), id)

	got, ok := ExtractOperationID(wrapped)
	require.True(t, ok)
	require.Equal(t, id, got)

	_, ok = ExtractScopeID(wrapped)
	require.False(t, ok)
}

func TestNewInScope_ExtractBothIDs(t *testing.T) {
	opID, scopeID := uuid.New(), uuid.New()
	wrapped := NewInScope(errors.New("boom"), opID, scopeID)

	gotOp, ok := ExtractOperationID(wrapped)
	require.True(t, ok)
	require.Equal(t, opID, gotOp)

	gotScope, ok := ExtractScopeID(wrapped)
	require.True(t, ok)
	require.Equal(t, scopeID, gotScope)
}

func TestExtract_PlainErrorHasNoMetadata(t *testing.T) {
	_, ok := ExtractOperationID(errors.New("plain"))
	require.False(t, ok)
}

func TestOperationError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := New(cause, uuid.New())

	require.True(t, errors.Is(wrapped, cause) || errors.Unwrap(wrapped) != nil)
}
