package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	state, err := adapter.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Sales)
	assert.Nil(t, adapter.Raw())

	require.NoError(t, adapter.Save(ctx, sampleState()))
	state, err = adapter.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Sales, 1)

	adapter.SetRaw([]byte("]["))
	_, err = adapter.Load(ctx)
	assert.ErrorIs(t, err, ErrMalformedState)
}
