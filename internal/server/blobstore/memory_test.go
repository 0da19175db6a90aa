package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("local")
	var _ Store = m

	data := []byte("world")
	require.NoError(t, m.Put(ctx, "abc.input", data))
	data[0] = 'W'

	got, err := m.Get(ctx, "abc.input")
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), got, "stored bytes must not alias the caller's slice")
	assert.Equal(t, "local", m.Bucket())
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, "abc.input"))
	require.NoError(t, m.Delete(ctx, "abc.input"))
	_, err = m.Get(ctx, "abc.input")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
