package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompressor_RoundTrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	payload := bytes.Repeat([]byte(`{"totalTabsOpened":1}`), 100)
	packed, err := c.Compress(payload)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(payload))
	assert.True(t, isZstdFrame(packed))

	unpacked, err := c.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, payload, unpacked)
}

func TestZstdCompressor_DecompressGarbage(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress([]byte("definitely not zstd"))
	assert.Error(t, err)
}

func TestIsZstdFrame_PlainJSON(t *testing.T) {
	assert.False(t, isZstdFrame([]byte(`{"items":{}}`)))
	assert.False(t, isZstdFrame(nil))
}
