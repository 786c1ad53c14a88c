package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	t.Run("valid path", func(t *testing.T) {
		path, err := ParsePath("m/44'/1234'/0'/0/0")
		require.NoError(t, err)
		assert.Equal(t, []uint32{
			44 + HardenedOffset,
			1234 + HardenedOffset,
			HardenedOffset,
			0,
			0,
		}, path)
	})

	t.Run("h suffix", func(t *testing.T) {
		path, err := ParsePath("m/44h/0")
		require.NoError(t, err)
		assert.Equal(t, []uint32{44 + HardenedOffset, 0}, path)
	})

	t.Run("without m prefix", func(t *testing.T) {
		path, err := ParsePath("0/1")
		require.NoError(t, err)
		assert.Equal(t, []uint32{0, 1}, path)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, bad := range []string{"m/", "m/abc", "m/44''", "m/4294967296"} {
			_, err := ParsePath(bad)
			assert.ErrorIs(t, err, ErrInvalidPath, bad)
		}
	})
}

func TestSoftDeriver(t *testing.T) {
	d, err := NewSoftDeriver([]byte("review engine test seed"))
	require.NoError(t, err)

	path, err := ParsePath("m/44'/1234'/0'/0/0")
	require.NoError(t, err)

	key1, err := d.DerivePublicKey(path)
	require.NoError(t, err)
	require.Len(t, key1, 33)
	assert.Contains(t, []byte{0x02, 0x03}, key1[0])

	// Same path derives the same key, a sibling path a different one.
	key2, err := d.DerivePublicKey(path)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	sibling := append(append([]uint32{}, path[:len(path)-1]...), 1)
	key3, err := d.DerivePublicKey(sibling)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)

	// Derivation does not mutate the tree.
	key4, err := d.DerivePublicKey(path)
	require.NoError(t, err)
	assert.Equal(t, key1, key4)
}
