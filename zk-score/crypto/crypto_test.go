package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedSecret(t *testing.T) {
	alice, err := NewKey()
	require.NoError(t, err)
	bob, err := NewKey()
	require.NoError(t, err)
	require.True(t, alice.PublicKey.A.IsOnCurve())

	ab, err := SharedSecret(alice, &bob.PublicKey)
	require.NoError(t, err)
	ba, err := SharedSecret(bob, &alice.PublicKey)
	require.NoError(t, err)
	require.Equal(t, ab, ba)

	k1, n1, err := DeriveKey(ab)
	require.NoError(t, err)
	k2, n2, err := DeriveKey(ba)
	require.NoError(t, err)
	require.Len(t, k1, KeySize)
	require.Len(t, n1, NonceSize)
	require.Equal(t, k1, k2)
	require.Equal(t, n1, n2)

	_, _, err = DeriveKey(ab[:16])
	require.Error(t, err)
}

func TestSealOpen(t *testing.T) {
	player, err := NewKey()
	require.NoError(t, err)
	other, err := NewKey()
	require.NoError(t, err)

	msg := []byte("day 1: 50 cups at $2.00")
	sealed, err := Seal(&player.PublicKey, msg)
	require.NoError(t, err)

	opened, err := Open(player, sealed)
	require.NoError(t, err)
	require.Equal(t, msg, opened)

	_, err = Open(other, sealed)
	require.Error(t, err)

	sealed[len(sealed)-1] ^= 0x01
	_, err = Open(player, sealed)
	require.Error(t, err)

	_, err = Open(player, sealed[:10])
	require.ErrorIs(t, err, ErrSealedTooShort)
}
