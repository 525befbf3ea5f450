package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	b, err := New("test-key")
	require.NoError(t, err)

	sealed, err := b.Seal("sk_live_abcdef")
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "abcdef")

	plain, err := b.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_abcdef", plain)
}

func TestOpenWrongKey(t *testing.T) {
	a, _ := New("one")
	b, _ := New("two")
	sealed, err := a.Seal("secret")
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = b.Open(Prefix + "!!!")
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestOpenPlaintextPassthrough(t *testing.T) {
	b, _ := New("k")
	v, err := b.Open("GHS")
	require.NoError(t, err)
	assert.Equal(t, "GHS", v)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "******6789", Mask("0123456789"))
	assert.Equal(t, "***", Mask("abc"))
}

func TestNewEmptyKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
