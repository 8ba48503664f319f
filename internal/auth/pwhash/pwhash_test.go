package pwhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndValidate(t *testing.T) {
	ph, err := New(16, 10000)
	require.NoError(t, err)

	hash, err := ph.HashPassword("hunter2")
	require.NoError(t, err)

	assert.NoError(t, ph.Validate("hunter2", hash))
	assert.Error(t, ph.Validate("hunter3", hash))
}

func TestHashesAreSalted(t *testing.T) {
	ph, err := New(16, 10000)
	require.NoError(t, err)

	h1, err := ph.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := ph.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NoError(t, ph.Validate("same-password", h1))
	assert.NoError(t, ph.Validate("same-password", h2))
}

func TestMalformedHash(t *testing.T) {
	ph, err := New(16, 10000)
	require.NoError(t, err)

	assert.Error(t, ph.Validate("pw", "no-separator"))
	assert.Error(t, ph.Validate("pw", "!!!:???"))
}

func TestBadConfig(t *testing.T) {
	_, err := New(0, 10000)
	assert.Error(t, err)
	_, err = New(16, 0)
	assert.Error(t, err)
}
