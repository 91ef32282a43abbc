// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lifecycle

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(nil)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestRegisterAndPath(t *testing.T) {
	m := newManager(t)

	ref, err := m.Register("page_1.jpg", []byte("jpeg bytes"))
	require.NoError(t, err)
	require.NotZero(t, ref)

	path, ok := m.Path(ref)
	require.True(t, ok)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
	assert.Equal(t, 1, m.Live())
}

func TestRegister_SameNameNoCollision(t *testing.T) {
	m := newManager(t)

	a, err := m.Register("out.png", []byte("first"))
	require.NoError(t, err)
	b, err := m.Register("out.png", []byte("second"))
	require.NoError(t, err)

	pa, _ := m.Path(a)
	pb, _ := m.Path(b)
	assert.NotEqual(t, pa, pb)
	assert.Equal(t, 2, m.Live())
}

func TestRelease(t *testing.T) {
	m := newManager(t)

	ref, err := m.Register("out.png", []byte("x"))
	require.NoError(t, err)
	path, _ := m.Path(ref)

	m.Release(ref)

	_, ok := m.Path(ref)
	assert.False(t, ok)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, 0, m.Live())

	// Releasing again is a no-op.
	m.Release(ref, 0, 999)
	assert.Equal(t, 0, m.Live())
}

func TestReleaseAll(t *testing.T) {
	m := newManager(t)
	for i := 0; i < 5; i++ {
		_, err := m.Register("f.bin", []byte{byte(i)})
		require.NoError(t, err)
	}
	require.Equal(t, 5, m.Live())

	m.ReleaseAll()
	assert.Equal(t, 0, m.Live())
}
