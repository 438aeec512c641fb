package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) *LocalFileStorage {
	t.Helper()
	s, err := NewLocalFileStorage(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestLocalFileStorage_SaveUpload(t *testing.T) {
	t.Run("stores content under a timestamped name", func(t *testing.T) {
		s := newTestStorage(t)

		path, err := s.SaveUpload("receipt.pdf", []byte("pdf content"))
		require.NoError(t, err)
		require.FileExists(t, path)
		assert.True(t, strings.HasSuffix(path, "_receipt.pdf"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("pdf content"), data)
	})

	t.Run("collisions get distinct names", func(t *testing.T) {
		s := newTestStorage(t)

		p1, err := s.SaveUpload("receipt.pdf", []byte("first"))
		require.NoError(t, err)
		p2, err := s.SaveUpload("receipt.pdf", []byte("second"))
		require.NoError(t, err)

		assert.NotEqual(t, p1, p2)
	})

	t.Run("strips directory components from the name", func(t *testing.T) {
		s := newTestStorage(t)

		path, err := s.SaveUpload("../../etc/passwd", []byte("nope"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "_passwd"))
		assert.True(t, s.Exists(path))
	})

	t.Run("rejects empty names", func(t *testing.T) {
		s := newTestStorage(t)

		_, err := s.SaveUpload("", []byte("x"))
		assert.Error(t, err)
		_, err = s.SaveUpload("   ", []byte("x"))
		assert.Error(t, err)
	})
}

func TestLocalFileStorage_Exists(t *testing.T) {
	s := newTestStorage(t)

	path, err := s.SaveUpload("a.txt", []byte("x"))
	require.NoError(t, err)

	assert.True(t, s.Exists(path))
	assert.False(t, s.Exists(filepath.Join(filepath.Dir(path), "missing.txt")))
}

func TestNewLocalFileStorage(t *testing.T) {
	t.Run("creates the base directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")
		_, err := NewLocalFileStorage(dir, zap.NewNop())
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}
