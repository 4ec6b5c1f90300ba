package pathutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGoMod(t *testing.T, dir, module string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+module+"\n"), 0o644)
	require.NoError(t, err)
}

func TestFindModuleRootFrom(t *testing.T) {
	t.Run("finds go.mod in the given directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeGoMod(t, tmpDir, "test")

		root, err := FindModuleRootFrom(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, tmpDir, root)
	})

	t.Run("finds go.mod multiple levels up", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeGoMod(t, tmpDir, "test")
		deepDir := filepath.Join(tmpDir, "a", "b", "c")
		require.NoError(t, os.MkdirAll(deepDir, 0o755))

		root, err := FindModuleRootFrom(deepDir)
		require.NoError(t, err)
		assert.Equal(t, tmpDir, root)
	})

	t.Run("stops at nearest go.mod", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeGoMod(t, tmpDir, "root")
		nestedDir := filepath.Join(tmpDir, "nested")
		require.NoError(t, os.Mkdir(nestedDir, 0o755))
		writeGoMod(t, nestedDir, "nested")

		root, err := FindModuleRootFrom(nestedDir)
		require.NoError(t, err)
		assert.Equal(t, nestedDir, root)
	})

	t.Run("ignores go.mod directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "go.mod"), 0o755))

		root, err := FindModuleRootFrom(tmpDir)
		if err != nil {
			assert.Contains(t, err.Error(), "go.mod not found")
			return
		}
		assert.NotEqual(t, tmpDir, root)
	})
}

func TestFindModuleRoot(t *testing.T) {
	root, err := FindModuleRoot()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "go.mod"))
	require.NoError(t, err, "go.mod should exist at returned root path")
}
