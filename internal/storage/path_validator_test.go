package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	v, err := NewPathValidator(root)
	require.NoError(t, err)

	t.Run("empty and slash resolve to the root", func(t *testing.T) {
		for _, p := range []string{"", "/", "  "} {
			resolved, err := v.ResolvePath(p)
			require.NoError(t, err)
			assert.Equal(t, v.RootAbs(), resolved)
		}
	})

	t.Run("relative paths stay under the root", func(t *testing.T) {
		resolved, err := v.ResolvePath("vacation/2024/beach.jpg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(v.RootAbs(), "vacation", "2024", "beach.jpg"), resolved)
	})

	t.Run("traversal segments are rejected", func(t *testing.T) {
		_, err := v.ResolvePath("../etc/passwd")
		require.Error(t, err)

		_, err = v.ResolvePath("vacation/../../outside")
		require.Error(t, err)
	})

	t.Run("backslashes are treated as separators", func(t *testing.T) {
		_, err := v.ResolvePath(`..\..\outside`)
		require.Error(t, err)
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, err := v.ResolvePath("bad\x00name")
		require.Error(t, err)
	})
}
