package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFolderTree(t *testing.T) {
	t.Parallel()

	t.Run("merges shared prefixes into one branch", func(t *testing.T) {
		tree := BuildFolderTree([]string{
			"vacation/2024/italy",
			"vacation/2024/spain",
			"vacation/2023",
			"family",
		})

		require.Len(t, tree, 2)
		assert.Equal(t, "family", tree[0].Name)
		assert.Equal(t, "vacation", tree[1].Name)

		vacation := tree[1]
		require.Len(t, vacation.Children, 2)
		assert.Equal(t, "2023", vacation.Children[0].Name)
		assert.Equal(t, "2024", vacation.Children[1].Name)

		y2024 := vacation.Children[1]
		require.Len(t, y2024.Children, 2)
		assert.Equal(t, "vacation/2024/italy", y2024.Children[0].Path)
		assert.Equal(t, "vacation/2024/spain", y2024.Children[1].Path)
	})

	t.Run("ignores empty segments and surrounding slashes", func(t *testing.T) {
		tree := BuildFolderTree([]string{"/a//b/", "a/b"})

		require.Len(t, tree, 1)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "a/b", tree[0].Children[0].Path)
	})

	t.Run("empty input yields an empty tree", func(t *testing.T) {
		assert.Empty(t, BuildFolderTree(nil))
		assert.Empty(t, BuildFolderTree([]string{"", "/"}))
	})

	t.Run("sorting is case-insensitive", func(t *testing.T) {
		tree := BuildFolderTree([]string{"Zoo", "alpha", "Beta"})

		require.Len(t, tree, 3)
		assert.Equal(t, "alpha", tree[0].Name)
		assert.Equal(t, "Beta", tree[1].Name)
		assert.Equal(t, "Zoo", tree[2].Name)
	})
}
