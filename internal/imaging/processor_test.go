package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, width int, height int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestGenerateVariants_SkipsUpscaling(t *testing.T) {
	root := t.TempDir()
	original := filepath.Join(root, "2024", "trip", "beach.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(original), 0o755))
	writeTestPNG(t, original, 600, 400)

	p := NewProcessor(root, "variants")
	require.NoError(t, p.GenerateVariants(original))

	// 480 is below the source width, 680 and up would upscale.
	assert.FileExists(t, p.VariantPath(filepath.Join("2024", "trip", "beach.png"), 480))
	assert.FileExists(t, p.VariantPath(filepath.Join("2024", "trip", "beach.png"), ThumbnailWidth))
	for _, width := range []int{680, 800, 1024, 1280} {
		assert.NoFileExists(t, p.VariantPath(filepath.Join("2024", "trip", "beach.png"), width), "width %d", width)
	}
}

func TestGenerateVariants_AllWidthsForLargeSource(t *testing.T) {
	root := t.TempDir()
	original := filepath.Join(root, "pano.png")
	writeTestPNG(t, original, 1600, 900)

	p := NewProcessor(root, "variants")
	require.NoError(t, p.GenerateVariants(original))

	for _, width := range VariantWidths {
		assert.FileExists(t, p.VariantPath("pano.png", width), "width %d", width)
	}
}

func TestDeleteVariants(t *testing.T) {
	root := t.TempDir()
	original := filepath.Join(root, "pano.png")
	writeTestPNG(t, original, 1600, 900)

	p := NewProcessor(root, "variants")
	require.NoError(t, p.GenerateVariants(original))

	p.DeleteVariants("pano.png")

	for _, width := range VariantWidths {
		assert.NoFileExists(t, p.VariantPath("pano.png", width))
	}
	assert.NoFileExists(t, p.VariantPath("pano.png", ThumbnailWidth))
}

func TestGenerateVariants_RejectsNonImage(t *testing.T) {
	root := t.TempDir()
	bogus := filepath.Join(root, "not-an-image.png")
	require.NoError(t, os.WriteFile(bogus, []byte("plain text"), 0o644))

	p := NewProcessor(root, "variants")
	assert.Error(t, p.GenerateVariants(bogus))
}

func TestExtractMetadata_DimensionsWithoutEXIF(t *testing.T) {
	root := t.TempDir()
	original := filepath.Join(root, "plain.png")
	writeTestPNG(t, original, 320, 240)

	meta, width, height, err := ExtractMetadata(original)
	require.NoError(t, err)
	assert.Equal(t, 320, width)
	assert.Equal(t, 240, height)
	assert.False(t, meta.TakenAt.IsZero())
	assert.Empty(t, meta.Make)
}
