package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// VariantWidths are the target widths generated for every uploaded photo.
// Widths larger than the source image are skipped.
var VariantWidths = []int{480, 680, 800, 1024, 1280}

// ThumbnailWidth is the small grid preview generated alongside the variants.
const ThumbnailWidth = 256

// Processor generates scaled JPEG variants of uploaded photos underneath a
// variants directory that mirrors the media tree.
type Processor struct {
	mediaRoot   string
	variantsDir string
	quality     int
}

func NewProcessor(mediaRoot, variantsSubdir string) *Processor {
	return &Processor{
		mediaRoot:   mediaRoot,
		variantsDir: filepath.Join(mediaRoot, variantsSubdir),
		quality:     85,
	}
}

// GenerateVariants decodes the photo at fullPath and writes one scaled JPEG
// per entry in VariantWidths, plus a thumbnail. fullPath must already be a
// resolved path under the media root. Generation is best effort per width: a
// failing width is logged and the remaining widths are still produced.
func (p *Processor) GenerateVariants(fullPath string) error {
	src, bounds, err := decodeImage(fullPath)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(p.mediaRoot, fullPath)
	if err != nil {
		return fmt.Errorf("variant path outside media root: %w", err)
	}

	widths := append([]int{ThumbnailWidth}, VariantWidths...)
	for _, width := range widths {
		if width >= bounds.Dx() && width != ThumbnailWidth {
			continue
		}
		if err := p.writeVariant(src, bounds, rel, width); err != nil {
			slog.Warn("variant generation failed", "file", rel, "width", width, "error", err)
		}
	}

	return nil
}

// DeleteVariants removes every generated variant of the given media-relative
// file. Missing variants are not an error.
func (p *Processor) DeleteVariants(relPath string) {
	widths := append([]int{ThumbnailWidth}, VariantWidths...)
	for _, width := range widths {
		_ = os.Remove(p.variantPath(relPath, width))
	}
}

// VariantPath returns the on-disk location of a generated variant for a
// media-relative path. The caller is responsible for existence checks.
func (p *Processor) VariantPath(relPath string, width int) string {
	return p.variantPath(relPath, width)
}

func (p *Processor) writeVariant(src image.Image, bounds image.Rectangle, relPath string, width int) error {
	outPath := p.variantPath(relPath, width)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	scaled := scaleToWidth(src, bounds, width)

	out, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	encodeErr := jpeg.Encode(out, scaled, &jpeg.Options{Quality: p.quality})
	closeErr := out.Close()
	if encodeErr != nil {
		return encodeErr
	}
	return closeErr
}

func (p *Processor) variantPath(relPath string, width int) string {
	dir := filepath.Dir(relPath)
	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	name := fmt.Sprintf("%s_%d.jpg", base, width)
	return filepath.Join(p.variantsDir, dir, name)
}

func decodeImage(fullPath string) (image.Image, image.Rectangle, error) {
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("decode %s: %w", filepath.Base(fullPath), err)
	}
	return src, src.Bounds(), nil
}

func scaleToWidth(src image.Image, bounds image.Rectangle, width int) image.Image {
	scale := float64(width) / float64(bounds.Dx())
	if scale > 1 {
		scale = 1
	}

	targetWidth := int(math.Round(float64(bounds.Dx()) * scale))
	targetHeight := int(math.Round(float64(bounds.Dy()) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
