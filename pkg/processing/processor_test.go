package processing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/image-annotator/pkg/colors"
	"github.com/menta2k/image-annotator/pkg/types"
	"github.com/menta2k/image-annotator/pkg/view"
)

// createTestImage creates a gray image with a bright square in the top-left quarter
func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 && y < height/2 {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{64, 64, 64, 255})
			}
		}
	}
	return img
}

func TestSaveAndLoadImage(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(40, 20)
	dir := t.TempDir()

	for _, format := range []string{"png", "webp"} {
		path := filepath.Join(dir, "test."+format)
		if err := p.SaveImage(img, path, format, 90, true); err != nil {
			t.Fatalf("Expected no error saving %s, got %v", format, err)
		}
		loaded, err := p.LoadImage(path)
		if err != nil {
			t.Fatalf("Expected no error loading %s, got %v", format, err)
		}
		if types.ShapeFromImage(loaded) != types.NewShape(40, 20) {
			t.Errorf("Expected 40x20 for %s, got %v", format, types.ShapeFromImage(loaded))
		}
		if got := loaded.NRGBAAt(1, 1); got.R != 255 {
			t.Errorf("Expected bright pixel in %s, got %v", format, got)
		}
	}
}

func TestLoadImageErrors(t *testing.T) {
	p := NewProcessor()
	if _, err := p.LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.LoadImage(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestValidateImage(t *testing.T) {
	if err := ValidateImage(createTestImage(1, 1)); err != nil {
		t.Errorf("Expected 1x1 image to be valid, got %v", err)
	}
	if err := ValidateImage(image.NewNRGBA(image.Rect(0, 0, 0, 5))); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage, got %v", err)
	}
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(8, 8)); err != nil {
		t.Fatal(err)
	}
	img, err := NewProcessor().DecodeImage(&buf)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("Expected width 8, got %d", img.Bounds().Dx())
	}
}

func TestRenderView(t *testing.T) {
	orig := createTestImage(40, 20)

	v := RenderView(orig, nil, types.NewShape(80, 80))
	if types.ShapeFromImage(v) != types.NewShape(80, 40) {
		t.Errorf("Expected 80x40 view, got %v", types.ShapeFromImage(v))
	}

	zb := types.BB{X: 0, Y: 0, W: 10, H: 10}
	v = RenderView(orig, &zb, types.NewShape(50, 50))
	if types.ShapeFromImage(v) != types.NewShape(50, 50) {
		t.Errorf("Expected 50x50 view, got %v", types.ShapeFromImage(v))
	}
	if got := v.NRGBAAt(49, 49); got.R != 255 {
		t.Errorf("Expected zoomed view to show only the bright square, got %v", got)
	}
}

func TestDrawBoxes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	shapeOrig := types.NewShape(20, 20)
	vc := view.ToViewCorners(types.BB{X: 5, Y: 5, W: 10, H: 10}, shapeOrig, shapeOrig, nil)

	DrawBoxes(img, []BoxOverlay{{Corners: vc, Color: colors.RGB{255, 0, 0}}})

	if got := img.NRGBAAt(5, 5); got.R != 255 || got.A != 255 {
		t.Errorf("Expected red outline at (5, 5), got %v", got)
	}
	if got := img.NRGBAAt(14, 14); got.R != 255 {
		t.Errorf("Expected red outline at (14, 14), got %v", got)
	}
	if got := img.NRGBAAt(10, 10); got.R == 0 || got.R == 255 {
		t.Errorf("Expected blended fill at (10, 10), got %v", got)
	}
	if got := img.NRGBAAt(2, 2); got.R != 0 {
		t.Errorf("Expected untouched pixel outside the box, got %v", got)
	}
}

func TestDrawStrokes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	DrawStrokes(img, []StrokeOverlay{{
		Points: []types.Point{types.Pt(0, 0), types.Pt(9, 9)},
		Color:  colors.RGB{0, 255, 0},
	}})

	for i := 0; i < 10; i++ {
		if got := img.NRGBAAt(i, i); got.G != 255 {
			t.Errorf("Expected diagonal pixel (%d, %d) to be green, got %v", i, i, got)
		}
	}
	if got := img.NRGBAAt(9, 0); got.G != 0 {
		t.Errorf("Expected off-diagonal pixel to stay empty, got %v", got)
	}
}

func TestLoadingImage(t *testing.T) {
	img := LoadingImage(types.NewShape(64, 32))
	if types.ShapeFromImage(img) != types.NewShape(64, 32) {
		t.Fatalf("Expected 64x32, got %v", types.ShapeFromImage(img))
	}
	if img.NRGBAAt(0, 0) == img.NRGBAAt(loadingTile, 0) {
		t.Error("Expected neighboring tiles to differ")
	}
}

func BenchmarkRenderView(b *testing.B) {
	orig := createTestImage(1024, 768)
	zb := types.BB{X: 100, Y: 100, W: 400, H: 300}
	for i := 0; i < b.N; i++ {
		RenderView(orig, &zb, types.NewShape(800, 600))
	}
}
