package preprocess

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/require"

	"stockmeta/pkg/asset"
	"stockmeta/pkg/imaging"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func saveJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, imgio.Save(path, img, imgio.JPEGEncoder(95)))
}

func TestPreparePhotoWhiteBackground(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "product.jpg")
	saveJPEG(t, path, solidImage(300, 200, color.NRGBA{R: 250, G: 250, B: 250, A: 255}))

	an, err := Prepare(asset.New(path), Options{})
	require.NoError(err)

	require.Equal(imaging.IsolatedWhite, an.Background.Type)
	require.Contains(an.Context, "Horizontal photo.")
	require.Contains(an.Context, "white background")
	require.NotContains(an.Context, "sharp focus", "no blur gate, no focus claim")
	require.Contains(an.TechTags, "horizontal")
	require.Contains(an.TechTags, "isolated")

	// The payload must be a decodable JPEG.
	img, derr := jpeg.Decode(bytes.NewReader(an.Bytes))
	require.NoError(derr)
	require.Equal(300, img.Bounds().Dx())
}

func TestPreparePhotoBlurGate(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "soft.jpg")
	saveJPEG(t, path, solidImage(256, 256, color.NRGBA{R: 128, G: 128, B: 128, A: 255}))

	_, err := Prepare(asset.New(path), Options{BlurThreshold: 5.0})
	var be *BlurError
	require.ErrorAs(err, &be)
	require.Less(be.Score, 5.0)
}

func TestPrepareVideoStubbed(t *testing.T) {
	require := require.New(t)

	prev := ExtractFrame
	ExtractFrame = func(path, outPath string) error {
		return imgio.Save(outPath, solidImage(200, 400, color.NRGBA{R: 90, G: 90, B: 200, A: 255}), imgio.JPEGEncoder(90))
	}
	t.Cleanup(func() { ExtractFrame = prev })

	src := filepath.Join(t.TempDir(), "clip.mp4")
	touchFile(t, src)

	an, err := Prepare(asset.New(src), Options{})
	require.NoError(err)
	require.Contains(an.Context, "Vertical stock footage")
	require.Equal([]string{"vertical"}, an.TechTags)
	require.NotEmpty(an.Bytes)
}

func TestPrepareVideoExtractFails(t *testing.T) {
	require := require.New(t)

	prev := ExtractFrame
	ExtractFrame = func(path, outPath string) error { return errors.New("codec") }
	t.Cleanup(func() { ExtractFrame = prev })

	_, err := Prepare(asset.New("clip.mp4"), Options{})
	require.Error(err)
	require.Contains(err.Error(), "extract frame")
}

func TestPrepareVectorStubbed(t *testing.T) {
	require := require.New(t)

	prev := Rasterize
	var gotDPI int
	Rasterize = func(path, outPath string, dpi int) error {
		gotDPI = dpi
		return imgio.Save(outPath, solidImage(300, 300, color.NRGBA{R: 255, G: 200, B: 0, A: 255}), imgio.JPEGEncoder(90))
	}
	t.Cleanup(func() { Rasterize = prev })

	src := filepath.Join(t.TempDir(), "logo.eps")
	touchFile(t, src)

	an, err := Prepare(asset.New(src), Options{})
	require.NoError(err)
	require.Equal(rasterDPI, gotDPI)
	require.Contains(an.Context, "Vector illustration")
	require.Equal([]string{"square"}, an.TechTags)
}

func TestBound(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	small := solidImage(800, 600, color.NRGBA{A: 255})
	require.Equal(small.Bounds(), bound(small).Bounds(), "small images pass through untouched")

	wide := bound(solidImage(2048, 1024, color.NRGBA{A: 255}))
	require.Equal(1024, wide.Bounds().Dx())
	require.Equal(512, wide.Bounds().Dy())

	tall := bound(solidImage(1000, 4000, color.NRGBA{A: 255}))
	require.Equal(1024, tall.Bounds().Dy())
	require.Equal(256, tall.Bounds().Dx())
}

func TestOrientation(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal("horizontal", orientation(solidImage(2, 1, color.NRGBA{})))
	require.Equal("vertical", orientation(solidImage(1, 2, color.NRGBA{})))
	require.Equal("square", orientation(solidImage(2, 2, color.NRGBA{})))
}

// touchFile creates a placeholder source; the stubbed external tools never
// read it.
func touchFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o644))
}
