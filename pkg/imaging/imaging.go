// Package imaging implements the local image analysis used to pre-filter
// assets before any paid AI call: sharpness scoring, background
// classification, and perceptual duplicate detection.
package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// OnFailure is invoked whenever an analysis falls back to its permissive
// default because an input could not be read or decoded. Tests and
// telemetry can hook it; by default failures are only logged.
var OnFailure = func(path string, err error) {}

func fail(path string, err error) {
	klog.V(1).Infof("analysis fallback for %s: %v", path, err)
	OnFailure(path, err)
}

func open(path string) (image.Image, error) {
	return imgio.Open(path)
}

// luminance returns the image as a row-major grayscale matrix with values
// in [0, 255].
func luminance(img image.Image) [][]float64 {
	gray := effect.Grayscale(img)
	b := gray.Bounds()
	m := make([][]float64, b.Dy())
	for y := range m {
		row := make([]float64, b.Dx())
		for x := range row {
			r, _, _, _ := gray.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = float64(r >> 8)
		}
		m[y] = row
	}
	return m
}

// shrink scales img down so its width is at most maxW, preserving aspect
// ratio. Images already within bounds are returned unchanged.
func shrink(img image.Image, maxW int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxW || w == 0 || h == 0 {
		return img
	}
	scale := float64(w) / float64(maxW)
	return transform.Resize(img, maxW, int(float64(h)/scale), transform.Lanczos)
}
