package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
)

// BackgroundType classifies what an image's backdrop looks like.
type BackgroundType int

const (
	ComplexBackground BackgroundType = iota
	IsolatedWhite
	IsolatedBlack
	SolidColor
)

// String returns the routing/category label for the background type.
func (t BackgroundType) String() string {
	switch t {
	case IsolatedWhite:
		return "Isolated White"
	case IsolatedBlack:
		return "Isolated Black"
	case SolidColor:
		return "Solid Color"
	default:
		return "Complex"
	}
}

// Uniform reports whether the backdrop is an isolate or solid color, the
// commercially distinct categories that override AI subject routing.
func (t BackgroundType) Uniform() bool {
	return t != ComplexBackground
}

// Background is the classification result for one image.
type Background struct {
	Type        BackgroundType
	Description string
}

// Tags returns the deterministic, commercially high-value keywords implied
// by the background type.
func (b Background) Tags() []string {
	switch b.Type {
	case IsolatedWhite:
		return []string{"white background", "isolated", "high key"}
	case IsolatedBlack:
		return []string{"black background", "low key", "dark"}
	case SolidColor:
		return []string{"isolated", "solid background", "copy space"}
	default:
		return nil
	}
}

const (
	sampleSize = 96 // downsample edge length before patch sampling
	patchSize  = 12 // square patch sampled at each probe point

	// uniformStdDev is the pooled per-channel deviation below which the
	// sampled border is considered a single flat color.
	uniformStdDev = 18.0

	whiteMean = 230.0
	blackMean = 40.0
)

// ClassifyBackground samples small patches at the four corners and
// top-center of the image and decides whether the backdrop is uniform.
// Sampling only the border avoids calling a large centered subject
// "complex" when the actual backdrop is a studio sweep.
func ClassifyBackground(img image.Image) Background {
	small := transform.Resize(img, sampleSize, sampleSize, transform.Linear)

	probes := [][2]int{
		{0, 0},
		{sampleSize - patchSize, 0},
		{0, sampleSize - patchSize},
		{sampleSize - patchSize, sampleSize - patchSize},
		{(sampleSize - patchSize) / 2, 0},
	}

	var sum, sumSq [3]float64
	n := 0
	for _, p := range probes {
		for y := p[1]; y < p[1]+patchSize; y++ {
			for x := p[0]; x < p[0]+patchSize; x++ {
				r, g, b, _ := small.At(x, y).RGBA()
				c := [3]float64{float64(r >> 8), float64(g >> 8), float64(b >> 8)}
				for i, v := range c {
					sum[i] += v
					sumSq[i] += v * v
				}
				n++
			}
		}
	}

	var mean [3]float64
	maxDev := 0.0
	for i := range sum {
		mean[i] = sum[i] / float64(n)
		dev := math.Sqrt(sumSq[i]/float64(n) - mean[i]*mean[i])
		if dev > maxDev {
			maxDev = dev
		}
	}

	if maxDev >= uniformStdDev {
		return Background{Type: ComplexBackground, Description: "natural background"}
	}

	if mean[0] > whiteMean && mean[1] > whiteMean && mean[2] > whiteMean {
		return Background{Type: IsolatedWhite, Description: "clean white background, subject isolated"}
	}
	if mean[0] < blackMean && mean[1] < blackMean && mean[2] < blackMean {
		return Background{Type: IsolatedBlack, Description: "dark low-key background"}
	}
	return Background{Type: SolidColor, Description: "uniform solid color background"}
}

// ClassifyBackgroundFile classifies the image at path. Classification
// never fails: unreadable input falls back to a complex/natural
// background, reported through OnFailure.
func ClassifyBackgroundFile(path string) Background {
	img, err := open(path)
	if err != nil {
		fail(path, err)
		return Background{Type: ComplexBackground, Description: "natural background"}
	}
	return ClassifyBackground(img)
}
