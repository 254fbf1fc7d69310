package imaging

import (
	"image"
	"math/bits"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
)

const (
	hashSize  = 8 // dHash grid: (hashSize+1)×hashSize comparisons
	hashBits  = hashSize * hashSize
	colorGrid = 9 // color signature: colorGrid×colorGrid RGB samples

	// structuralVeto short-circuits comparison: below this structural
	// similarity two images cannot be duplicates, so the color stage is
	// skipped entirely.
	structuralVeto = 70.0
)

// Fingerprint is the perceptual identity of one image: a gradient-based
// structural hash plus a coarse color signature. Structure alone is not
// enough to declare a duplicate; the same pose recolored must not match.
type Fingerprint struct {
	Struct uint64
	Color  []float64
}

// ComputeFingerprint derives the fingerprint for img. The same bytes
// always produce a bit-identical result.
func ComputeFingerprint(img image.Image) Fingerprint {
	gray := effect.Grayscale(transform.Resize(img, hashSize+1, hashSize, transform.Linear))

	var h uint64
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			l, _, _, _ := gray.At(x, y).RGBA()
			r, _, _, _ := gray.At(x+1, y).RGBA()
			h <<= 1
			if l < r {
				h |= 1
			}
		}
	}

	small := transform.Resize(img, colorGrid, colorGrid, transform.Linear)
	sig := make([]float64, 0, colorGrid*colorGrid*3)
	for y := 0; y < colorGrid; y++ {
		for x := 0; x < colorGrid; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			sig = append(sig, float64(r>>8), float64(g>>8), float64(b>>8))
		}
	}

	return Fingerprint{Struct: h, Color: sig}
}

// ComputeFingerprintFile fingerprints the image at path.
func ComputeFingerprintFile(path string) (Fingerprint, error) {
	img, err := open(path)
	if err != nil {
		return Fingerprint{}, err
	}
	return ComputeFingerprint(img), nil
}

// StructuralSimilarity is the percentage of matching bits between two
// structural hashes.
func StructuralSimilarity(a, b uint64) float64 {
	return float64(hashBits-bits.OnesCount64(a^b)) / float64(hashBits) * 100
}

// ColorSimilarity compares two color signatures by mean absolute channel
// difference, scaled to a 0-100 percentage.
func ColorSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	sim := 100 - sum/float64(len(a))
	if sim < 0 {
		return 0
	}
	return sim
}

// Compare returns the duplicate similarity between two fingerprints as a
// percentage. Structural similarity below the veto threshold is returned
// as-is; otherwise the result is the lower of the structural and color
// similarities, so both must independently indicate closeness.
func Compare(a, b Fingerprint) float64 {
	ss := StructuralSimilarity(a.Struct, b.Struct)
	if ss < structuralVeto {
		return ss
	}
	cs := ColorSimilarity(a.Color, b.Color)
	if cs < ss {
		return cs
	}
	return ss
}
