package imaging

import (
	"image"
	"math"
	"math/cmplx"
	"sort"
)

const (
	// sharpnessWidth bounds the analysis resolution; larger inputs are
	// scaled down before scoring.
	sharpnessWidth = 768

	// tileGrid splits the image into tileGrid×tileGrid regions that are
	// scored independently.
	tileGrid = 3

	// suppressRadius is the half-width of the low-frequency square zeroed
	// out of each tile's spectrum before measuring residual energy.
	suppressRadius = 8

	// topTiles is how many of the sharpest tiles are averaged into the
	// final score. Scoring only the sharpest regions keeps intentional
	// bokeh from dragging down an in-focus subject.
	topTiles = 3
)

// Sharpness returns a non-negative focus score for img based on
// high-frequency spectral energy. The score has no absolute "blurry"
// cutoff; callers compare it against their own threshold.
func Sharpness(img image.Image) float64 {
	lum := luminance(shrink(img, sharpnessWidth))
	h := len(lum)
	if h == 0 {
		return 0
	}
	w := len(lum[0])

	th := h / tileGrid
	tw := w / tileGrid
	scores := make([]float64, 0, tileGrid*tileGrid)
	for ty := 0; ty < tileGrid; ty++ {
		for tx := 0; tx < tileGrid; tx++ {
			scores = append(scores, tileSharpness(lum, tx*tw, ty*th, tw, th))
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	n := topTiles
	if len(scores) < n {
		n = len(scores)
	}
	sum := 0.0
	for _, s := range scores[:n] {
		sum += s
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SharpnessFile scores the image at path. A threshold <= 0 means the
// caller opted out of blur checking, so the file is not even decoded.
// Unreadable input also yields 0: the permissive default treats images we
// could not analyze as "not blurry", and is reported through OnFailure.
func SharpnessFile(path string, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}
	img, err := open(path)
	if err != nil {
		fail(path, err)
		return 0
	}
	return Sharpness(img)
}

// tileSharpness measures the mean log-magnitude that remains in one tile
// after its low-frequency content is suppressed. Tiles too small to hold
// the suppression square score 0.
func tileSharpness(lum [][]float64, x0, y0, w, h int) float64 {
	fw := prevPow2(w)
	fh := prevPow2(h)
	if fw < 2*suppressRadius || fh < 2*suppressRadius {
		return 0
	}

	m := make([][]complex128, fh)
	for y := range m {
		row := make([]complex128, fw)
		for x := range row {
			row[x] = complex(lum[y0+y][x0+x], 0)
		}
		m[y] = row
	}

	fft2(m, false)

	// Low frequencies sit at the spectrum's wrap-around corners; zero
	// every bin whose distance from DC is within the radius on both axes.
	for y := 0; y < fh; y++ {
		dy := y
		if dy > fh-dy {
			dy = fh - dy
		}
		if dy >= suppressRadius {
			continue
		}
		for x := 0; x < fw; x++ {
			dx := x
			if dx > fw-dx {
				dx = fw - dx
			}
			if dx < suppressRadius {
				m[y][x] = 0
			}
		}
	}

	fft2(m, true)

	sum := 0.0
	for y := 0; y < fh; y++ {
		for x := 0; x < fw; x++ {
			sum += 20 * math.Log1p(cmplx.Abs(m[y][x]))
		}
	}
	return sum / float64(fw*fh)
}
