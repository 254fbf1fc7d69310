package imaging

import (
	"math"
	"math/bits"
)

// fft computes an in-place radix-2 Cooley-Tukey transform. len(x) must be
// a power of two.
func fft(x []complex128, inverse bool) {
	n := len(x)
	if n < 2 {
		return
	}

	shift := 64 - uint(bits.Len(uint(n-1)))
	for i := range x {
		j := int(bits.Reverse64(uint64(i)) >> shift)
		if j > i {
			x[i], x[j] = x[j], x[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		ang := 2 * math.Pi / float64(size)
		if !inverse {
			ang = -ang
		}
		wn := complex(math.Cos(ang), math.Sin(ang))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := start; k < start+size/2; k++ {
				u := x[k]
				v := x[k+size/2] * w
				x[k] = u + v
				x[k+size/2] = u - v
				w *= wn
			}
		}
	}

	if inverse {
		inv := complex(1/float64(n), 0)
		for i := range x {
			x[i] *= inv
		}
	}
}

// fft2 transforms a h×w matrix row-by-row then column-by-column. Both
// dimensions must be powers of two.
func fft2(m [][]complex128, inverse bool) {
	for _, row := range m {
		fft(row, inverse)
	}
	h := len(m)
	w := len(m[0])
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = m[y][x]
		}
		fft(col, inverse)
		for y := 0; y < h; y++ {
			m[y][x] = col[y]
		}
	}
}

// prevPow2 returns the largest power of two that is <= n, or 0 for n < 1.
func prevPow2(n int) int {
	if n < 1 {
		return 0
	}
	return 1 << (bits.Len(uint(n)) - 1)
}
