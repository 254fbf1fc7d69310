package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	black = color.NRGBA{R: 10, G: 10, B: 10, A: 255}
	red   = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
)

func TestClassifyBackground(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	tests := []struct {
		name string
		img  image.Image
		want BackgroundType
	}{
		{"white", flat(96, 96, white), IsolatedWhite},
		{"black", flat(96, 96, black), IsolatedBlack},
		{"solid color", flat(96, 96, red), SolidColor},
		{"busy texture", checkerboard(96, 96, 4), ComplexBackground},
	}

	for _, tc := range tests {
		bg := ClassifyBackground(tc.img)
		require.Equal(tc.want, bg.Type, tc.name)
	}
}

func TestClassifyBackgroundIgnoresCenteredSubject(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	// A large dark subject in the middle of a white sweep must not turn
	// the classification complex: only the border is sampled.
	img := genImage(96, 96, func(x, y int) color.NRGBA {
		if x > 24 && x < 72 && y > 24 && y < 72 {
			return color.NRGBA{R: 60, G: 40, B: 30, A: 255}
		}
		return white
	})

	bg := ClassifyBackground(img)
	require.Equal(IsolatedWhite, bg.Type)
	require.Contains(bg.Tags(), "white background")
	require.Contains(bg.Tags(), "isolated")
}

func TestClassifyBackgroundFileFallback(t *testing.T) {
	require := require.New(t)

	var failed bool
	prev := OnFailure
	OnFailure = func(string, error) { failed = true }
	t.Cleanup(func() { OnFailure = prev })

	bg := ClassifyBackgroundFile(filepath.Join(t.TempDir(), "missing.jpg"))
	require.Equal(ComplexBackground, bg.Type)
	require.Equal("natural background", bg.Description)
	require.True(failed, "fallback path must be observable")
}

func TestBackgroundUniform(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.True(IsolatedWhite.Uniform())
	require.True(IsolatedBlack.Uniform())
	require.True(SolidColor.Uniform())
	require.False(ComplexBackground.Uniform())
	require.Equal("Isolated White", IsolatedWhite.String())
}
