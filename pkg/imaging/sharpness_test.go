package imaging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharpnessOrdering(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	sharp := Sharpness(checkerboard(256, 256, 1))
	soft := Sharpness(hgradient(256, 256, 1))

	require.Greater(sharp, soft, "checkerboard must outscore a smooth gradient")
	require.Greater(sharp, 5.0)
	require.GreaterOrEqual(soft, 0.0)
}

func TestSharpnessFlatImage(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	// A flat image has no residual energy at all once low frequencies
	// are suppressed.
	score := Sharpness(flat(256, 256, white))
	require.Less(score, 1.0)
}

func TestSharpnessTinyImage(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	// Tiles smaller than the suppression square contribute zero.
	require.Zero(Sharpness(checkerboard(20, 20, 1)))
}

func TestSharpnessFileThresholdBypass(t *testing.T) {
	require := require.New(t)

	called := false
	prev := OnFailure
	OnFailure = func(string, error) { called = true }
	t.Cleanup(func() { OnFailure = prev })

	// Threshold <= 0 must return without touching the file: a missing
	// path neither errors nor reports a failure.
	require.Zero(SharpnessFile(filepath.Join(t.TempDir(), "missing.jpg"), 0))
	require.Zero(SharpnessFile(filepath.Join(t.TempDir(), "missing.jpg"), -1))
	require.False(called)
}

func TestSharpnessFileUnreadable(t *testing.T) {
	require := require.New(t)

	var failedPath string
	prev := OnFailure
	OnFailure = func(path string, err error) { failedPath = path }
	t.Cleanup(func() { OnFailure = prev })

	// Unreadable input is permissively scored 0 but observable through
	// the failure hook.
	missing := filepath.Join(t.TempDir(), "missing.jpg")
	require.Zero(SharpnessFile(missing, 5.0))
	require.Equal(missing, failedPath)
}
