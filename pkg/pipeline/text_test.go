package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanTitle(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal("Red barn at dusk", cleanTitle("  Red barn at dusk  "))

	long := strings.Repeat("x", 300)
	require.Len(cleanTitle(long), titleBudget)
}

func TestMergeDescription(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal(
		"Red barn. A barn in a field at dusk.",
		mergeDescription("Red barn.", "A barn in a field at dusk."),
	)
	require.Equal("Red barn.", mergeDescription("Red barn", ""))
	require.Equal("", mergeDescription("", ""))

	// Truncation never leaves trailing punctuation debris.
	merged := mergeDescription(strings.Repeat("word ", 50), "tail")
	require.True(strings.HasSuffix(merged, "."))
	require.False(strings.HasSuffix(merged, " ."))
	require.LessOrEqual(len([]rune(merged)), descBudget+1)
}

func TestSlugFilename(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	got := slugFilename(`Red Barn: "At Dusk"?`, ".jpg")
	require.True(strings.HasPrefix(got, "red-barn-at-dusk-"), got)
	require.True(strings.HasSuffix(got, ".jpg"))

	// Uniqueness suffix keeps two identical titles apart.
	require.NotEqual(got, slugFilename(`Red Barn: "At Dusk"?`, ".jpg"))

	require.True(strings.HasPrefix(slugFilename("???", ".png"), "untitled-"))

	long := slugFilename(strings.Repeat("very long title ", 20), ".jpg")
	require.LessOrEqual(len(long), slugBudget+1+8+4)
}
