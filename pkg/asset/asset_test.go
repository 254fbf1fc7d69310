package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Kind
	}{
		{"photo.jpg", Photo},
		{"PHOTO.JPG", Photo},
		{"scan.tiff", Photo},
		{"pic.webp", Photo},
		{"clip.mp4", Video},
		{"clip.MOV", Video},
		{"logo.eps", Vector},
		{"logo.svg", Vector},
		{"notes.txt", Other},
		{"noext", Other},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, KindOf(tc.path), tc.path)
	}
}

func TestAssetAccessors(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	a := New("/media/in/Sunset Beach.JPG")
	require.Equal(Photo, a.Kind)
	require.Equal("Sunset Beach.JPG", a.Name())
	require.Equal(".jpg", a.Ext())
	require.True(a.Raster())

	require.False(New("logo.eps").Raster())
	require.False(New("clip.mp4").Raster())
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScan(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	root := t.TempDir()
	touch(t, filepath.Join(root, "b.jpg"))
	touch(t, filepath.Join(root, "a.mp4"))
	touch(t, filepath.Join(root, "sub", "c.eps"))

	// Ignored: unknown type, dotfile, and terminal folders.
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, ".hidden.jpg"))
	touch(t, filepath.Join(root, "done", "old.jpg"))
	touch(t, filepath.Join(root, "skipped", "blur.jpg"))
	touch(t, filepath.Join(root, "duplicates", "dup.jpg"))

	got, err := Scan(root)
	require.NoError(err)

	var names []string
	for _, a := range got {
		names = append(names, a.Name())
	}
	require.Equal([]string{"a.mp4", "b.jpg", "c.eps"}, names)
}
