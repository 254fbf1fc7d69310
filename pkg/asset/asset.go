// Package asset models input media files and their discovery.
package asset

import (
	"path/filepath"
	"strings"
)

// Kind is the coarse media type of an asset, derived purely from its
// file extension.
type Kind string

const (
	Photo  Kind = "Photo"
	Video  Kind = "Video"
	Vector Kind = "Vector"
	Other  Kind = "Other"
)

var kindByExt = map[string]Kind{
	".jpg":  Photo,
	".jpeg": Photo,
	".png":  Photo,
	".tif":  Photo,
	".tiff": Photo,
	".webp": Photo,
	".mp4":  Video,
	".mov":  Video,
	".avi":  Video,
	".mkv":  Video,
	".eps":  Vector,
	".ai":   Vector,
	".svg":  Vector,
}

// KindOf returns the Kind for a path based on its extension.
func KindOf(path string) Kind {
	if k, ok := kindByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return k
	}
	return Other
}

// Asset is one input media file under consideration. It is read-only
// throughout the pipeline until its single terminal move.
type Asset struct {
	Path string
	Kind Kind
}

// New returns an Asset for path.
func New(path string) Asset {
	return Asset{Path: path, Kind: KindOf(path)}
}

// Name returns the base filename of the asset.
func (a Asset) Name() string {
	return filepath.Base(a.Path)
}

// Ext returns the lower-cased extension, including the dot.
func (a Asset) Ext() string {
	return strings.ToLower(filepath.Ext(a.Path))
}

// Raster reports whether embedded IPTC/EXIF tags can be written directly
// into the file.
func (a Asset) Raster() bool {
	switch a.Ext() {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff":
		return true
	}
	return false
}
