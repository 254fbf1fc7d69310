// Package metatags writes generated metadata into media files via
// exiftool and probes files for existing descriptions.
package metatags

import (
	"fmt"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"

	"stockmeta/pkg/pipeline"
)

// Fields whose presence marks an asset as already tagged.
var descriptionFields = []string{"Description", "ImageDescription", "Caption-Abstract"}

// Writer wraps a long-lived exiftool process.
type Writer struct {
	et *exiftool.Exiftool
}

// NewWriter starts the exiftool sidecar process.
func NewWriter() (*Writer, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Writer{et: et}, nil
}

// Close shuts down the exiftool process.
func (w *Writer) Close() error {
	return w.et.Close()
}

// Write applies the tag set to the file at path.
func (w *Writer) Write(path string, tags pipeline.TagSet) error {
	fms := w.et.ExtractMetadata(path)
	fm := fms[0]
	if fm.Err != nil {
		return fmt.Errorf("extract %s: %w", path, fm.Err)
	}

	for key, val := range tags {
		switch v := val.(type) {
		case string:
			fm.SetString(key, v)
		case []string:
			fm.SetStrings(key, v)
		default:
			return fmt.Errorf("unsupported tag value for %s: %T", key, val)
		}
	}

	w.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("write %s: %w", path, fms[0].Err)
	}
	klog.V(1).Infof("wrote %d tags to %s", len(tags), path)
	return nil
}

// HasDescription reports whether path already carries a non-empty
// description/caption tag under any of the common schemas.
func (w *Writer) HasDescription(path string) (bool, error) {
	fms := w.et.ExtractMetadata(path)
	fm := fms[0]
	if fm.Err != nil {
		return false, fmt.Errorf("extract %s: %w", path, fm.Err)
	}
	for _, field := range descriptionFields {
		if s, err := fm.GetString(field); err == nil && s != "" {
			return true, nil
		}
	}
	return false, nil
}
