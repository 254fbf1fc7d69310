// Package preprocess produces the analysis image actually sent to the AI
// backend: a bounded JPEG rendition of a photo, a representative video
// frame, or a rasterized vector, plus a natural-language technical context
// string describing what is deterministically known about the asset.
package preprocess

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"stockmeta/pkg/asset"
	"stockmeta/pkg/imaging"
)

const (
	// maxDimension bounds the long edge of the analysis image.
	maxDimension = 1024
	jpegQuality  = 85
)

// Options control preparation.
type Options struct {
	// BlurThreshold rejects photos scoring below it. <= 0 disables the
	// blur gate entirely.
	BlurThreshold float64
}

// BlurError signals that a photo failed the blur gate before any paid
// work was done on it.
type BlurError struct {
	Score float64
}

func (e *BlurError) Error() string {
	return fmt.Sprintf("sharpness %.2f below threshold", e.Score)
}

// Analysis is what the AI call consumes.
type Analysis struct {
	Bytes      []byte
	Context    string
	TechTags   []string
	Background imaging.Background
	Sharpness  float64
}

// Prepare builds the analysis rendition for a. Every failure path returns
// an explicit error; this stage never hangs the pipeline.
func Prepare(a asset.Asset, opts Options) (*Analysis, error) {
	switch a.Kind {
	case asset.Photo:
		return preparePhoto(a, opts)
	case asset.Video:
		return prepareVideo(a)
	case asset.Vector:
		return prepareVector(a)
	default:
		bs, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return &Analysis{Bytes: bs, Context: "Stock media file."}, nil
	}
}

func preparePhoto(a asset.Asset, opts Options) (*Analysis, error) {
	img, err := imgio.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.Name(), err)
	}

	score := 0.0
	if opts.BlurThreshold > 0 {
		score = imaging.Sharpness(img)
		klog.V(1).Infof("sharpness %.2f for %s (threshold %.2f)", score, a.Name(), opts.BlurThreshold)
		if score < opts.BlurThreshold {
			return nil, &BlurError{Score: score}
		}
	}

	small := bound(img)
	bg := imaging.ClassifyBackground(small)

	bs, err := encodeJPEG(small)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	orient := orientation(img)
	var ctx strings.Builder
	fmt.Fprintf(&ctx, "%s photo.", capitalize(orient))
	switch bg.Type {
	case imaging.IsolatedWhite:
		ctx.WriteString(" The image has a clean white background, suitable for isolation.")
	case imaging.IsolatedBlack:
		ctx.WriteString(" The image is low-key with a dark background.")
	case imaging.SolidColor:
		ctx.WriteString(" The subject sits on a uniform solid-color background.")
	default:
		ctx.WriteString(" Natural background.")
	}
	if opts.BlurThreshold > 0 {
		ctx.WriteString(" The subject is in sharp focus.")
	}

	return &Analysis{
		Bytes:      bs,
		Context:    ctx.String(),
		TechTags:   append([]string{orient}, bg.Tags()...),
		Background: bg,
		Sharpness:  score,
	}, nil
}

func prepareVideo(a asset.Asset) (*Analysis, error) {
	tmp := previewPath(a)
	defer os.Remove(tmp)

	if err := ExtractFrame(a.Path, tmp); err != nil {
		return nil, fmt.Errorf("extract frame from %s: %w", a.Name(), err)
	}
	img, err := imgio.Open(tmp)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	bs, err := encodeJPEG(bound(img))
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return &Analysis{
		Bytes:    bs,
		Context:  fmt.Sprintf("%s stock footage; this is a representative frame.", capitalize(orientation(img))),
		TechTags: []string{orientation(img)},
	}, nil
}

func prepareVector(a asset.Asset) (*Analysis, error) {
	tmp := previewPath(a)
	defer os.Remove(tmp)

	if err := Rasterize(a.Path, tmp, rasterDPI); err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", a.Name(), err)
	}
	img, err := imgio.Open(tmp)
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	bs, err := encodeJPEG(bound(img))
	if err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}
	return &Analysis{
		Bytes:    bs,
		Context:  "Vector illustration, rasterized for analysis.",
		TechTags: []string{orientation(img)},
	}, nil
}

// bound scales img so neither edge exceeds maxDimension.
func bound(img image.Image) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}
	scale := float64(w) / float64(maxDimension)
	if h > w {
		scale = float64(h) / float64(maxDimension)
	}
	return transform.Resize(img, int(float64(w)/scale), int(float64(h)/scale), transform.Lanczos)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(jpegQuality)(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orientation(img image.Image) string {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	switch {
	case w > h:
		return "horizontal"
	case h > w:
		return "vertical"
	default:
		return "square"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func previewPath(a asset.Asset) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("preview_%s_%s.jpg", uuid.NewString()[:8], a.Name()))
}
