// Package pipeline runs the per-asset processing state machine: local
// quality gates, preprocessing, the retried AI call, response cleanup, and
// tag-set construction. Tag writing and file movement belong to the batch
// orchestrator's collaborators.
package pipeline

import "stockmeta/pkg/asset"

// Status discriminates pipeline outcomes.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	default:
		return "error"
	}
}

// SkipReason says why an asset was skipped without an AI call.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipAlreadyTagged
	SkipBlurry
)

func (r SkipReason) String() string {
	switch r {
	case SkipAlreadyTagged:
		return "already tagged"
	case SkipBlurry:
		return "blurry"
	default:
		return ""
	}
}

// TagSet maps embedded-metadata field names to a string or []string value,
// ready for the tag writer.
type TagSet map[string]any

// Result is the outcome of processing one asset.
type Result struct {
	Asset  asset.Asset
	Status Status

	// Success fields.
	NewName     string
	Category    string
	Tags        TagSet
	Title       string
	Description string
	Keywords    []string
	TokensIn    int
	TokensOut   int

	// Skipped fields.
	Reason    SkipReason
	Sharpness float64

	// Error fields.
	Message string
}
