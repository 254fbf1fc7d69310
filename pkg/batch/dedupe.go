package batch

import (
	"k8s.io/klog/v2"

	"stockmeta/pkg/imaging"
)

// QuarantineDuplicates moves each detected near-duplicate into a
// duplicates/ folder next to its source. One failed move does not stop
// the rest; the first error is returned.
func QuarantineDuplicates(dups []imaging.DuplicateMatch) error {
	var firstErr error
	for _, d := range dups {
		klog.Infof("quarantining duplicate %s (%.1f%% of %s)", d.Path, d.Similarity, d.MatchOf)
		if err := quarantine(d.Path, "duplicates"); err != nil {
			klog.Errorf("quarantine %s: %v", d.Path, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
