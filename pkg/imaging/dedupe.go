package imaging

import (
	"runtime"
	"sort"
	"sync"

	"k8s.io/klog/v2"
)

// DuplicateMatch records one quarantined near-duplicate.
type DuplicateMatch struct {
	Path       string
	MatchOf    string
	Similarity float64
}

// FindDuplicates fingerprints all paths in parallel and partitions them
// into a clean list and a duplicate set. Comparison order is
// deterministic: paths are processed sorted, and each asset is assigned to
// the first previously-kept asset whose similarity meets threshold.
// Unreadable files are kept in the clean list (permissive default,
// reported through OnFailure).
func FindDuplicates(paths []string, threshold float64) (clean []string, dups []DuplicateMatch) {
	type keyed struct {
		path string
		fp   Fingerprint
		ok   bool
	}

	sorted := append([]string{}, paths...)
	sort.Strings(sorted)

	fps := make([]keyed, len(sorted))
	workers := runtime.NumCPU()
	if workers > len(sorted) {
		workers = len(sorted)
	}

	var wg sync.WaitGroup
	idx := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				fp, err := ComputeFingerprintFile(sorted[i])
				if err != nil {
					fail(sorted[i], err)
					fps[i] = keyed{path: sorted[i]}
					continue
				}
				fps[i] = keyed{path: sorted[i], fp: fp, ok: true}
			}
		}()
	}
	for i := range sorted {
		idx <- i
	}
	close(idx)
	wg.Wait()

	kept := []keyed{}
	for _, k := range fps {
		if !k.ok {
			clean = append(clean, k.path)
			continue
		}

		matched := false
		for _, seen := range kept {
			sim := Compare(k.fp, seen.fp)
			if sim >= threshold {
				klog.Infof("duplicate: %s matches %s at %.1f%%", k.path, seen.path, sim)
				dups = append(dups, DuplicateMatch{Path: k.path, MatchOf: seen.path, Similarity: sim})
				matched = true
				break
			}
		}
		if !matched {
			kept = append(kept, k)
			clean = append(clean, k.path)
		}
	}

	return clean, dups
}
