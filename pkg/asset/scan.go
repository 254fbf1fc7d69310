package asset

import (
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Terminal folders created inside a source directory. Scan never descends
// into them, so a re-run only sees files that still need processing.
var terminalDirs = map[string]bool{
	"done":       true,
	"skipped":    true,
	"duplicates": true,
	"_Reports":   true,
}

// Scan walks root and returns all recognized media assets in sorted path
// order. Dotfiles and terminal folders are skipped.
func Scan(root string) ([]Asset, error) {
	found := []Asset{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			base := filepath.Base(path)
			if base[0] == '.' && path != root {
				return godirwalk.SkipThis
			}

			if de.IsDir() {
				if terminalDirs[base] {
					return godirwalk.SkipThis
				}
				return nil
			}

			if KindOf(path) == Other {
				return nil
			}

			klog.V(1).Infof("found %s", path)
			found = append(found, New(path))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}
