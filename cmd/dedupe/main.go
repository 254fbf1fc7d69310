// dedupe scans a directory for perceptually near-duplicate images and
// optionally quarantines them into a duplicates/ folder.
package main

import (
	"flag"
	"fmt"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"stockmeta/pkg/asset"
	"stockmeta/pkg/batch"
	"stockmeta/pkg/imaging"
)

var (
	threshold = flag.Float64("threshold", 95, "similarity % above which two images are duplicates")
	move      = flag.Bool("move", false, "move duplicates into a duplicates/ folder")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if len(flag.Args()) != 1 {
		klog.Exitf("usage: %s [flags] <directory>", os.Args[0])
	}

	assets, err := asset.Scan(flag.Arg(0))
	if err != nil {
		klog.Exitf("scan: %v", err)
	}

	paths := []string{}
	for _, a := range assets {
		if a.Kind == asset.Photo {
			paths = append(paths, a.Path)
		}
	}
	klog.Infof("scanning %d photos at threshold %.0f%%", len(paths), *threshold)

	clean, dups := imaging.FindDuplicates(paths, *threshold)
	for _, d := range dups {
		fmt.Printf("%s\t%.1f%%\t%s\n", d.Path, d.Similarity, d.MatchOf)
	}
	klog.Infof("%d clean, %d duplicates", len(clean), len(dups))

	if *move && len(dups) > 0 {
		if err := batch.QuarantineDuplicates(dups); err != nil {
			klog.Exitf("quarantine: %v", err)
		}
	}
}
