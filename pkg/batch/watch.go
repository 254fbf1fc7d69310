package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"stockmeta/pkg/asset"
)

// Watch runs a continuous single-worker poll loop over dir: each cycle
// scans for new assets and processes them, then idles until the poll
// interval elapses or a filesystem event wakes it early. Cancellation is
// cooperative: it is honored between files and between cycles, and a file
// mid-processing always completes.
func (r *Runner) Watch(ctx context.Context, dir string, interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// The watch loop is the degenerate batch: one worker, same side
	// effects.
	single := *r
	single.Opts.Workers = 1

	klog.Infof("watching %s (poll every %s)", dir, interval)
	for {
		assets, err := asset.Scan(dir)
		if err != nil {
			klog.Errorf("scan %s: %v", dir, err)
		} else if len(assets) > 0 {
			klog.Infof("watch: picked up %d assets", len(assets))
			if _, err := single.Run(ctx, assets); err != nil {
				klog.Errorf("watch batch: %v", err)
			}
		}

		if ctx.Err() != nil {
			klog.Infof("watch stopped")
			return nil
		}

		select {
		case <-ctx.Done():
			klog.Infof("watch stopped")
			return nil
		case ev := <-watcher.Events:
			klog.V(1).Infof("woken by %s", ev)
			// Give the writer a moment to finish the file.
			time.Sleep(time.Second)
		case err := <-watcher.Errors:
			klog.Warningf("watcher error: %v", err)
		case <-time.After(interval):
		}
	}
}
