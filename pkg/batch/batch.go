// Package batch orchestrates pipeline runs over a file set: a bounded
// worker pool with a flat per-dispatch rate-limit delay, staged crash-safe
// file movement for each success, and a consistent outcome tally.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"

	"stockmeta/pkg/asset"
	"stockmeta/pkg/history"
	"stockmeta/pkg/metatags"
	"stockmeta/pkg/pipeline"
	"stockmeta/pkg/vision"
)

// TagWriter commits a tag set into a file's embedded metadata.
type TagWriter interface {
	Write(path string, tags pipeline.TagSet) error
}

// Recorder appends processed assets to the history log.
type Recorder interface {
	Record(e history.Entry) error
}

// Options configure one batch run.
type Options struct {
	// Workers is the size of the AI-call worker pool. Defaults to 1,
	// which is the safe choice for low external rate limits.
	Workers int
	// RequestDelay is slept by a worker before each dispatch; a crude
	// global limiter approximating requests-per-minute quotas.
	RequestDelay time.Duration
	// OutDir is the final destination root.
	OutDir string
	// StagingDir holds in-flight copies while tags are written. Choose a
	// low-wear device; defaults to the system temp dir.
	StagingDir string
	// SortByCategory adds a per-category folder level under the kind
	// folder.
	SortByCategory bool
	// Model is only used for cost estimation.
	Model string
}

// Tally aggregates batch outcomes. The orchestrator maintains
// succeeded + skipped + failed == submitted at all times.
type Tally struct {
	Submitted int
	Succeeded int
	Skipped   int
	Failed    int
	// CostSpent counts failures that happened after a successful AI
	// response: the tokens were spent but the output was not committed.
	CostSpent int

	TokensIn  int
	TokensOut int
	Cost      float64

	rows []reportRow
}

// Runner executes batches.
type Runner struct {
	Proc    *pipeline.Processor
	Tags    TagWriter
	History Recorder
	Opts    Options
}

// Run processes assets and performs terminal side effects for every
// outcome. Per-asset failures never abort the batch; the tally always
// accounts for every submitted asset. The returned error only reports
// report-writing problems.
func (r *Runner) Run(ctx context.Context, assets []asset.Asset) (*Tally, error) {
	tally := &Tally{Submitted: len(assets)}
	if len(assets) == 0 {
		return tally, nil
	}

	workers := r.Opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(assets) {
		workers = len(assets)
	}
	klog.Infof("batch: %d assets, %d workers, %s delay", len(assets), workers, r.Opts.RequestDelay)

	jobs := make(chan asset.Asset)
	results := make(chan pipeline.Result)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				if ctx.Err() != nil {
					results <- pipeline.Result{Asset: a, Status: pipeline.StatusError, Message: "cancelled"}
					continue
				}
				if r.Opts.RequestDelay > 0 {
					time.Sleep(r.Opts.RequestDelay)
				}
				results <- r.Proc.Process(ctx, a)
			}
		}()
	}

	go func() {
		for _, a := range assets {
			jobs <- a
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// Results arrive in completion order, not submission order; each one
	// carries its own asset for identification.
	for res := range results {
		r.consume(res, tally)
	}

	var reportErr error
	if len(tally.rows) > 0 {
		if err := writeReport(r.Opts.OutDir, tally.rows); err != nil {
			klog.Errorf("report: %v", err)
			reportErr = err
		}
	}

	klog.Infof("batch done: %d ok, %d skipped, %d failed (est. $%.4f)",
		tally.Succeeded, tally.Skipped, tally.Failed, tally.Cost)
	return tally, reportErr
}

func (r *Runner) consume(res pipeline.Result, tally *Tally) {
	switch res.Status {
	case pipeline.StatusSuccess:
		if err := r.finalize(res); err != nil {
			// The AI cost is already spent; report distinctly and leave
			// the source recoverable in place.
			klog.Errorf("IO error for %s: %v", res.Asset.Name(), err)
			tally.Failed++
			tally.CostSpent++
			return
		}
		tally.Succeeded++
		tally.TokensIn += res.TokensIn
		tally.TokensOut += res.TokensOut
		tally.Cost += vision.EstimateCost(r.Opts.Model, res.TokensIn, res.TokensOut)
		tally.rows = append(tally.rows, newReportRow(res))

	case pipeline.StatusSkipped:
		tally.Skipped++
		// Already-tagged files stay put so they remain browsable in
		// place; quality rejections are quarantined.
		if res.Reason == pipeline.SkipBlurry {
			if err := quarantine(res.Asset.Path, "skipped"); err != nil {
				klog.Errorf("quarantine %s: %v", res.Asset.Name(), err)
			}
		}

	default:
		// Source stays in place so a future run can retry it.
		tally.Failed++
	}
}

// finalize commits one success, in strict order: stage a copy, write tags
// into the staged copy, move it to its final category folder, retire the
// source to done/, then write the sidecar and history row.
func (r *Runner) finalize(res pipeline.Result) error {
	a := res.Asset

	destDir := filepath.Join(r.Opts.OutDir, string(a.Kind))
	if r.Opts.SortByCategory {
		destDir = filepath.Join(destDir, res.Category)
	}

	staging := r.Opts.StagingDir
	if staging == "" {
		staging = os.TempDir()
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("mkdir staging: %w", err)
	}

	// Staging names carry a per-task suffix; the directory is shared by
	// all in-flight workers.
	staged := filepath.Join(staging, fmt.Sprintf("tmp_%s_%s", uuid.NewString()[:8], res.NewName))
	if err := copy.Copy(a.Path, staged); err != nil {
		return fmt.Errorf("stage copy: %w", err)
	}
	defer os.Remove(staged)

	if err := r.Tags.Write(staged, res.Tags); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}

	// The output tree is only touched once the staged copy is fully
	// tagged; a failure above leaves no trace under OutDir.
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("mkdir dest: %w", err)
	}
	final := filepath.Join(destDir, res.NewName)
	if err := moveFile(staged, final); err != nil {
		return fmt.Errorf("final move: %w", err)
	}

	doneDir := filepath.Join(filepath.Dir(a.Path), "done")
	if err := os.MkdirAll(doneDir, 0o755); err != nil {
		return fmt.Errorf("mkdir done: %w", err)
	}
	if err := moveFile(a.Path, filepath.Join(doneDir, a.Name())); err != nil {
		return fmt.Errorf("retire source: %w", err)
	}

	noExt := strings.TrimSuffix(final, filepath.Ext(final))
	if _, err := metatags.WriteSidecar(noExt, res.Title, res.Description, res.Keywords); err != nil {
		klog.Warningf("sidecar for %s: %v", res.NewName, err)
	}

	if r.History != nil {
		err := r.History.Record(history.Entry{
			Original:    a.Name(),
			NewName:     res.NewName,
			Title:       res.Title,
			Description: res.Description,
			Keywords:    strings.Join(res.Keywords, ", "),
			Category:    res.Category,
			OutputPath:  destDir,
		})
		if err != nil {
			klog.Warningf("history for %s: %v", res.NewName, err)
		}
	}

	klog.Infof("done: %s -> %s", a.Name(), final)
	return nil
}

// quarantine moves path into a sibling folder of the given name.
func quarantine(path, folder string) error {
	dir := filepath.Join(filepath.Dir(path), folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return moveFile(path, filepath.Join(dir, filepath.Base(path)))
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// two sit on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copy.Copy(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
