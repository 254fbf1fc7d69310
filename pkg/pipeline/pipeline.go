package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"k8s.io/klog/v2"

	"stockmeta/pkg/asset"
	"stockmeta/pkg/preprocess"
	"stockmeta/pkg/vision"
)

// Prober checks whether an asset already carries a description tag, so
// previously-processed files can be skipped without an AI call.
type Prober interface {
	HasDescription(path string) (bool, error)
}

// Options hold per-batch processing policy.
type Options struct {
	// SkipExisting skips assets that already have an embedded description.
	SkipExisting bool
	// Rename derives the output filename from the generated title.
	Rename bool
	// BlurThreshold rejects photos scoring below it; <= 0 disables.
	BlurThreshold float64
	// MaxRetries is the number of retries after the initial AI attempt.
	MaxRetries int
	// AttemptTimeout bounds each individual AI call so one hung request
	// cannot starve a worker indefinitely.
	AttemptTimeout time.Duration
	// Preset selects the prompt style.
	Preset vision.Preset
	// KeepAICategory disables the isolate-background category override
	// and routes by the model's subject category instead.
	KeepAICategory bool
}

// DefaultAttemptTimeout applies when Options.AttemptTimeout is zero.
const DefaultAttemptTimeout = 2 * time.Minute

// Processor runs the single-asset pipeline.
type Processor struct {
	Client vision.Client
	Probe  Prober
	Opts   Options

	// Sleep is swapped out in tests; the schedule itself comes from
	// vision.Backoff.
	Sleep func(time.Duration)
}

// Process takes one asset from existence check through tag-set
// construction. It never panics and never moves files; the returned
// Result tells the orchestrator what terminal action to take.
func (p *Processor) Process(ctx context.Context, a asset.Asset) Result {
	if _, err := os.Stat(a.Path); err != nil {
		return p.errorResult(a, fmt.Sprintf("source missing: %v", err))
	}

	if p.Opts.SkipExisting && p.Probe != nil {
		has, err := p.Probe.HasDescription(a.Path)
		if err != nil {
			klog.V(1).Infof("existing-tag probe failed for %s, continuing: %v", a.Name(), err)
		} else if has {
			klog.Infof("skipping %s: already tagged", a.Name())
			return Result{Asset: a, Status: StatusSkipped, Reason: SkipAlreadyTagged}
		}
	}

	an, err := preprocess.Prepare(a, preprocess.Options{BlurThreshold: p.blurThreshold(a)})
	if err != nil {
		var be *preprocess.BlurError
		if errors.As(err, &be) {
			klog.Infof("skipping %s: sharpness %.2f below %.2f", a.Name(), be.Score, p.Opts.BlurThreshold)
			return Result{Asset: a, Status: StatusSkipped, Reason: SkipBlurry, Sharpness: be.Score}
		}
		return p.errorResult(a, fmt.Sprintf("preprocess: %v", err))
	}

	prompt := vision.BuildPrompt(p.Opts.Preset, an.Context)
	md, err := p.infer(ctx, an.Bytes, prompt)
	if err != nil {
		return p.errorResult(a, fmt.Sprintf("AI fail: %v", err))
	}

	title := cleanTitle(md.Title)
	desc := mergeDescription(title, md.Description)
	keywords := CleanKeywords(md.Keywords, an.TechTags)

	category := md.Category
	if !p.Opts.KeepAICategory && an.Background.Type.Uniform() {
		// Isolate shots are their own commercial product category,
		// whatever the subject happens to be.
		category = an.Background.Type.String()
	}

	newName := a.Name()
	if p.Opts.Rename {
		newName = slugFilename(title, a.Ext())
	}

	klog.Infof("processed %s -> %q [%s]", a.Name(), title, category)
	return Result{
		Asset:       a,
		Status:      StatusSuccess,
		NewName:     newName,
		Category:    category,
		Tags:        BuildTagSet(a, title, desc, keywords),
		Title:       title,
		Description: desc,
		Keywords:    keywords,
		TokensIn:    vision.EstTokensIn,
		TokensOut:   vision.EstTokensOut,
	}
}

// infer calls the AI backend with up to MaxRetries+1 attempts. Transient
// and rate-limit failures back off and retry; auth and request errors
// abort immediately since retrying cannot change the outcome.
func (p *Processor) infer(ctx context.Context, image []byte, prompt string) (*vision.Metadata, error) {
	attempts := p.Opts.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	timeout := p.Opts.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		md, err := p.Client.Infer(callCtx, image, prompt)
		cancel()
		if err == nil {
			return md, nil
		}
		lastErr = err

		kind := vision.KindOf(err)
		if !kind.Retryable() {
			klog.Warningf("aborting retries: %v", err)
			return nil, err
		}
		if attempt == attempts-1 {
			break
		}
		d := vision.Backoff(attempt, kind)
		klog.Warningf("attempt %d/%d failed (%v), retrying in %s", attempt+1, attempts, err, d)
		p.sleep(d)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (p *Processor) blurThreshold(a asset.Asset) float64 {
	if a.Kind != asset.Photo {
		return 0
	}
	return p.Opts.BlurThreshold
}

func (p *Processor) sleep(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (p *Processor) errorResult(a asset.Asset, msg string) Result {
	klog.Errorf("%s: %s", a.Name(), msg)
	return Result{Asset: a, Status: StatusError, Message: msg}
}
