// stockmeta generates stock-media metadata with a vision LLM, writes it
// into file tags, and sorts the results into category folders.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"stockmeta/pkg/asset"
	"stockmeta/pkg/batch"
	"stockmeta/pkg/history"
	"stockmeta/pkg/imaging"
	"stockmeta/pkg/metatags"
	"stockmeta/pkg/pipeline"
	"stockmeta/pkg/vision"
)

var (
	inDir      = flag.String("in", "", "source directory (required)")
	outDir     = flag.String("out", "output", "destination directory root")
	stagingDir = flag.String("staging", "", "staging directory for in-flight copies (default: system temp)")

	workers = flag.Int("workers", 1, "parallel AI calls; keep at 1 for low rate limits")
	delay   = flag.Duration("delay", 2500*time.Millisecond, "minimum delay before each AI dispatch")
	retries = flag.Int("retries", 3, "max retries per AI call")
	blur    = flag.Float64("blur", 5.0, "reject photos with sharpness below this; 0 disables")

	dedupe       = flag.Bool("dedupe", false, "quarantine near-duplicates before processing")
	dedupeThresh = flag.Float64("dedupe-threshold", 95, "similarity % above which two images are duplicates")

	skipExisting = flag.Bool("skip-existing", true, "skip files that already have a description tag")
	rename       = flag.Bool("rename", true, "rename output files from the generated title")
	sortFolders  = flag.Bool("sort", true, "sort output into per-category folders")
	keepCategory = flag.Bool("keep-category", false, "keep the AI category even for isolate backgrounds")

	model   = flag.String("model", "gemini-2.0-flash", "model ID")
	baseURL = flag.String("base-url", "", "OpenAI-compatible endpoint; empty uses Gemini natively")
	preset  = flag.String("preset", vision.DefaultPreset, "prompt style preset")

	historyPath = flag.String("history", "stockmeta_history.db", "history database path")

	watch         = flag.Bool("watch", false, "keep watching the source directory for new files")
	watchInterval = flag.Duration("interval", 10*time.Second, "watch poll interval")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		klog.V(1).Infof("no .env loaded: %v", err)
	}

	if *inDir == "" {
		klog.Exitf("--in is a required flag")
	}
	p, ok := vision.Presets[*preset]
	if !ok {
		klog.Exitf("unknown preset %q", *preset)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := buildClient(ctx)

	store, err := history.Open(*historyPath)
	if err != nil {
		klog.Exitf("history: %v", err)
	}
	defer store.Close()

	writer, err := metatags.NewWriter()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer writer.Close()

	runner := &batch.Runner{
		Proc: &pipeline.Processor{
			Client: client,
			Probe:  writer,
			Opts: pipeline.Options{
				SkipExisting:   *skipExisting,
				Rename:         *rename,
				BlurThreshold:  *blur,
				MaxRetries:     *retries,
				Preset:         p,
				KeepAICategory: *keepCategory,
			},
		},
		Tags:    writer,
		History: store,
		Opts: batch.Options{
			Workers:        *workers,
			RequestDelay:   *delay,
			OutDir:         *outDir,
			StagingDir:     *stagingDir,
			SortByCategory: *sortFolders,
			Model:          *model,
		},
	}

	if *watch {
		if err := runner.Watch(ctx, *inDir, *watchInterval); err != nil {
			klog.Exitf("watch: %v", err)
		}
		return
	}

	assets, err := asset.Scan(*inDir)
	if err != nil {
		klog.Exitf("scan: %v", err)
	}
	if len(assets) == 0 {
		klog.Infof("nothing to do in %s", *inDir)
		return
	}

	if *dedupe {
		assets = dropDuplicates(assets)
	}

	tally, err := runner.Run(ctx, assets)
	if err != nil {
		klog.Errorf("batch: %v", err)
	}
	klog.Infof("finished: ok=%d skipped=%d failed=%d tokens=%d/%d est. cost=$%.4f",
		tally.Succeeded, tally.Skipped, tally.Failed, tally.TokensIn, tally.TokensOut, tally.Cost)
}

func buildClient(ctx context.Context) vision.Client {
	if *baseURL != "" {
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			klog.Exitf("OPENAI_API_KEY is not set")
		}
		return &vision.OpenAICompat{BaseURL: *baseURL, APIKey: key, Model: *model}
	}

	key := os.Getenv("GOOGLE_API_KEY")
	if key == "" {
		klog.Exitf("GOOGLE_API_KEY is not set")
	}
	client, err := vision.NewGemini(ctx, key, *model)
	if err != nil {
		klog.Exitf("gemini client: %v", err)
	}
	return client
}

// dropDuplicates runs the perceptual pre-pass over photo assets and
// quarantines near-duplicates, returning the surviving asset list.
func dropDuplicates(assets []asset.Asset) []asset.Asset {
	paths := []string{}
	byPath := map[string]asset.Asset{}
	kept := []asset.Asset{}
	for _, a := range assets {
		if a.Kind == asset.Photo {
			paths = append(paths, a.Path)
			byPath[a.Path] = a
		} else {
			kept = append(kept, a)
		}
	}

	clean, dups := imaging.FindDuplicates(paths, *dedupeThresh)
	klog.Infof("dedupe: %d clean, %d duplicates", len(clean), len(dups))
	if err := batch.QuarantineDuplicates(dups); err != nil {
		klog.Errorf("quarantine: %v", err)
	}

	for _, p := range clean {
		kept = append(kept, byPath[p])
	}
	return kept
}
