package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tomaskral/photo-engine/internal/batch"
	"github.com/tomaskral/photo-engine/internal/config"
	"github.com/tomaskral/photo-engine/internal/signature"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [directory]",
	Short: "Compute perceptual signatures for all photos in a directory",
	Long: `Compute perceptual signatures for every image under a directory.

Each photo gets a 64-bit DCT perceptual hash, appearance metrics (luminance,
chroma, dominant colors, sharpness) and a composite quality score. Results
are printed as JSON, one object per photo. Failures are isolated: a broken
file is reported and the rest of the batch continues.

The run is cancellable with Ctrl-C; signatures computed before cancellation
are still printed.

Examples:
  # Analyze a directory
  photo-engine analyze ~/Pictures

  # Tune parallelism
  photo-engine analyze ~/Pictures --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int("concurrency", 0, "Parallel analyses (default from PHOTO_ENGINE_CONCURRENCY)")
	analyzeCmd.Flags().Bool("quiet", false, "Suppress the progress bar")
}

// imageExtensions lists the file types the analyze commands pick up.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// collectSources walks a directory and builds decode-on-demand sources for
// every image file. The photo ID is the path relative to the root, which is
// stable as long as the file does not move.
func collectSources(root string) ([]batch.Source, error) {
	var sources []batch.Source
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		sources = append(sources, batch.Source{
			PhotoID: rel,
			Load: func() (image.Image, error) {
				// Apply EXIF orientation before analysis so hashes match
				// what the user actually sees.
				return imaging.Open(path, imaging.AutoOrientation(true))
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].PhotoID < sources[j].PhotoID })
	return sources, nil
}

// runBatch executes the batch driver with an optional progress bar and
// returns the per-photo results.
func runBatch(ctx context.Context, sources []batch.Source, concurrency int, quiet bool) ([]batch.Result, error) {
	cfg := config.Load()
	if concurrency <= 0 {
		concurrency = cfg.Analysis.Concurrency
	}

	analyzer := signature.NewAnalyzerWithCalibration(cfg.Analysis.SharpnessCalibration)
	driver := batch.New(analyzer, cfg.Analysis.CacheSize)

	opts := batch.Options{
		Concurrency: concurrency,
		ChunkSize:   cfg.Analysis.ChunkSize,
	}

	if !quiet {
		bar := progressbar.NewOptions(len(sources),
			progressbar.OptionSetDescription(fmt.Sprintf("Analyzing photos (%d workers)", concurrency)),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		opts.OnProgress = func(p batch.Progress) {
			_ = bar.Add(1)
		}
		defer func() {
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
		}()
	}

	return driver.Run(ctx, sources, opts)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := collectSources(args[0])
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no image files found in %s", args[0])
	}

	results, runErr := runBatch(ctx, sources, mustGetInt(cmd, "concurrency"), mustGetBool(cmd, "quiet"))

	type failedPhoto struct {
		PhotoID string `json:"photo_id"`
		Error   string `json:"error"`
	}
	output := struct {
		Signatures []*signature.Signature `json:"signatures"`
		Failed     []failedPhoto          `json:"failed,omitempty"`
		Count      int                    `json:"count"`
		Canceled   bool                   `json:"canceled,omitempty"`
	}{}

	for _, r := range results {
		if r.Err != nil {
			output.Failed = append(output.Failed, failedPhoto{PhotoID: r.PhotoID, Error: r.Err.Error()})
			continue
		}
		output.Signatures = append(output.Signatures, r.Signature)
	}
	output.Count = len(output.Signatures)
	output.Canceled = runErr != nil

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
