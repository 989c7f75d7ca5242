// Package batch drives whole-library signature analysis as a cancellable,
// resumable run. Photos are processed in chunks with bounded concurrency;
// cancellation stops between photos and leaves every completed result valid.
// Recomputing a photo yields a bit-identical signature, so the run has
// at-least-once, idempotent per-photo semantics.
package batch

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/tomaskral/photo-engine/internal/signature"
)

// Defaults for the run options.
const (
	DefaultConcurrency = 4
	DefaultChunkSize   = 64
)

// Source is one decode-on-demand photo. Decoding stays the caller's
// responsibility; the engine performs no I/O itself, the Load callback does.
type Source struct {
	PhotoID string
	Load    func() (image.Image, error)
}

// Result is the per-photo outcome. Exactly one of Signature and Err is set;
// one photo's failure never aborts the batch.
type Result struct {
	PhotoID   string
	Signature *signature.Signature
	Err       error
}

// Progress reports batch advancement to an optional callback.
type Progress struct {
	Current int
	Total   int
	PhotoID string
}

// Options tunes one batch run.
type Options struct {
	Concurrency int
	ChunkSize   int
	OnProgress  func(Progress)
}

// Driver runs signature analysis over photo batches. It owns a bounded
// signature cache so a photo appearing twice in one run is computed once.
type Driver struct {
	analyzer *signature.Analyzer

	mu    sync.Mutex
	cache *SignatureCache
}

// New creates a driver around the given analyzer with a cache of the given
// capacity.
func New(analyzer *signature.Analyzer, cacheSize int) *Driver {
	return &Driver{
		analyzer: analyzer,
		cache:    NewSignatureCache(cacheSize),
	}
}

// Run analyzes all sources and returns one result per processed photo, in
// completion order. On cancellation the results computed so far are
// returned together with ctx.Err(); photos not yet started are simply
// absent, ready for the next run.
func (d *Driver) Run(ctx context.Context, sources []Source, opts Options) ([]Result, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.ChunkSize < 1 {
		opts.ChunkSize = DefaultChunkSize
	}

	total := len(sources)
	results := make([]Result, 0, total)
	var done atomic.Int64

	for start := 0; start < total; start += opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := min(start+opts.ChunkSize, total)
		chunk := sources[start:end]
		chunkResults := make([]Result, len(chunk))

		jobs := make(chan int)
		var wg sync.WaitGroup
		for range opts.Concurrency {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					src := chunk[idx]
					chunkResults[idx] = d.analyzeOne(src)
					if opts.OnProgress != nil {
						opts.OnProgress(Progress{
							Current: int(done.Add(1)),
							Total:   total,
							PhotoID: src.PhotoID,
						})
					}
				}
			}()
		}

		canceled := false
		for idx := range chunk {
			select {
			case <-ctx.Done():
				canceled = true
			case jobs <- idx:
			}
			if canceled {
				break
			}
		}
		close(jobs)
		wg.Wait()

		for _, r := range chunkResults {
			if r.PhotoID != "" {
				results = append(results, r)
			}
		}
		if canceled {
			return results, ctx.Err()
		}
	}

	return results, nil
}

func (d *Driver) analyzeOne(src Source) Result {
	d.mu.Lock()
	cached, ok := d.cache.Get(src.PhotoID)
	d.mu.Unlock()
	if ok {
		return Result{PhotoID: src.PhotoID, Signature: cached}
	}

	img, err := src.Load()
	if err != nil {
		return Result{PhotoID: src.PhotoID, Err: fmt.Errorf("load %s: %w", src.PhotoID, err)}
	}

	sig, err := d.analyzer.Analyze(src.PhotoID, img)
	if err != nil {
		return Result{PhotoID: src.PhotoID, Err: err}
	}

	d.mu.Lock()
	d.cache.Put(sig)
	d.mu.Unlock()

	return Result{PhotoID: src.PhotoID, Signature: sig}
}
