package batch

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"runtime"
	"sync"

	"image-cropper/internal/crop"
	cropimage "image-cropper/internal/image"
	"image-cropper/pkg/geometry"
)

// Job describes one batch: the selection in original pixels and where to
// write the results.
type Job struct {
	Files     []string
	Rect      geometry.Rect
	Center    int    // > 0 crops a centered square of this size from each file instead of Rect
	OutputDir string // empty writes next to each input
	Suffix    string
}

// Result is the outcome for one input file.
type Result struct {
	Input   string
	Output  string
	Backend string
	Rect    image.Rectangle // region actually cropped
	Err     error
}

// OK reports whether the file was cropped.
func (r Result) OK() bool {
	return r.Err == nil
}

// Progress is reported after each file and once more when the batch ends.
type Progress struct {
	Percent int
	Current int
	Total   int
	File    string
}

// Runner crops files concurrently.
type Runner struct {
	Primary    Cropper
	Fallback   Cropper // optional, tried when Primary fails
	Workers    int     // <= 0 uses runtime.NumCPU()
	OnProgress func(Progress)
}

// Run crops every file in job. A failing file is recorded in its Result
// and does not stop the batch. Results are in input order.
func (r *Runner) Run(ctx context.Context, job Job) ([]Result, error) {
	if r.Primary == nil {
		return nil, ErrNoBackend
	}
	if job.OutputDir != "" {
		if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	total := len(job.Files)
	results := make([]Result, total)
	if total == 0 {
		r.report(Progress{Percent: 100, File: "done"})
		return results, nil
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, total)

	var (
		mu   sync.Mutex
		done int
	)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.cropOne(ctx, job, job.Files[i])

				mu.Lock()
				done++
				r.report(Progress{
					Percent: percent(done, total),
					Current: done,
					Total:   total,
					File:    job.Files[i],
				})
				mu.Unlock()
			}
		}()
	}

	for i := range job.Files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	r.report(Progress{Percent: 100, Current: total, Total: total, File: "done"})
	ok, failed := Summary(results)
	log.Printf("batch crop finished: %d ok, %d failed", ok, failed)
	return results, nil
}

func (r *Runner) cropOne(ctx context.Context, job Job, input string) Result {
	res := Result{Input: input}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	src, err := cropimage.ReadInfo(input)
	if err != nil {
		res.Err = err
		return res
	}
	// Each file is constrained against its own size.
	rect := job.Rect
	if job.Center > 0 {
		rect = crop.DefaultRect(src.Dimensions(), job.Center)
	}
	res.Rect = crop.PixelRect(rect, src.Dimensions()).ImageRect().Intersect(image.Rect(0, 0, src.Width, src.Height))

	output := cropimage.OutputPath(input, job.OutputDir, job.Suffix)
	written, err := r.Primary.Crop(ctx, input, output, res.Rect)
	res.Backend = r.Primary.Name()
	if err != nil && r.Fallback != nil && ctx.Err() == nil {
		log.Printf("%s failed on %s, trying %s: %v", r.Primary.Name(), src.Name, r.Fallback.Name(), err)
		written, err = r.Fallback.Crop(ctx, input, output, res.Rect)
		res.Backend = r.Fallback.Name()
	}
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = written
	return res
}

func (r *Runner) report(p Progress) {
	if r.OnProgress != nil {
		r.OnProgress(p)
	}
}

func percent(n, total int) int {
	if total == 0 {
		return 100
	}
	return (n*100 + total/2) / total
}

// Summary counts successful and failed results.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
