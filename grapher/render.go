package grapher

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/mediagrapher/mediagrapher/curves"
	"github.com/mediagrapher/mediagrapher/media"
)

// Frame pairs a media source with its position in a sequence and the output
// name for its rendered artifact.
type Frame struct {
	Index int
	Name  string
	Media media.Media
}

// RenderAll renders frames concurrently with a fixed-size worker pool. Each
// frame either produces a completed artifact or records a typed error;
// failures on one frame do not stop the others. The joined per-frame errors
// (plus the context error if cancelled) are returned after all started work
// finishes.
func RenderAll(ctx context.Context, g Grapher, frames []Frame, cfg curves.Config, outputDir string, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan int)
	errs := make([]error, len(frames))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f := frames[i]
				if err := renderFrame(g, f, cfg, outputDir); err != nil {
					errs[i] = fmt.Errorf("frame %d (%s): %w", f.Index, f.Name, err)
					log.Printf("grapher: frame %d (%s) failed: %v", f.Index, f.Name, err)
				}
			}
		}()
	}

	var ctxErr error
submit:
	for i := range frames {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break submit
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return errors.Join(append(errs, ctxErr)...)
}

func renderFrame(g Grapher, f Frame, cfg curves.Config, outputDir string) error {
	c, err := curves.New(f.Media, cfg)
	if err != nil {
		return err
	}
	return g.SavePlot(f.Index, c, outputDir, f.Name)
}
