package render

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"blockrender/internal/profiling"
	"blockrender/internal/world"

	"golang.org/x/sync/errgroup"
)

// Summary reports the outcome of a batch.
type Summary struct {
	Total   int
	Written int
	Failed  int
}

// Batch renders every palette entry to OutDir using a fixed pool of workers.
type Batch struct {
	Palette  *world.Palette
	Renderer Renderer
	// Workers defaults to runtime.NumCPU() when < 1. More workers than
	// blocks is allowed; the surplus stays idle.
	Workers  int
	OutDir   string
	Progress *profiling.Progress
	Logger   *slog.Logger
}

// Run renders ids [0, Palette.Size()) and returns after every worker has
// exited. Failed jobs are logged and counted but do not stop the others.
// Cancelling ctx stops handing out new ids; jobs already started finish and
// ctx's error is returned alongside the partial summary.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	total := b.Palette.Size()
	workers := b.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	log := b.Logger
	if log == nil {
		log = slog.Default()
	}

	contexts := NewContexts(workers)
	ids := make(chan int)
	var written, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(ids)
		for id := 0; id < total; id++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case ids <- id:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for slot := 0; slot < workers; slot++ {
		slot := slot
		g.Go(func() error {
			for id := range ids {
				rc := contexts.Acquire(slot)
				if path, err := b.job(rc, id); err != nil {
					failed.Add(1)
					log.Error("failed to render block", "id", id, "name", b.blockName(id), "err", err)
				} else {
					written.Add(1)
					log.Debug("wrote block", "id", id, "path", path)
				}
				if b.Progress != nil {
					b.Progress.Done()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if b.Progress != nil {
		b.Progress.Finish()
	}
	return Summary{Total: total, Written: int(written.Load()), Failed: int(failed.Load())}, err
}

// job renders and writes one block. A panic is turned into an error for
// this block only.
func (b *Batch) job(rc *Context, id int) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic rendering block %d: %v", id, r)
		}
	}()

	block := b.Palette.Get(id)

	stop := profiling.Track("render.Composite")
	canvas := b.Renderer.Composite(rc, id, b.Palette)
	stop()

	defer profiling.Track("render.Write")()
	return Write(canvas, b.OutDir, id, block.Name)
}

func (b *Batch) blockName(id int) string {
	if id < 0 || id >= b.Palette.Size() {
		return ""
	}
	return b.Palette.Get(id).Name
}
