// Package scheduler fans a stream of files out to a pool of workers that
// each run an independent scan against one shared compiled pattern set.
package scheduler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dl/hypergrep/internal/input"
	"github.com/dl/hypergrep/internal/output"
	"github.com/dl/hypergrep/internal/scan"
	"github.com/dl/hypergrep/internal/walker"
)

// Mode selects what each worker computes per file.
type Mode int

const (
	ModeCollect Mode = iota // full matched-line records
	ModeCount               // distinct matched-line count only
	ModeExists              // stop at the first match (-l)
)

// Scheduler manages a pool of workers that search files concurrently.
// The pattern set inside the driver is compiled once and shared: its
// read-only automaton makes per-file scans embarrassingly parallel.
type Scheduler struct {
	workers int
	driver  *scan.Driver
	mode    Mode
}

// New creates a Scheduler with the given number of workers.
// If workers is 0, defaults to NumCPU.
func New(workers int, driver *scan.Driver, mode Mode) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scheduler{workers: workers, driver: driver, mode: mode}
}

type job struct {
	seq   int
	entry walker.FileEntry
}

// Run processes files from the channel and returns results on the returned
// channel. Each file is stamped with its position in the incoming stream
// before any worker touches it, so sequence numbers follow walk order no
// matter which worker finishes first. The channel closes when all workers
// finish; cancellation of ctx drains the remaining files without scanning
// them.
func (s *Scheduler) Run(ctx context.Context, files <-chan walker.FileEntry) <-chan output.Result {
	resultCh := make(chan output.Result, s.workers*2)
	jobs := make(chan job, s.workers)

	go func() {
		seq := 0
		for entry := range files {
			seq++
			jobs <- job{seq: seq, entry: entry}
		}
		close(jobs)
	}()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				if ctx.Err() != nil {
					continue // keep draining so the walker can finish
				}
				result := s.processFile(ctx, j.entry)
				result.SeqNum = j.seq
				resultCh <- result
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(resultCh)
	}()

	return resultCh
}

func (s *Scheduler) processFile(ctx context.Context, entry walker.FileEntry) output.Result {
	result := output.Result{FilePath: entry.Path}

	src, err := input.Open(entry.Path)
	if err != nil {
		result.Err = err
		return result
	}
	defer src.Close()

	// Binary detection: skip binary files entirely (like ripgrep).
	if src.Binary() {
		return result
	}

	switch s.mode {
	case ModeExists:
		result.Matched, result.Err = s.driver.Match(ctx, src)
	case ModeCount:
		result.Count, result.Err = s.driver.Count(ctx, src)
	default:
		result.Records, result.Err = s.driver.Collect(ctx, src)
	}
	return result
}
