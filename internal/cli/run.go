package cli

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dl/hypergrep/internal/input"
	"github.com/dl/hypergrep/internal/output"
	"github.com/dl/hypergrep/internal/pattern"
	"github.com/dl/hypergrep/internal/scan"
	"github.com/dl/hypergrep/internal/scheduler"
	"github.com/dl/hypergrep/internal/walker"
)

// Run executes the search with the given config.
// Returns exit code: 0 = match found, 1 = no match, 2 = error.
func Run(cfg Config) int {
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})
	logger.Debug("scan session", "id", uuid.NewString(), "patterns", len(cfg.Patterns))

	set, err := pattern.Compile(cfg.Patterns, pattern.Options{IgnoreCase: cfg.IgnoreCase})
	if err != nil {
		logger.Error("invalid pattern", "err", err)
		return 2
	}
	defer set.Close()

	driver := scan.New(set, scan.Options{ChunkSize: cfg.ChunkSize})

	// Ctrl-C cancels between chunks; everything delivered so far stands.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorAuto:
		useColor = output.StdoutIsTerminal()
	}

	w := output.NewWriter()
	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter()
	} else {
		styles := output.NoStyles()
		if useColor {
			styles = output.NewStyles()
		}
		formatter = output.NewTextFormatter(styles, cfg.LineNumbers, cfg.CountOnly, cfg.FileNamesOnly, useColor)
	}

	if len(cfg.Paths) == 0 {
		return runStdin(ctx, driver, formatter, w, logger)
	}
	if cfg.Recursive {
		return runRecursive(ctx, cfg, driver, formatter, w, logger)
	}
	return runFiles(ctx, cfg.Paths, cfg, driver, formatter, w, logger)
}

func runStdin(ctx context.Context, driver *scan.Driver, formatter output.Formatter, w *output.Writer, logger *log.Logger) int {
	src := input.Stdin()
	result := output.Result{FilePath: src.Path}
	result.Records, result.Err = driver.Collect(ctx, src)
	if result.Err != nil {
		logger.Error("scan failed", "err", result.Err)
		return 2
	}
	if !result.HasMatch() {
		return 1
	}
	w.Write(formatter.Format(nil, result, false))
	return 0
}

func runFiles(ctx context.Context, paths []string, cfg Config, driver *scan.Driver, formatter output.Formatter, w *output.Writer, logger *log.Logger) int {
	multiFile := len(paths) > 1
	hasMatch := false
	var buf []byte

	for _, path := range paths {
		result := searchFile(ctx, path, cfg, driver)
		if result.Err != nil {
			logger.Warn("error", "path", path, "err", result.Err)
			continue
		}
		if result.HasMatch() {
			hasMatch = true
		}
		buf = formatter.Format(buf[:0], result, multiFile)
		w.Write(buf)
	}

	if hasMatch {
		return 0
	}
	return 1
}

func runRecursive(ctx context.Context, cfg Config, driver *scan.Driver, formatter output.Formatter, w *output.Writer, logger *log.Logger) int {
	fileCh, errCh := walker.Walk(cfg.Paths, walker.WalkOptions{
		NoIgnore: cfg.NoIgnore,
		Hidden:   cfg.Hidden,
	})

	go func() {
		for err := range errCh {
			logger.Warn("walk error", "err", err)
		}
	}()

	mode := scheduler.ModeCollect
	switch {
	case cfg.FileNamesOnly:
		mode = scheduler.ModeExists
	case cfg.CountOnly:
		mode = scheduler.ModeCount
	}

	sched := scheduler.New(cfg.Workers, driver, mode)
	resultCh := sched.Run(ctx, fileCh)

	var hasMatch atomic.Bool
	ow := output.NewOrderedWriter(w, formatter, true)
	ow.WriteOrdered(resultCh,
		func() { hasMatch.Store(true) },
		func(r output.Result) { logger.Warn("error", "path", r.FilePath, "err", r.Err) },
	)

	if hasMatch.Load() {
		return 0
	}
	return 1
}

func searchFile(ctx context.Context, path string, cfg Config, driver *scan.Driver) output.Result {
	result := output.Result{FilePath: path}

	src, err := input.Open(path)
	if err != nil {
		result.Err = err
		return result
	}
	defer src.Close()

	if src.Binary() {
		return result
	}

	switch {
	case cfg.FileNamesOnly:
		result.Matched, result.Err = driver.Match(ctx, src)
	case cfg.CountOnly:
		result.Count, result.Err = driver.Count(ctx, src)
	default:
		result.Records, result.Err = driver.Collect(ctx, src)
	}
	return result
}
