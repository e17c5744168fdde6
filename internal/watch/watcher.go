package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a split. It returns the
// partition sizes of the run.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the outcome of a single split run.
type RunResult struct {
	Kept     int
	Excluded int
}

// Options configures the watch behaviour.
type Options struct {
	// Input is the CSV file to watch.
	Input string

	// Debounce is the quiet period before triggering a run.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status lines.
	Out io.Writer

	// now supplies status line timestamps; replaced in tests.
	now func() time.Time
}

// DefaultOptions returns the default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run splits the input once, then again after every change to it, until ctx
// is cancelled or SIGINT/SIGTERM arrives. The parent directory is watched
// rather than the file itself so that editors replacing the file by rename
// keep triggering runs. Runs never overlap.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if opts.now == nil {
		opts.now = time.Now
	}

	input, err := filepath.Abs(opts.Input)
	if err != nil {
		return fmt.Errorf("resolving input %q: %w", opts.Input, err)
	}

	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("watching input: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(input), err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", input, opts.Debounce)

	tracker := &countTracker{}
	doRun(sigCtx, opts, runFn, tracker, "(initial)")

	// The debouncer only signals; runs happen on this goroutine.
	trigger := make(chan string, 1)
	debouncer := NewDebouncer(opts.Debounce, func(path string, events int) {
		opts.Logger.Debug("input changed", slog.String("path", path), slog.Int("events", events))

		select {
		case trigger <- path:
		default:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			_, _ = fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case path := <-trigger:
			doRun(sigCtx, opts, runFn, tracker, filepath.Base(path))

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, input) {
				continue
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single split and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, tracker *countTracker, trigger string) {
	now := opts.now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	_, _ = fmt.Fprintf(opts.Out, "[%s] %s → OK (%d kept, %d excluded)\n",
		now, trigger, result.Kept, result.Excluded)

	if change, ok := tracker.observe(result); ok {
		_, _ = fmt.Fprintf(opts.Out, "  %s\n", change)
	}
}

// isRelevant keeps write, create and rename events on the watched input.
func isRelevant(event fsnotify.Event, input string) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return abs == input
}
