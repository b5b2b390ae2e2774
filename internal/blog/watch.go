package blog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions controls [Builder.Watch].
type WatchOptions struct {
	Debounce time.Duration
	Build    BuildOptions

	// OnBuild, if set, is called after every build, including the first.
	OnBuild func(report *Report, err error)
}

// Watch builds once, then rebuilds whenever a post in the source directory
// is created, written, removed or renamed. Bursts of events within
// Debounce collapse into one build, and builds never overlap.
//
// A failing first build is returned. Later failures go to OnBuild and the
// log, and watching continues. Watch returns nil when ctx is cancelled.
func (b *Builder) Watch(ctx context.Context, opts WatchOptions) error {
	log := Logger(ctx)

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() { _ = watcher.Close() }()

	err = watcher.Add(b.cfg.SourceDirAbs)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrSourceDirUnreadable, b.cfg.SourceDirAbs, err)
	}

	report, err := b.Build(ctx, opts.Build)
	if opts.OnBuild != nil {
		opts.OnBuild(report, err)
	}

	if err != nil {
		return err
	}

	log.Info("watching", "dir", b.cfg.SourceDirAbs, "debounce", debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isPostChange(event) {
				continue
			}

			log.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}

			fire = timer.C

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warn("watcher error", "err", watchErr)

		case <-fire:
			fire = nil

			report, err := b.Build(ctx, opts.Build)
			if err != nil {
				log.Error("rebuild failed", "err", err)
			}

			if opts.OnBuild != nil {
				opts.OnBuild(report, err)
			}
		}
	}
}

func isPostChange(event fsnotify.Event) bool {
	if !IsMarkdown(filepath.Base(event.Name)) {
		return false
	}

	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}
