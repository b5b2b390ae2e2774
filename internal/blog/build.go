package blog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/calvinalkan/blogbuild/internal/fs"
)

// Builder runs the pipeline for one configuration.
type Builder struct {
	fs       fs.FS
	cfg      Config
	renderer *Renderer
	now      func() time.Time
}

// NewBuilder validates the render options in cfg and returns a Builder.
// cfg must come from [LoadConfig] (absolute paths resolved).
func NewBuilder(fsys fs.FS, cfg Config) (*Builder, error) {
	renderer, err := NewRenderer(RenderOptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	return &Builder{fs: fsys, cfg: cfg, renderer: renderer, now: time.Now}, nil
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// BuildOptions controls a [Builder.Build] run.
type BuildOptions struct {
	// KeepGoing records per-post failures in the report and continues with
	// the next post instead of aborting.
	KeepGoing bool

	// SkipHomepage leaves the homepage untouched.
	SkipHomepage bool
}

// Rendered is one page written by a run.
type Rendered struct {
	Post   Post
	Output string
}

// PostFailure is a post that could not be rendered under KeepGoing.
type PostFailure struct {
	Post Post
	Err  error
}

// Report describes what a run did.
type Report struct {
	Listing  *Listing
	Rendered []Rendered
	Failed   []PostFailure

	// Homepage is nil when the homepage was not patched.
	Homepage *PatchResult

	// HomepageErr explains a skipped patch that did not abort the run,
	// e.g. [ErrNoPosts].
	HomepageErr error

	Elapsed time.Duration
}

// Build runs the whole pipeline: discover once, patch the homepage from the
// newest post, then render every post.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*Report, error) {
	report := &Report{}
	start := b.now()

	err := b.withLock(ctx, func() error {
		listing, err := Discover(ctx, b.fs, b.cfg.SourceDirAbs)
		if err != nil {
			return err
		}

		report.Listing = listing

		if !opts.SkipHomepage {
			result, patchErr := b.patch(ctx, listing)

			switch {
			case errors.Is(patchErr, ErrNoPosts):
				report.HomepageErr = patchErr
			case patchErr != nil:
				return patchErr
			default:
				report.Homepage = &result
			}
		}

		return b.render(ctx, listing.Posts, opts.KeepGoing, report)
	})

	report.Elapsed = b.now().Sub(start)

	if err != nil {
		return report, err
	}

	Logger(ctx).Info("build finished",
		"rendered", len(report.Rendered),
		"failed", len(report.Failed),
		"elapsed", report.Elapsed,
	)

	return report, nil
}

// Patch discovers the newest post and writes its link into the homepage.
// With no posts the error wraps [ErrNoPosts].
func (b *Builder) Patch(ctx context.Context) (PatchResult, error) {
	var result PatchResult

	err := b.withLock(ctx, func() error {
		listing, err := Discover(ctx, b.fs, b.cfg.SourceDirAbs)
		if err != nil {
			return err
		}

		result, err = b.patch(ctx, listing)

		return err
	})

	return result, err
}

// RenderPaths renders the given post files. A bare file name or slug
// ("hello-world.md", "hello-world") names a post in the source directory;
// other relative paths resolve against it. With no paths every discovered
// post is rendered.
func (b *Builder) RenderPaths(ctx context.Context, paths []string, keepGoing bool) (*Report, error) {
	report := &Report{}
	start := b.now()

	err := b.withLock(ctx, func() error {
		if len(paths) == 0 {
			listing, err := Discover(ctx, b.fs, b.cfg.SourceDirAbs)
			if err != nil {
				return err
			}

			report.Listing = listing

			return b.render(ctx, listing.Posts, keepGoing, report)
		}

		posts := make([]Post, 0, len(paths))

		for _, path := range paths {
			post, err := b.resolvePost(ctx, report, path)
			if err != nil {
				return err
			}

			posts = append(posts, post)
		}

		return b.render(ctx, posts, keepGoing, report)
	})

	report.Elapsed = b.now().Sub(start)

	return report, err
}

// resolvePost maps one RenderPaths argument to a post. Bare names are looked
// up in a listing of the source directory, discovered at most once per run.
func (b *Builder) resolvePost(ctx context.Context, report *Report, arg string) (Post, error) {
	if arg == filepath.Base(arg) {
		if report.Listing == nil {
			listing, err := Discover(ctx, b.fs, b.cfg.SourceDirAbs)
			if err != nil {
				return Post{}, err
			}

			report.Listing = listing
		}

		if post, ok := report.Listing.Find(arg); ok {
			return post, nil
		}

		if filepath.Ext(arg) == "" {
			return Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, arg)
		}
	}

	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.cfg.SourceDirAbs, path)
	}

	return statPost(b.fs, path)
}

// Latest describes the newest post.
type Latest struct {
	Post  Post
	Title string
	Link  Link
}

// Latest returns the newest post and its title without writing anything.
func (b *Builder) Latest(ctx context.Context) (Latest, error) {
	listing, err := Discover(ctx, b.fs, b.cfg.SourceDirAbs)
	if err != nil {
		return Latest{}, err
	}

	return b.latest(listing)
}

// List returns the source directory listing.
func (b *Builder) List(ctx context.Context) (*Listing, error) {
	return Discover(ctx, b.fs, b.cfg.SourceDirAbs)
}

func (b *Builder) latest(listing *Listing) (Latest, error) {
	if listing.NewestPost == nil {
		return Latest{}, fmt.Errorf("%w in %s", ErrNoPosts, listing.Dir)
	}

	post := *listing.NewestPost

	title, err := b.title(post)
	if err != nil {
		return Latest{}, err
	}

	return Latest{
		Post:  post,
		Title: title,
		Link:  Link{BaseURL: b.cfg.BlogURL, Slug: post.Slug, Title: title},
	}, nil
}

func (b *Builder) title(post Post) (string, error) {
	if !b.cfg.FrontMatter {
		return ReadTitle(b.fs, post.Path)
	}

	src, err := LoadSource(b.fs, post.Path, true)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTitleRead, err)
	}

	return src.Title, nil
}

func (b *Builder) patch(ctx context.Context, listing *Listing) (PatchResult, error) {
	// The homepage must exist even when there is nothing to link.
	exists, err := b.fs.Exists(b.cfg.HomepageAbs)
	if err != nil {
		return PatchResult{}, fmt.Errorf("stat homepage: %w", err)
	}

	if !exists {
		return PatchResult{}, fmt.Errorf("%w: %s", ErrHomepageNotFound, b.cfg.HomepageAbs)
	}

	latest, err := b.latest(listing)
	if err != nil {
		return PatchResult{}, err
	}

	result, err := PatchHomepageFile(b.fs, b.cfg.HomepageAbs, latest.Link)
	if err != nil {
		return result, err
	}

	Logger(ctx).Debug("patched homepage",
		"path", result.Path,
		"found", result.Found,
		"slug", latest.Post.Slug,
		"title", latest.Title,
	)

	return result, nil
}

func (b *Builder) render(ctx context.Context, posts []Post, keepGoing bool, report *Report) error {
	log := Logger(ctx)

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := b.renderer.RenderFile(b.fs, post.Path, b.cfg.OutputDirAbs)
		if err != nil {
			if !keepGoing {
				return err
			}

			log.Warn("render failed", "post", post.Path, "err", err)
			report.Failed = append(report.Failed, PostFailure{Post: post, Err: err})

			continue
		}

		log.Debug("rendered post", "post", post.Path, "output", out)
		report.Rendered = append(report.Rendered, Rendered{Post: post, Output: out})
	}

	return nil
}

func (b *Builder) withLock(ctx context.Context, fn func() error) error {
	lockPath := b.cfg.LockFileAbs
	if lockPath == "" {
		lockPath = DefaultLockFile(b.cfg.OutputDirAbs)
	}

	lock, err := b.fs.TryLock(lockPath)
	if err != nil {
		if errors.Is(err, fs.ErrWouldBlock) {
			return fmt.Errorf("%w (lock %s)", ErrBuildInProgress, lockPath)
		}

		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer func() {
		closeErr := lock.Close()
		if closeErr != nil {
			Logger(ctx).Warn("releasing lock", "path", lockPath, "err", closeErr)
		}
	}()

	return fn()
}
