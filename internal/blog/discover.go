package blog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinalkan/blogbuild/internal/fs"
)

// MarkdownExt is the extension that marks a file as a post. Matching is
// case-sensitive.
const MarkdownExt = ".md"

// Entry is a regular file found directly inside the source directory.
type Entry struct {
	Path    string
	Name    string
	ModTime time.Time
}

// Post is a markdown source file.
type Post struct {
	Entry

	// Slug is Name without its extension. It names the output file and
	// forms the URL path.
	Slug string
}

// Listing is the result of one pass over the source directory.
type Listing struct {
	Dir string

	// Posts are the markdown files, sorted by name.
	Posts []Post

	// Newest is the most recently modified regular file of any extension,
	// nil if the directory holds none.
	Newest *Entry

	// NewestPost is the most recently modified post, nil if there are none.
	NewestPost *Post
}

// Slug returns the base name of path without its extension.
func Slug(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsMarkdown reports whether name carries the markdown extension.
func IsMarkdown(name string) bool {
	return filepath.Ext(name) == MarkdownExt
}

// Discover lists dir (non-recursively) once and ranks its entries.
//
// Entries whose metadata cannot be read are skipped. Directories are never
// posts. Only regular files compete for "newest": symlinks and other special
// files are excluded from ranking. When two files share the newest
// modification time, the lexicographically smallest name wins.
func Discover(ctx context.Context, fsys fs.FS, dir string) (*Listing, error) {
	log := Logger(ctx)

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSourceDirUnreadable, dir, err)
	}

	listing := &Listing{Dir: dir}

	// entries are sorted by name, so a strict After comparison keeps the
	// smallest name on ties.
	newestPost := -1

	for _, dirEntry := range entries {
		info, infoErr := dirEntry.Info()
		if infoErr != nil {
			log.Debug("skipping entry", "name", dirEntry.Name(), "err", infoErr)

			continue
		}

		mode := info.Mode()
		if mode.IsDir() {
			continue
		}

		entry := Entry{
			Path:    filepath.Join(dir, dirEntry.Name()),
			Name:    dirEntry.Name(),
			ModTime: info.ModTime(),
		}

		regular := mode.IsRegular()
		if regular && (listing.Newest == nil || entry.ModTime.After(listing.Newest.ModTime)) {
			newest := entry
			listing.Newest = &newest
		}

		if !IsMarkdown(entry.Name) {
			continue
		}

		// Symlinked posts are rendered but never ranked.
		listing.Posts = append(listing.Posts, Post{Entry: entry, Slug: Slug(entry.Name)})

		if regular && (newestPost < 0 || entry.ModTime.After(listing.Posts[newestPost].ModTime)) {
			newestPost = len(listing.Posts) - 1
		}
	}

	if newestPost >= 0 {
		post := listing.Posts[newestPost]
		listing.NewestPost = &post
	}

	log.Debug("discovered posts", "dir", dir, "posts", len(listing.Posts))

	return listing, nil
}

// Find returns the post whose name or slug is name.
func (l *Listing) Find(name string) (Post, bool) {
	for _, post := range l.Posts {
		if post.Name == name || post.Slug == name {
			return post, true
		}
	}

	return Post{}, false
}

// statPost builds a Post for a single path outside of a listing.
func statPost(fsys fs.FS, path string) (Post, error) {
	if !IsMarkdown(path) {
		return Post{}, fmt.Errorf("%w: %s", ErrNotMarkdown, path)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, path)
		}

		return Post{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return Post{}, fmt.Errorf("%w: %s", ErrNotMarkdown, path)
	}

	return Post{
		Entry: Entry{Path: path, Name: filepath.Base(path), ModTime: info.ModTime()},
		Slug:  Slug(path),
	}, nil
}
