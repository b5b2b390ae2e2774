package blog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/calvinalkan/blogbuild/internal/fs"
)

// ExtractTitle reads the first line from r and returns it with every leading
// '#' and the surrounding whitespace removed.
//
// No space is required after the markers: "#Title" yields "Title".
// An empty stream yields "". Read errors other than EOF are returned wrapped
// in [ErrTitleRead]. r is buffered, so it may be read past the first line.
func ExtractTitle(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %w", ErrTitleRead, err)
	}

	return cleanTitle(line), nil
}

func cleanTitle(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

// ReadTitle opens path and extracts the title from its first line.
func ReadTitle(fsys fs.FS, path string) (string, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrTitleRead, path, err)
	}

	defer func() { _ = file.Close() }()

	title, err := ExtractTitle(file)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	return title, nil
}

// Source is a post's content split into metadata and markdown body.
type Source struct {
	Title string
	Body  []byte
}

// postMeta is the subset of front matter the builder understands.
type postMeta struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// ParseSource splits content into title and body.
//
// Without front matter handling the body is content unchanged and the title
// comes from the first line. With it, a leading front matter block is
// removed from the body and its non-empty title wins over the first non-blank
// line of the remaining body.
func ParseSource(content []byte, withFrontMatter bool) (Source, error) {
	if !withFrontMatter {
		title, err := ExtractTitle(bytes.NewReader(content))
		if err != nil {
			return Source{}, err
		}

		return Source{Title: title, Body: content}, nil
	}

	var meta postMeta

	body, err := frontmatter.Parse(bytes.NewReader(content), &meta)
	if err != nil {
		return Source{}, fmt.Errorf("parse front matter: %w", err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		// Blank lines between the block and the heading are common.
		title, err = ExtractTitle(bytes.NewReader(bytes.TrimLeft(body, "\r\n")))
		if err != nil {
			return Source{}, err
		}
	}

	return Source{Title: title, Body: body}, nil
}

// LoadSource reads the post at path and parses it with [ParseSource].
func LoadSource(fsys fs.FS, path string, withFrontMatter bool) (Source, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}

	src, err := ParseSource(content, withFrontMatter)
	if err != nil {
		return Source{}, fmt.Errorf("%s: %w", path, err)
	}

	return src, nil
}
