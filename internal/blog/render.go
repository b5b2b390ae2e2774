package blog

import (
	"bytes"
	"fmt"
	"path/filepath"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/calvinalkan/blogbuild/internal/fs"
)

// DefaultTheme is the chroma style used for code blocks.
const DefaultTheme = "github-dark"

const (
	outputExt   = ".html"
	outputPerms = 0o644
	dirPerms    = 0o755
	codeTabSize = 4
)

// ValidTheme reports whether chroma knows a style named name.
func ValidTheme(name string) bool {
	_, ok := styles.Registry[name]

	return ok
}

// RenderOptions configures a [Renderer].
type RenderOptions struct {
	// Theme is a chroma style name.
	Theme string

	// BlogURL is the target of the navigation form.
	BlogURL string

	// Stylesheet is linked from every page; empty omits the link.
	Stylesheet string

	// FrontMatter strips a leading front matter block before rendering.
	FrontMatter bool
}

// RenderOptionsFromConfig maps the relevant config fields.
func RenderOptionsFromConfig(cfg Config) RenderOptions {
	return RenderOptions{
		Theme:       cfg.Theme,
		BlogURL:     cfg.BlogURL,
		Stylesheet:  cfg.Stylesheet,
		FrontMatter: cfg.FrontMatter,
	}
}

// Renderer turns markdown posts into standalone HTML pages.
//
// A Renderer holds no per-post state; one instance renders a whole batch.
type Renderer struct {
	opts     RenderOptions
	markdown goldmark.Markdown
	header   []byte
}

// NewRenderer validates opts and builds the markdown engine.
// An unknown theme is an error wrapping [ErrUnknownTheme].
func NewRenderer(opts RenderOptions) (*Renderer, error) {
	if opts.Theme == "" {
		opts.Theme = DefaultTheme
	}

	if !ValidTheme(opts.Theme) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, opts.Theme)
	}

	markdown := goldmark.New(
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			// {#id .class} after headings
			parser.WithAttribute(),
		),
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Table,
			extension.Footnote,
			extension.TaskList,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.Theme),
				highlighting.WithFormatOptions(
					chromahtml.TabWidth(codeTabSize),
				),
			),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(),
		),
	)

	return &Renderer{
		opts:     opts,
		markdown: markdown,
		header:   []byte(pageHeader(opts.Stylesheet, opts.BlogURL)),
	}, nil
}

// RenderBody converts markdown to an HTML fragment.
func (r *Renderer) RenderBody(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer

	err := r.markdown.Convert(markdown, &buf)
	if err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderPage converts markdown to a complete page: header, body, footer.
// Output depends only on markdown and the renderer's options.
func (r *Renderer) RenderPage(markdown []byte) ([]byte, error) {
	body, err := r.RenderBody(markdown)
	if err != nil {
		return nil, err
	}

	page := make([]byte, 0, len(r.header)+len(body)+len(pageFooter))
	page = append(page, r.header...)
	page = append(page, body...)
	page = append(page, pageFooter...)

	return page, nil
}

// OutputPath returns where the page for the post at src is written.
func OutputPath(outDir, src string) string {
	return filepath.Join(outDir, Slug(src)+outputExt)
}

// RenderFile renders the post at src into outDir and returns the output path.
// Any existing page of the same name is replaced.
func (r *Renderer) RenderFile(fsys fs.FS, src, outDir string) (string, error) {
	content, err := fsys.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", src, err)
	}

	if r.opts.FrontMatter {
		source, parseErr := ParseSource(content, true)
		if parseErr != nil {
			return "", fmt.Errorf("%s: %w", src, parseErr)
		}

		content = source.Body
	}

	page, err := r.RenderPage(content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}

	mkdirErr := fsys.MkdirAll(outDir, dirPerms)
	if mkdirErr != nil {
		return "", fmt.Errorf("create output directory: %w", mkdirErr)
	}

	dst := OutputPath(outDir, src)

	writeErr := fsys.WriteFileAtomic(dst, page, outputPerms)
	if writeErr != nil {
		return "", fmt.Errorf("write %s: %w", dst, writeErr)
	}

	return dst, nil
}
