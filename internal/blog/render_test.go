package blog_test

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/blogbuild/internal/blog"
	"github.com/calvinalkan/blogbuild/internal/fs"
)

func newRenderer(t *testing.T) *blog.Renderer {
	t.Helper()

	r, err := blog.NewRenderer(blog.RenderOptions{
		BlogURL:    "https://blog.danyaal.xyz",
		Stylesheet: "github-markdown-dark.css",
	})
	require.NoError(t, err)

	return r
}

func TestNewRenderer_Rejects_Unknown_Theme(t *testing.T) {
	t.Parallel()

	_, err := blog.NewRenderer(blog.RenderOptions{Theme: "no-such-style"})
	require.ErrorIs(t, err, blog.ErrUnknownTheme)
}

func TestValidTheme(t *testing.T) {
	t.Parallel()

	assert.True(t, blog.ValidTheme(blog.DefaultTheme))
	assert.True(t, blog.ValidTheme("monokai"))
	assert.False(t, blog.ValidTheme("no-such-style"))
}

func TestRenderBody_Extensions(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)

	for _, tt := range []struct {
		name  string
		input string
		want  string
	}{
		{name: "emphasis", input: "**bold** text", want: "<strong>bold</strong> text"},
		{name: "strikethrough", input: "~~gone~~", want: "<del>gone</del>"},
		{name: "table", input: "| a | b |\n|---|---|\n| 1 | 2 |\n", want: "<table>"},
		{name: "task list", input: "- [x] done\n", want: `type="checkbox"`},
		{name: "footnote", input: "text[^1]\n\n[^1]: note\n", want: `class="footnotes"`},
		{name: "heading attribute", input: "# Title {#custom-id}\n", want: `<h1 id="custom-id">Title</h1>`},
		{
			name:  "smart punctuation",
			input: "\"quoted\" it's -- a --- b...\n",
			want:  "<p>&ldquo;quoted&rdquo; it&rsquo;s &ndash; a &mdash; b&hellip;</p>",
		},
		{name: "heading id and class", input: "# T {#x .cls}\n", want: `<h1 id="x" class="cls">T</h1>`},
		{name: "raw html", input: "<div class=\"box\">hi</div>\n", want: `<div class="box">hi</div>`},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.RenderBody([]byte(tt.input))
			require.NoError(t, err)
			assert.Contains(t, string(got), tt.want)
		})
	}
}

func TestRenderBody_Highlights_Fenced_Code(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)

	got, err := r.RenderBody([]byte("```go\nfunc main() {}\n```\n"))
	require.NoError(t, err)

	html := string(got)
	assert.Contains(t, html, "<pre")
	assert.Contains(t, html, "style=")
	assert.Contains(t, html, "main")
	assert.NotContains(t, html, "```")
}

func TestRenderPage_Wraps_Body_In_Boilerplate(t *testing.T) {
	t.Parallel()

	page, err := newRenderer(t).RenderPage([]byte("# Hi\n"))
	require.NoError(t, err)

	html := string(page)
	assert.True(t, strings.HasPrefix(html, `<meta name="viewport" content="width=device-width, initial-scale=1">`))
	assert.Contains(t, html, `<link rel="stylesheet" href="github-markdown-dark.css">`)
	assert.Contains(t, html, `<form class="navbar" action="https://blog.danyaal.xyz">`)
	assert.Contains(t, html, `value="Blog Homepage"`)
	assert.Contains(t, html, `<article class="markdown-body"><h1 id="hi">Hi</h1>`)
	assert.True(t, strings.HasSuffix(html, "</article></body>"))
}

func TestRenderPage_Without_Stylesheet_Omits_Link(t *testing.T) {
	t.Parallel()

	r, err := blog.NewRenderer(blog.RenderOptions{BlogURL: "https://b.example"})
	require.NoError(t, err)

	page, err := r.RenderPage([]byte("x"))
	require.NoError(t, err)
	assert.NotContains(t, string(page), `rel="stylesheet"`)
}

func TestRenderPage_Is_Deterministic(t *testing.T) {
	t.Parallel()

	input := []byte("# Title\n\n```python\nprint('hi')\n```\n\n| a |\n|---|\n| 1 |\n")

	first, err := newRenderer(t).RenderPage(input)
	require.NoError(t, err)

	second, err := newRenderer(t).RenderPage(input)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("/out", "hello-world.html"), blog.OutputPath("/out", "/src/hello-world.md"))
}

func TestRenderFile_Writes_Page_And_Creates_Output_Dir(t *testing.T) {
	t.Parallel()

	src := writePost(t, t.TempDir(), "hello-world.md", "# Hello World\n\n**bold** text\n", time.Hour)
	outDir := filepath.Join(t.TempDir(), "public", "blog")

	dst, err := newRenderer(t).RenderFile(fs.NewReal(), src, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "hello-world.html"), dst)

	html := readFile(t, dst)
	assert.Contains(t, html, "<strong>bold</strong> text")

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRenderFile_Replaces_Existing_Page(t *testing.T) {
	t.Parallel()

	src := writePost(t, t.TempDir(), "post.md", "new content\n", time.Hour)
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "post.html"), []byte("stale"), 0o600))

	dst, err := newRenderer(t).RenderFile(fs.NewReal(), src, outDir)
	require.NoError(t, err)

	html := readFile(t, dst)
	assert.NotContains(t, html, "stale")
	assert.Contains(t, html, "new content")
}

func TestRenderFile_Strips_FrontMatter_When_Enabled(t *testing.T) {
	t.Parallel()

	src := writePost(t, t.TempDir(), "fm.md", "---\ntitle: Meta\n---\n# Body\n", time.Hour)

	r, err := blog.NewRenderer(blog.RenderOptions{BlogURL: "https://b.example", FrontMatter: true})
	require.NoError(t, err)

	dst, err := r.RenderFile(fs.NewReal(), src, t.TempDir())
	require.NoError(t, err)

	html := readFile(t, dst)
	assert.NotContains(t, html, "title: Meta")
	assert.Contains(t, html, `<h1 id="body">Body</h1>`)
}

func TestRenderFile_Read_Failure_Writes_Nothing(t *testing.T) {
	t.Parallel()

	src := writePost(t, t.TempDir(), "post.md", "x", time.Hour)
	outDir := t.TempDir()

	fsys := fs.NewFaulty(fs.NewReal())
	fsys.Fail(fs.OpRead, src, syscall.EIO)

	_, err := newRenderer(t).RenderFile(fsys, src, outDir)
	require.ErrorIs(t, err, syscall.EIO)

	_, statErr := os.Stat(filepath.Join(outDir, "post.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderFile_Output_Dir_Creation_Failure(t *testing.T) {
	t.Parallel()

	src := writePost(t, t.TempDir(), "post.md", "x", time.Hour)
	outDir := filepath.Join(t.TempDir(), "public")

	fsys := fs.NewFaulty(fs.NewReal())
	fsys.Fail(fs.OpMkdir, outDir, syscall.EACCES)

	_, err := newRenderer(t).RenderFile(fsys, src, outDir)
	require.ErrorIs(t, err, syscall.EACCES)
	assert.Contains(t, err.Error(), "create output directory")
	assert.NoDirExists(t, outDir)
}
