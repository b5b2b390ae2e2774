package blog

import (
	"html"
	"strings"
)

const pageStyle = `    <style>
        .markdown-body {
            box-sizing: border-box;
            min-width: 200px;
            max-width: 980px;
            margin: 0 auto;
            padding: 45px;
        }

        @media (max-width: 767px) {
            .markdown-body {
                padding: 15px;
            }
        }

        body {
            color-scheme: dark;
            -ms-text-size-adjust: 100%;
            -webkit-text-size-adjust: 100%;
            margin: 0;
            color: #c9d1d9;
            background-color: #0d1117;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", "Noto Sans", Helvetica, Arial, sans-serif, "Apple Color Emoji", "Segoe UI Emoji";
            font-size: 16px;
            line-height: 1.5;
            word-wrap: break-word;
        }
    </style>
`

// pageFooter closes the wrappers opened by pageHeader.
const pageFooter = "</article></body>"

// pageHeader returns everything before the rendered post body: viewport,
// stylesheet, inline theme, the navigation form back to the blog, and the
// opening article tag.
func pageHeader(stylesheet, blogURL string) string {
	var b strings.Builder

	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")

	if stylesheet != "" {
		b.WriteString(`    <link rel="stylesheet" href="` + html.EscapeString(stylesheet) + `">` + "\n")
	}

	b.WriteString(pageStyle)
	b.WriteString("\n    <body>\n")
	b.WriteString(`    <form class="navbar" action="` + html.EscapeString(blogURL) + `">` + "\n")
	b.WriteString(`            <input class="blog-hp" type="submit" value="Blog Homepage" />` + "\n")
	b.WriteString("          </form>\n")
	b.WriteString(`    <article class="markdown-body">`)

	return b.String()
}
