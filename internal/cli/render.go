package cli

import (
	"context"

	"github.com/calvinalkan/blogbuild/internal/blog"

	flag "github.com/spf13/pflag"
)

// RenderCmd returns the render command.
func RenderCmd(builder *blog.Builder) *Command {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.Bool("keep-going", false, "Continue past posts that fail to render")

	return &Command{
		Flags: fs,
		Usage:     "render [flags] [post...]",
		TakesArgs: true,
		Short: "Render posts without touching the homepage",
		Long: `Render the named posts, or every post when none are named.
A post is named by file name or slug ("hello-world.md" or "hello-world");
other relative paths resolve against the source directory.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			keepGoing, _ := fs.GetBool("keep-going")

			report, err := builder.RenderPaths(ctx, args, keepGoing)
			if err != nil {
				return err
			}

			printReport(io, report)

			return nil
		},
	}
}
