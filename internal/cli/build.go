package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/calvinalkan/blogbuild/internal/blog"

	flag "github.com/spf13/pflag"
)

// BuildCmd returns the build command.
func BuildCmd(builder *blog.Builder) *Command {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.Bool("keep-going", false, "Continue past posts that fail to render")
	fs.Bool("skip-homepage", false, "Render posts without touching the homepage")

	return &Command{
		Flags: fs,
		Usage: "build [flags]",
		Short: "Render all posts and link the newest from the homepage",
		Long: `Render every markdown post in the source directory to HTML and rewrite
the homepage's latest-post slot to link the most recently modified post.

The homepage is patched first, then posts are rendered in name order.
Prints one output path per rendered post.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			keepGoing, _ := fs.GetBool("keep-going")
			skipHomepage, _ := fs.GetBool("skip-homepage")

			report, err := builder.Build(ctx, blog.BuildOptions{
				KeepGoing:    keepGoing,
				SkipHomepage: skipHomepage,
			})
			if err != nil {
				return err
			}

			printReport(io, report)

			return nil
		},
	}
}

// printReport writes rendered outputs to stdout and raises a warning for
// everything the run could not do.
func printReport(io *IO, report *blog.Report) {
	for _, failed := range report.Failed {
		io.Warn(fmt.Sprintf("failed to render %s: %v", failed.Post.Name, failed.Err), "fix the post and rebuild")
	}

	if report.HomepageErr != nil {
		if errors.Is(report.HomepageErr, blog.ErrNoPosts) {
			io.Warn(report.HomepageErr.Error(), "homepage left unchanged")
		} else {
			io.Warn("homepage not patched: "+report.HomepageErr.Error(), "check the homepage file")
		}
	}

	if report.Homepage != nil {
		warnPatch(io, *report.Homepage)
	}

	for _, rendered := range report.Rendered {
		io.Println(rendered.Output)
	}

	if report.Homepage != nil && report.Homepage.Found {
		io.Println("homepage", report.Homepage.Path, "->", report.Homepage.Link.URL())
	}
}

func warnPatch(io *IO, result blog.PatchResult) {
	if result.Found {
		return
	}

	io.Warn(
		fmt.Sprintf("no %s...%s region in %s", blog.SlotOpen, blog.SlotClose, result.Path),
		"add the marker pair where the latest-post link belongs",
	)
}
