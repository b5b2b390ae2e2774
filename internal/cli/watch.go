package cli

import (
	"context"

	"github.com/calvinalkan/blogbuild/internal/blog"

	flag "github.com/spf13/pflag"
)

// WatchCmd returns the watch command.
func WatchCmd(builder *blog.Builder) *Command {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.Bool("keep-going", true, "Continue past posts that fail to render")
	fs.Bool("skip-homepage", false, "Render posts without touching the homepage")
	fs.Duration("debounce", blog.DefaultDebounce, "Wait this long for changes to settle")

	return &Command{
		Flags: fs,
		Usage: "watch [flags]",
		Short: "Rebuild whenever a post changes",
		Long: `Build once, then rebuild whenever a markdown post in the source
directory is created, changed, renamed or removed. Stops on interrupt.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			keepGoing, _ := fs.GetBool("keep-going")
			skipHomepage, _ := fs.GetBool("skip-homepage")
			debounce, _ := fs.GetDuration("debounce")

			return builder.Watch(ctx, blog.WatchOptions{
				Debounce: debounce,
				Build: blog.BuildOptions{
					KeepGoing:    keepGoing,
					SkipHomepage: skipHomepage,
				},
				OnBuild: func(report *blog.Report, err error) {
					// Failures are logged by the watcher. A failing
					// first build ends the command.
					if err != nil {
						return
					}

					// Report each build as it happens; Finish only
					// runs at shutdown.
					printReport(io, report)
					io.Flush()
				},
			})
		},
	}
}
