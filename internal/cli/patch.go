package cli

import (
	"context"

	"github.com/calvinalkan/blogbuild/internal/blog"

	flag "github.com/spf13/pflag"
)

// PatchCmd returns the patch command.
func PatchCmd(builder *blog.Builder) *Command {
	return &Command{
		Flags: flag.NewFlagSet("patch", flag.ContinueOnError),
		Usage: "patch",
		Short: "Link the newest post from the homepage",
		Long: `Rewrite the homepage's latest-post slot to link the most recently
modified post. No posts are rendered.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			result, err := builder.Patch(ctx)
			if err != nil {
				return err
			}

			warnPatch(io, result)

			if result.Found {
				io.Println("homepage", result.Path, "->", result.Link.URL())
			}

			return nil
		},
	}
}
