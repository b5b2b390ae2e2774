package cli

import (
	"context"
	"time"

	"github.com/calvinalkan/blogbuild/internal/blog"

	flag "github.com/spf13/pflag"
)

// LsCmd returns the ls command.
func LsCmd(builder *blog.Builder) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Usage: "ls",
		Short: "List posts",
		Long: `List posts in name order as "<mtime>  <name>".
The post the homepage would link is marked with "*".`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			listing, err := builder.List(ctx)
			if err != nil {
				return err
			}

			for _, post := range listing.Posts {
				mark := " "
				if listing.NewestPost != nil && listing.NewestPost.Path == post.Path {
					mark = "*"
				}

				io.Printf("%s %s  %s\n", mark, post.ModTime.Format(time.RFC3339), post.Name)
			}

			return nil
		},
	}
}
