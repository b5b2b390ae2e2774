package cli

import (
	"context"
	"time"

	"github.com/calvinalkan/blogbuild/internal/blog"

	flag "github.com/spf13/pflag"
)

// LatestCmd returns the latest command.
func LatestCmd(builder *blog.Builder) *Command {
	return &Command{
		Flags: flag.NewFlagSet("latest", flag.ContinueOnError),
		Usage: "latest",
		Short: "Show the post the homepage would link",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			latest, err := builder.Latest(ctx)
			if err != nil {
				return err
			}

			io.Println("slug=" + latest.Post.Slug)
			io.Println("title=" + latest.Title)
			io.Println("path=" + latest.Post.Path)
			io.Println("modified=" + latest.Post.ModTime.Format(time.RFC3339))
			io.Println("url=" + latest.Link.URL())

			return nil
		},
	}
}
