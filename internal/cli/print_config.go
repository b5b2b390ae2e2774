package cli

import (
	"context"
	"strconv"

	"github.com/calvinalkan/blogbuild/internal/blog"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg *blog.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			execPrintConfig(io, cfg)

			return nil
		},
	}
}

func execPrintConfig(io *IO, cfg *blog.Config) {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("source_dir=" + cfg.SourceDirAbs)
	io.Println("output_dir=" + cfg.OutputDirAbs)
	io.Println("homepage=" + cfg.HomepageAbs)
	io.Println("lock_file=" + cfg.LockFileAbs)
	io.Println("blog_url=" + cfg.BlogURL)

	if cfg.Stylesheet != "" {
		io.Println("stylesheet=" + cfg.Stylesheet)
	}

	io.Println("theme=" + cfg.Theme)
	io.Println("front_matter=" + strconv.FormatBool(cfg.FrontMatter))

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}
}
