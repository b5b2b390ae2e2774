// Package cli implements the blogbuild command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/calvinalkan/blogbuild/internal/blog"
	"github.com/calvinalkan/blogbuild/internal/fs"

	flag "github.com/spf13/pflag"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. The first signal cancels the running command's context;
// watch mode uses this to shut down cleanly.
func Run(_ io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)

	globals := newGlobalFlags()

	if len(args) > 1 {
		err := globals.set.Parse(args[1:])
		if err != nil && !errors.Is(err, flag.ErrHelp) {
			o.ErrPrintln("error:", err)
			o.ErrPrintln()
			printGlobalFlags(errOut, globals.set)

			return 1
		}

		if errors.Is(err, flag.ErrHelp) {
			globals.help = true
		}
	}

	if err := globals.checkEmpty(); err != nil {
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		printGlobalFlags(errOut, globals.set)

		return 1
	}

	rest := globals.set.Args()

	if globals.help || len(args) <= 1 {
		printUsage(out, globals.set, allCommands(nil, nil))

		return 0
	}

	if len(rest) == 0 {
		o.ErrPrintln("error: no command provided")
		o.ErrPrintln()
		printUsage(errOut, globals.set, allCommands(nil, nil))

		return 1
	}

	name := rest[0]

	if _, ok := findCommand(allCommands(nil, nil), name); !ok {
		o.ErrPrintln("error: unknown command:", name)
		o.ErrPrintln()
		printUsage(errOut, globals.set, allCommands(nil, nil))

		return 1
	}

	cfg, err := blog.LoadConfig(blog.LoadConfigInput{
		WorkDirOverride:   globals.workDir,
		ConfigPath:        globals.configPath,
		SourceDirOverride: globals.sourceDir,
		OutputDirOverride: globals.outputDir,
		HomepageOverride:  globals.homepage,
		Env:               env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	builder, err := blog.NewBuilder(fs.NewReal(), cfg)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	cmd, _ := findCommand(allCommands(&cfg, builder), name)

	level := slog.LevelWarn
	if globals.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithCancel(blog.WithLogger(context.Background(), logger))
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	code := cmd.Run(ctx, o, rest[1:])
	finish := o.Finish()

	if code != 0 {
		return code
	}

	return finish
}

type globalFlags struct {
	set        *flag.FlagSet
	workDir    string
	configPath string
	sourceDir  string
	outputDir  string
	homepage   string
	verbose    bool
	help       bool
}

func newGlobalFlags() *globalFlags {
	g := &globalFlags{set: flag.NewFlagSet("blogbuild", flag.ContinueOnError)}

	g.set.SetOutput(io.Discard)
	// Stop at the command name; everything after belongs to the command.
	g.set.SetInterspersed(false)

	g.set.StringVarP(&g.workDir, "cwd", "C", "", "Run as if started in `dir`")
	g.set.StringVarP(&g.configPath, "config", "c", "", "Use specified config `file`")
	g.set.StringVar(&g.sourceDir, "source-dir", "", "Directory holding markdown posts")
	g.set.StringVar(&g.outputDir, "output-dir", "", "Directory receiving rendered pages")
	g.set.StringVar(&g.homepage, "homepage", "", "Homepage `file` holding the latest-post slot")
	g.set.BoolVarP(&g.verbose, "verbose", "v", false, "Log progress to stderr")
	g.set.BoolVarP(&g.help, "help", "h", false, "Show help")

	return g
}

// checkEmpty rejects path flags given with an empty value; unset flags are
// empty too, so Changed tells them apart.
func (g *globalFlags) checkEmpty() error {
	for _, check := range []struct {
		name  string
		value string
		err   error
	}{
		{name: "source-dir", value: g.sourceDir, err: blog.ErrSourceDirEmpty},
		{name: "output-dir", value: g.outputDir, err: blog.ErrOutputDirEmpty},
		{name: "homepage", value: g.homepage, err: blog.ErrHomepageEmpty},
	} {
		if g.set.Changed(check.name) && check.value == "" {
			return check.err
		}
	}

	return nil
}

// allCommands returns every command in help order. cfg and builder may be nil
// when only help text is needed.
func allCommands(cfg *blog.Config, builder *blog.Builder) []*Command {
	return []*Command{
		BuildCmd(builder),
		RenderCmd(builder),
		PatchCmd(builder),
		LatestCmd(builder),
		LsCmd(builder),
		WatchCmd(builder),
		PrintConfigCmd(cfg),
	}
}

func findCommand(commands []*Command, name string) (*Command, bool) {
	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd, true
		}
	}

	return nil, false
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printGlobalFlags(w io.Writer, set *flag.FlagSet) {
	fprintln(w, "Global flags:")

	var buf strings.Builder
	set.SetOutput(&buf)
	set.PrintDefaults()
	set.SetOutput(io.Discard)

	_, _ = io.WriteString(w, buf.String())
}

func printUsage(w io.Writer, set *flag.FlagSet, commands []*Command) {
	fprintln(w, "blogbuild - render markdown posts and link the newest from the homepage")
	fprintln(w)
	fprintln(w, "Usage: blogbuild [global flags] <command> [args]")
	fprintln(w)
	printGlobalFlags(w, set)
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
