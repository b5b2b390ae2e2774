package cli_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/calvinalkan/blogbuild/internal/cli"
)

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "build")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")

	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--help")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--config")
	cli.AssertContains(t, stderr, "--source-dir")
}

func Test_Empty_Path_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		flag string
		want string
	}{
		{flag: "--source-dir=", want: "source-dir cannot be empty"},
		{flag: "--output-dir=", want: "output-dir cannot be empty"},
		{flag: "--homepage=", want: "homepage cannot be empty"},
	} {
		tt := tt
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stdout, stderr, exitCode := c.Run(tt.flag, "build")

			if got, want := exitCode, 1; got != want {
				t.Errorf("exitCode=%d, want=%d", got, want)
			}

			if got, want := stdout, ""; got != want {
				t.Errorf("stdout=%q, want=%q", got, want)
			}

			cli.AssertContains(t, stderr, tt.want)
			cli.AssertContains(t, stderr, "Global flags:")
		})
	}
}

func Test_Bare_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	// Call Run directly without test helper (which adds --cwd)
	var stdout, stderr bytes.Buffer

	exitCode := cli.Run(nil, &stdout, &stderr, []string{"blogbuild"}, nil, nil)

	if got, want := exitCode, 0; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stderr.String(), ""; got != want {
		t.Errorf("stderr=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stdout.String(), "blogbuild - render markdown posts")
	cli.AssertContains(t, stdout.String(), "--cwd")
	cli.AssertContains(t, stdout.String(), "build [flags]")
}

func Test_Main_Help_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		args []string
	}{
		{name: "long flag", args: []string{"--help"}},
		{name: "short flag", args: []string{"-h"}},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			stdout, stderr, exitCode := c.Run(tt.args...)

			if got, want := exitCode, 0; got != want {
				t.Errorf("exitCode=%d, want=%d", got, want)
			}

			if got, want := stderr, ""; got != want {
				t.Errorf("stderr=%q, want=%q", got, want)
			}

			cli.AssertContains(t, stdout, "blogbuild - render markdown posts")
			cli.AssertContains(t, stdout, "render [flags] [post...]")
			cli.AssertContains(t, stdout, "watch [flags]")
			cli.AssertContains(t, stdout, "print-config")
		})
	}
}

func Test_No_Command_With_Flags_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--verbose")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "no command provided")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("publish")

	cli.AssertContains(t, stderr, "unknown command: publish")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Command_Help_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("build", "--help")

	cli.AssertContains(t, stdout, "Usage: blogbuild build [flags]")
	cli.AssertContains(t, stdout, "--keep-going")
	cli.AssertContains(t, stdout, "--skip-homepage")
}

func Test_Invalid_Command_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("build", "--nope")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag: --nope")
	cli.AssertContains(t, stdout, "Usage: blogbuild build")
}

func Test_Invalid_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".blogbuild.json", `{"theme": "no-such-style"}`)

	stderr := c.MustFail("build")

	cli.AssertContains(t, stderr, "unknown theme: no-such-style")
}

func Test_Unexpected_Argument_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WritePost("post.md", "# Post\n", t0)

	stdout, stderr, exitCode := c.Run("build", "post.md")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stderr, "unexpected argument: post.md")
	cli.AssertContains(t, stdout, "Usage: blogbuild build")

	if _, err := os.Stat(c.OutputDir()); !os.IsNotExist(err) {
		t.Errorf("rejected build must not render, stat err=%v", err)
	}
}
