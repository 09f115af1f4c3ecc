package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"audioctl/internal/logging"
)

func newShellCmd(a *app) *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run audioctl subcommands interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractiveShell(cmd.OutOrStdout(), prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "audioctl> ", "shell prompt")
	return cmd
}

func (a *app) runInteractiveShell(out io.Writer, prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "audioctl-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	a.inShell = true
	defer func() { a.inShell = false }()
	fmt.Fprintln(out, "Interactive shell. Type 'help' for examples, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(out)
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if done := a.runShellLine(out, line); done {
			return nil
		}
	}
}

// runShellLine executes one shell line and reports whether the shell should exit.
func (a *app) runShellLine(out io.Writer, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "exit", "quit":
		fmt.Fprintln(out, "Bye!")
		return true
	case "help":
		printShellHelp(out)
		return false
	}

	tokens, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(out, "parse error: %v\n", err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}
	switch tokens[0] {
	case "log":
		if err := handleShellLog(out, tokens[1:]); err != nil {
			fmt.Fprintf(out, "log: %v\n", err)
		}
		return false
	case "shell":
		fmt.Fprintln(out, "Already in the shell. Enter a command or 'exit'.")
		return false
	}

	if err := a.executeArgs(out, tokens); err != nil {
		fmt.Fprintf(out, "command error: %v\n", err)
	}
	return false
}

func (a *app) executeArgs(out io.Writer, args []string) error {
	root := newRootCmd(a)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(out io.Writer, args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "set level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "print the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case level != "":
		if err := logging.SetLevel(level); err != nil {
			return err
		}
	case vcount > 0:
		logging.SetVerbosity(vcount)
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.Current(), logging.Verbosity())
		return nil
	}

	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.Current(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  status                      # volume and mute state of both devices
  get mic                     # print the mic volume
  set speaker 35              # set the speaker volume
  mute mic / unmute mic       # toggle mute
  backend                     # show the selected backend
  enforce --volume 60         # keep the mic at 60%
  serve --addr 0.0.0.0:7070   # HTTP API + enforcer
  config get                  # show preferences
  config set --volume 70      # update preferences
  log -vv                     # more logging
  log --show                  # current log level
  exit / quit                 # leave the shell`)
}
