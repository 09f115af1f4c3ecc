package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"

	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// ExecRunner implements domain.CommandRunner with os/exec. Command lines are
// split with shell quoting rules but never passed to a shell.
type ExecRunner struct{}

// NewExecRunner creates a runner for real system tools.
func NewExecRunner() domain.CommandRunner {
	return ExecRunner{}
}

// Run executes line and returns its stdout.
func (ExecRunner) Run(ctx context.Context, line string) (string, error) {
	argv, err := shlex.Split(line)
	if err != nil {
		return "", fmt.Errorf("split command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return "", errors.New("empty command")
	}

	logging.Tracef("exec: %s", line)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("failed to run command: %s -> %w (%s)", line, err, msg)
		}
		return "", fmt.Errorf("failed to run command: %s -> %w", line, err)
	}
	return stdout.String(), nil
}

// Probe reports whether line runs successfully. Failures are expected while
// probing and are only logged.
func Probe(ctx context.Context, r domain.CommandRunner, line string) bool {
	if _, err := r.Run(ctx, line); err != nil {
		logging.Debugf("probe %q failed: %v", line, err)
		return false
	}
	logging.Debugf("probe %q ok", line)
	return true
}
