package command

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestExecRunnerRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	t.Parallel()

	out, err := ExecRunner{}.Run(context.Background(), `sh -c 'echo "Volume: 42%"'`)
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if strings.TrimSpace(out) != "Volume: 42%" {
		t.Errorf("Run output = %q", out)
	}
}

func TestExecRunnerFailureIncludesCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	t.Parallel()

	_, err := ExecRunner{}.Run(context.Background(), `sh -c 'echo nope >&2; exit 3'`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "sh -c") || !strings.Contains(err.Error(), "nope") {
		t.Errorf("error lacks command or stderr: %v", err)
	}
}

func TestExecRunnerRejectsBadQuoting(t *testing.T) {
	t.Parallel()

	if _, err := (ExecRunner{}).Run(context.Background(), `pactl "unterminated`); err == nil {
		t.Error("expected split error")
	}
	if _, err := (ExecRunner{}).Run(context.Background(), "   "); err == nil {
		t.Error("expected empty command error")
	}
}

type stubRunner map[string]error

func (s stubRunner) Run(_ context.Context, line string) (string, error) {
	if err, ok := s[line]; ok {
		return "", err
	}
	return "", errors.New("not found")
}

func TestProbe(t *testing.T) {
	t.Parallel()

	r := stubRunner{"pactl --version": nil}
	if !Probe(context.Background(), r, "pactl --version") {
		t.Error("pactl should probe ok")
	}
	if Probe(context.Background(), r, "amixer --version") {
		t.Error("amixer should not probe ok")
	}
}
