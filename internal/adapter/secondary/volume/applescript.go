package volume

import (
	"context"
	"fmt"
	"strings"

	"audioctl/internal/domain"
)

// AppleScriptControl implements domain.DeviceControl for the macOS output
// device using osascript.
type AppleScriptControl struct {
	runner domain.CommandRunner
}

// NewAppleScriptControl creates a speaker control backed by osascript.
func NewAppleScriptControl(runner domain.CommandRunner) domain.DeviceControl {
	return &AppleScriptControl{runner: runner}
}

func osascript(script string) string {
	return fmt.Sprintf("osascript -e '%s'", script)
}

func (a *AppleScriptControl) run(ctx context.Context, script string) (string, error) {
	out, err := a.runner.Run(ctx, osascript(script))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Get reads the output volume.
func (a *AppleScriptControl) Get(ctx context.Context) (domain.Volume, error) {
	out, err := a.run(ctx, "output volume of (get volume settings)")
	if err != nil {
		return 0, fmt.Errorf("get speaker volume: %w", err)
	}
	v, err := domain.ParseVolumeText(out)
	if err != nil {
		return 0, fmt.Errorf("get speaker volume: %w", err)
	}
	return v, nil
}

// Set sets the output volume (0-100).
func (a *AppleScriptControl) Set(ctx context.Context, volume float64) error {
	v, err := domain.ValidateVolume(volume)
	if err != nil {
		return err
	}
	_, err = a.run(ctx, fmt.Sprintf("set volume output volume %d", v))
	return err
}

func (a *AppleScriptControl) Mute(ctx context.Context) error {
	_, err := a.run(ctx, "set volume output muted true")
	return err
}

func (a *AppleScriptControl) Unmute(ctx context.Context) error {
	_, err := a.run(ctx, "set volume output muted false")
	return err
}

func (a *AppleScriptControl) IsMuted(ctx context.Context) (bool, error) {
	out, err := a.run(ctx, "output muted of (get volume settings)")
	if err != nil {
		return false, fmt.Errorf("get speaker mute state: %w", err)
	}
	norm := strings.ToLower(out)
	return norm == "true" || norm == "yes", nil
}
