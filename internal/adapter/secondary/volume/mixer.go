package volume

import (
	"context"
	"fmt"
	"regexp"

	"audioctl/internal/domain"
)

// MixerCommands is the command table for one device on a text mixer tool.
// SetVolume is a format string taking the clamped percentage.
type MixerCommands struct {
	GetVolume string
	SetVolume string
	Mute      string
	Unmute    string
	GetMute   string
	// Muted reports whether GetMute output means the device is muted.
	Muted func(out string) bool
}

var amixerMuted = regexp.MustCompile(`(?i)\[off\]|\[mute\]`)

// PactlCommands returns the PulseAudio/PipeWire commands for d.
func PactlCommands(d domain.Device) MixerCommands {
	if d == domain.Mic {
		return MixerCommands{
			GetVolume: "pactl get-source-volume @DEFAULT_SOURCE@",
			SetVolume: "pactl set-source-volume @DEFAULT_SOURCE@ %d%%",
			Mute:      "pactl set-source-mute @DEFAULT_SOURCE@ 1",
			Unmute:    "pactl set-source-mute @DEFAULT_SOURCE@ 0",
			GetMute:   "pactl get-source-mute @DEFAULT_SOURCE@",
			Muted:     domain.ParseMuteText,
		}
	}
	return MixerCommands{
		GetVolume: "pactl get-sink-volume @DEFAULT_SINK@",
		SetVolume: "pactl set-sink-volume @DEFAULT_SINK@ %d%%",
		Mute:      "pactl set-sink-mute @DEFAULT_SINK@ 1",
		Unmute:    "pactl set-sink-mute @DEFAULT_SINK@ 0",
		GetMute:   "pactl get-sink-mute @DEFAULT_SINK@",
		Muted:     domain.ParseMuteText,
	}
}

// AmixerCommands returns the ALSA mixer commands for d. Capture is muted by
// disabling capture (nocap).
func AmixerCommands(d domain.Device) MixerCommands {
	if d == domain.Mic {
		return MixerCommands{
			GetVolume: "amixer get Capture",
			SetVolume: "amixer set Capture %d%%",
			Mute:      "amixer set Capture nocap",
			Unmute:    "amixer set Capture cap",
			GetMute:   "amixer get Capture",
			Muted:     amixerMuted.MatchString,
		}
	}
	return MixerCommands{
		GetVolume: "amixer get Master",
		SetVolume: "amixer set Master %d%%",
		Mute:      "amixer set Master mute",
		Unmute:    "amixer set Master unmute",
		GetMute:   "amixer get Master",
		Muted:     amixerMuted.MatchString,
	}
}

// MixerControl implements domain.DeviceControl by running text mixer
// commands and parsing their output.
type MixerControl struct {
	runner domain.CommandRunner
	cmds   MixerCommands
}

// NewMixerControl creates a control for one device.
func NewMixerControl(runner domain.CommandRunner, cmds MixerCommands) domain.DeviceControl {
	return &MixerControl{runner: runner, cmds: cmds}
}

func (m *MixerControl) Get(ctx context.Context) (domain.Volume, error) {
	out, err := m.runner.Run(ctx, m.cmds.GetVolume)
	if err != nil {
		return 0, err
	}
	return domain.ParseVolumeText(out)
}

func (m *MixerControl) Set(ctx context.Context, volume float64) error {
	v, err := domain.ValidateVolume(volume)
	if err != nil {
		return err
	}
	_, err = m.runner.Run(ctx, fmt.Sprintf(m.cmds.SetVolume, v))
	return err
}

func (m *MixerControl) Mute(ctx context.Context) error {
	_, err := m.runner.Run(ctx, m.cmds.Mute)
	return err
}

func (m *MixerControl) Unmute(ctx context.Context) error {
	_, err := m.runner.Run(ctx, m.cmds.Unmute)
	return err
}

func (m *MixerControl) IsMuted(ctx context.Context) (bool, error) {
	out, err := m.runner.Run(ctx, m.cmds.GetMute)
	if err != nil {
		return false, err
	}
	return m.cmds.Muted(out), nil
}
