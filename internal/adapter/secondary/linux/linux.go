// Package linux drives the default sink and source on Linux through the
// PulseAudio native protocol, pactl, or amixer, whichever is found first.
package linux

import (
	"context"
	"fmt"
	"io"

	"audioctl/internal/adapter/secondary/command"
	"audioctl/internal/adapter/secondary/volume"
	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// ErrNoBackend names both command-line tools the adapter can fall back to.
var ErrNoBackend = fmt.Errorf("%w: install pactl (pulseaudio-utils) or amixer (alsa-utils)", domain.ErrBackendUnavailable)

// Options configures backend selection. Zero values probe the real system.
type Options struct {
	Runner domain.CommandRunner
	// Native is an injected addon; it wins over every probe.
	Native domain.NativeAddon
	// DialNative connects the native protocol backend. Nil skips it.
	DialNative func() (domain.NativeAddon, error)
	// Force skips probing when Forced is set.
	Force  domain.BackendKind
	Forced bool
}

// Adapter is the Linux platform adapter. Its selection is fixed at New.
type Adapter struct {
	selection  domain.Selection
	controller domain.Controller
	closer     io.Closer
}

// New probes once and builds the speaker and mic controls.
func New(ctx context.Context, opts Options) *Adapter {
	if opts.Runner == nil {
		opts.Runner = command.NewExecRunner()
	}
	sel, addon := probe(ctx, opts)
	logging.Infof("linux audio backend: %s", sel)

	a := &Adapter{selection: sel}
	if c, ok := addon.(io.Closer); ok {
		a.closer = c
	}
	for _, d := range domain.Devices {
		ctl := control(sel.Kind, d, opts.Runner, addon)
		if d == domain.Mic {
			a.controller.Mic = ctl
		} else {
			a.controller.Speaker = ctl
		}
	}
	return a
}

func probe(ctx context.Context, opts Options) (domain.Selection, domain.NativeAddon) {
	if opts.Native != nil {
		return domain.Selection{Kind: domain.BackendNative, Source: "injected"}, opts.Native
	}
	if opts.Forced {
		if opts.Force == domain.BackendNative {
			if addon := dial(opts); addon != nil {
				return domain.Selection{Kind: domain.BackendNative, Source: "pulseaudio protocol"}, addon
			}
			return domain.Selection{Kind: domain.BackendNone, Source: "native backend unavailable"}, nil
		}
		return domain.Selection{Kind: opts.Force, Source: "forced"}, nil
	}

	if addon := dial(opts); addon != nil {
		return domain.Selection{Kind: domain.BackendNative, Source: "pulseaudio protocol"}, addon
	}
	if command.Probe(ctx, opts.Runner, "pactl --version") {
		return domain.Selection{Kind: domain.BackendPactl}, nil
	}
	if command.Probe(ctx, opts.Runner, "amixer --version") {
		return domain.Selection{Kind: domain.BackendAmixer}, nil
	}
	return domain.Selection{Kind: domain.BackendNone}, nil
}

func dial(opts Options) domain.NativeAddon {
	if opts.DialNative == nil {
		return nil
	}
	addon, err := opts.DialNative()
	if err != nil {
		logging.Debugf("native pulseaudio backend unavailable: %v", err)
		return nil
	}
	return addon
}

func control(kind domain.BackendKind, d domain.Device, runner domain.CommandRunner, addon domain.NativeAddon) domain.DeviceControl {
	switch kind {
	case domain.BackendNative:
		if dev := addon.Device(d); dev != nil {
			return volume.NewNativeControl(dev)
		}
		return volume.NewUnavailableControl(fmt.Errorf("%w: native backend does not serve %s", domain.ErrNotImplemented, d))
	case domain.BackendPactl:
		return volume.NewMixerControl(runner, volume.PactlCommands(d))
	case domain.BackendAmixer:
		return volume.NewMixerControl(runner, volume.AmixerCommands(d))
	default:
		return volume.NewUnavailableControl(ErrNoBackend)
	}
}

// Selection reports the backend chosen at construction.
func (a *Adapter) Selection() domain.Selection {
	return a.selection
}

// Controller returns the speaker and mic controls.
func (a *Adapter) Controller() domain.Controller {
	return a.controller
}

// Close releases the native connection, if any.
func (a *Adapter) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
