// Package macos controls the speaker through osascript and the microphone
// through the mac_audio native addon.
package macos

import (
	"fmt"
	"io"

	"audioctl/internal/adapter/secondary/command"
	"audioctl/internal/adapter/secondary/volume"
	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// ErrMicAddonMissing is returned by every mic operation when no addon loaded.
var ErrMicAddonMissing = fmt.Errorf("%w: microphone control on macOS requires the native mac_audio addon; build it with the native build step", domain.ErrNotImplemented)

type Options struct {
	Runner domain.CommandRunner
	// Native is an injected addon, passed to Loader first.
	Native domain.NativeAddon
	Loader domain.AddonLoader
}

// Adapter is the macOS platform adapter. The addon is resolved once at New.
type Adapter struct {
	selection  domain.Selection
	controller domain.Controller
	closer     io.Closer
}

func New(opts Options) *Adapter {
	if opts.Runner == nil {
		opts.Runner = command.NewExecRunner()
	}

	addon, source := opts.Native, ""
	if opts.Loader != nil {
		addon, source = opts.Loader.Load(opts.Native)
	} else if addon != nil {
		source = "injected"
	}

	a := &Adapter{
		controller: domain.Controller{
			Speaker: volume.NewAppleScriptControl(opts.Runner),
			Mic:     volume.NewUnavailableControl(ErrMicAddonMissing),
		},
		selection: domain.Selection{Kind: domain.BackendOsascript},
	}
	if addon == nil {
		logging.Warnf("mac_audio addon not found; microphone control disabled")
		return a
	}

	if c, ok := addon.(io.Closer); ok {
		a.closer = c
	}
	if dev := addon.Device(domain.Mic); dev != nil {
		a.controller.Mic = volume.NewNativeControl(dev)
		a.selection = domain.Selection{Kind: domain.BackendNative, Source: source}
	} else {
		logging.Warnf("mac_audio addon from %s has no microphone functions", source)
	}
	return a
}

// Selection reports native when the mic addon loaded, osascript otherwise.
// The speaker always goes through osascript.
func (a *Adapter) Selection() domain.Selection {
	return a.selection
}

func (a *Adapter) Controller() domain.Controller {
	return a.controller
}

func (a *Adapter) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
