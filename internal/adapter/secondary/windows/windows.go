// Package windows controls the default render and capture endpoints through
// the win_audio native addon or the compiled-in WASAPI provider.
package windows

import (
	"fmt"
	"io"

	"audioctl/internal/adapter/secondary/volume"
	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// ErrAddonMissing is returned by every operation when no addon loaded.
var ErrAddonMissing = fmt.Errorf("%w: native win_audio module not loaded; build the win_audio addon", domain.ErrBackendUnavailable)

type Options struct {
	// Native is an injected addon, passed to Loader first.
	Native domain.NativeAddon
	Loader domain.AddonLoader
}

// Adapter is the Windows platform adapter.
type Adapter struct {
	selection  domain.Selection
	controller domain.Controller
	closer     io.Closer
}

func New(opts Options) *Adapter {
	addon, source := opts.Native, ""
	if opts.Loader != nil {
		addon, source = opts.Loader.Load(opts.Native)
	} else if addon != nil {
		source = "injected"
	}

	a := &Adapter{selection: domain.Selection{Kind: domain.BackendNone}}
	if addon == nil {
		logging.Warnf("win_audio addon not found; audio control disabled")
		a.controller = domain.Controller{
			Speaker: volume.NewUnavailableControl(ErrAddonMissing),
			Mic:     volume.NewUnavailableControl(ErrAddonMissing),
		}
		return a
	}

	a.selection = domain.Selection{Kind: domain.BackendNative, Source: source}
	if c, ok := addon.(io.Closer); ok {
		a.closer = c
	}
	a.controller = domain.Controller{
		Speaker: deviceControl(addon, domain.Speaker),
		Mic:     deviceControl(addon, domain.Mic),
	}
	return a
}

func deviceControl(addon domain.NativeAddon, d domain.Device) domain.DeviceControl {
	dev := addon.Device(d)
	if dev == nil {
		return volume.NewUnavailableControl(fmt.Errorf("%w: win_audio addon has no %s functions", domain.ErrNotImplemented, d))
	}
	return volume.NewNativeControl(dev)
}

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
