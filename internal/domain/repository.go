package domain

import "context"

// DeviceControl is a secondary port that reads and writes one audio device.
// Implementations are stateless proxies: every call goes to the OS.
type DeviceControl interface {
	Get(ctx context.Context) (Volume, error)
	Set(ctx context.Context, volume float64) error
	Mute(ctx context.Context) error
	Unmute(ctx context.Context) error
	IsMuted(ctx context.Context) (bool, error)
}

// Controller pairs the speaker and mic controls of one platform.
type Controller struct {
	Speaker DeviceControl
	Mic     DeviceControl
}

// Device returns the control for d.
func (c Controller) Device(d Device) (DeviceControl, error) {
	switch d {
	case Speaker:
		return c.Speaker, nil
	case Mic:
		return c.Mic, nil
	default:
		return nil, ErrUnknownDevice
	}
}

// NativeAddon is an opaque capability provider for devices a platform
// cannot drive through command-line tools.
type NativeAddon interface {
	// Device returns nil when the addon does not serve d.
	Device(d Device) NativeDevice
}

// NativeDevice is the raw per-device contract of a native addon. Volume may
// be fractional (0..1) or a percentage; callers normalize it.
type NativeDevice interface {
	Volume() (float64, error)
	SetVolume(percent int) error
	Mute() error
	Unmute() error
	Muted() (bool, error)
}

// CommandRunner executes an external command line and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, line string) (string, error)
}

// AddonLoader resolves a native addon, preferring injected when non-nil.
// It returns nil and "" when no addon is usable.
type AddonLoader interface {
	Load(injected NativeAddon) (NativeAddon, string)
}
