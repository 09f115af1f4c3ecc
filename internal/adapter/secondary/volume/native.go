package volume

import (
	"context"

	"audioctl/internal/domain"
)

// NativeControl implements domain.DeviceControl on top of a native addon
// device, normalizing whatever scale the addon reports.
type NativeControl struct {
	dev domain.NativeDevice
}

// NewNativeControl wraps dev.
func NewNativeControl(dev domain.NativeDevice) domain.DeviceControl {
	return &NativeControl{dev: dev}
}

func (n *NativeControl) Get(context.Context) (domain.Volume, error) {
	raw, err := n.dev.Volume()
	if err != nil {
		return 0, err
	}
	return domain.Normalize(raw), nil
}

func (n *NativeControl) Set(_ context.Context, volume float64) error {
	v, err := domain.ValidateVolume(volume)
	if err != nil {
		return err
	}
	return n.dev.SetVolume(int(v))
}

func (n *NativeControl) Mute(context.Context) error {
	return n.dev.Mute()
}

func (n *NativeControl) Unmute(context.Context) error {
	return n.dev.Unmute()
}

func (n *NativeControl) IsMuted(context.Context) (bool, error) {
	return n.dev.Muted()
}
