package volume

import (
	"context"

	"audioctl/internal/domain"
)

// UnavailableControl implements domain.DeviceControl for a device with no
// backend. Every operation fails with the same error.
type UnavailableControl struct {
	Err error
}

// NewUnavailableControl creates a control that always returns err.
func NewUnavailableControl(err error) domain.DeviceControl {
	return &UnavailableControl{Err: err}
}

func (u *UnavailableControl) Get(context.Context) (domain.Volume, error) {
	return 0, u.Err
}

func (u *UnavailableControl) Set(context.Context, float64) error {
	return u.Err
}

func (u *UnavailableControl) Mute(context.Context) error {
	return u.Err
}

func (u *UnavailableControl) Unmute(context.Context) error {
	return u.Err
}

func (u *UnavailableControl) IsMuted(context.Context) (bool, error) {
	return false, u.Err
}
