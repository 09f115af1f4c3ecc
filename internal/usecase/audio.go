package usecase

import (
	"context"
	"fmt"

	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// AudioUseCase is the primary port for one-shot device operations.
type AudioUseCase interface {
	Backend() BackendInfo
	Get(ctx context.Context, device domain.Device) (domain.Volume, error)
	Set(ctx context.Context, device domain.Device, volume float64) error
	Mute(ctx context.Context, device domain.Device) error
	Unmute(ctx context.Context, device domain.Device) error
	IsMuted(ctx context.Context, device domain.Device) (bool, error)
	Status(ctx context.Context, device domain.Device) (domain.DeviceStatus, error)
}

// BackendInfo describes the platform resolution the use case was built on.
type BackendInfo struct {
	Platform  string
	Selection domain.Selection
}

type audioInteractor struct {
	info       BackendInfo
	controller domain.Controller
}

// NewAudioUseCase wraps a resolved controller.
func NewAudioUseCase(info BackendInfo, controller domain.Controller) AudioUseCase {
	return &audioInteractor{info: info, controller: controller}
}

func (a *audioInteractor) Backend() BackendInfo {
	return a.info
}

func (a *audioInteractor) control(device domain.Device) (domain.DeviceControl, error) {
	ctl, err := a.controller.Device(device)
	if err != nil {
		return nil, err
	}
	if ctl == nil {
		return nil, fmt.Errorf("%w: no control for %s", domain.ErrNotImplemented, device)
	}
	return ctl, nil
}

func (a *audioInteractor) Get(ctx context.Context, device domain.Device) (domain.Volume, error) {
	ctl, err := a.control(device)
	if err != nil {
		return 0, err
	}
	v, err := ctl.Get(ctx)
	if err != nil {
		logging.Debugf("get %s volume: %v", device, err)
		return 0, err
	}
	logging.Debugf("%s volume is %d", device, v)
	return v, nil
}

func (a *audioInteractor) Set(ctx context.Context, device domain.Device, volume float64) error {
	ctl, err := a.control(device)
	if err != nil {
		return err
	}
	applied, err := domain.ValidateVolume(volume)
	if err != nil {
		return err
	}
	if err := ctl.Set(ctx, volume); err != nil {
		logging.Debugf("set %s volume to %d: %v", device, applied, err)
		return err
	}
	logging.Infof("%s volume set to %d", device, applied)
	return nil
}

func (a *audioInteractor) Mute(ctx context.Context, device domain.Device) error {
	ctl, err := a.control(device)
	if err != nil {
		return err
	}
	if err := ctl.Mute(ctx); err != nil {
		return err
	}
	logging.Infof("%s muted", device)
	return nil
}

func (a *audioInteractor) Unmute(ctx context.Context, device domain.Device) error {
	ctl, err := a.control(device)
	if err != nil {
		return err
	}
	if err := ctl.Unmute(ctx); err != nil {
		return err
	}
	logging.Infof("%s unmuted", device)
	return nil
}

func (a *audioInteractor) IsMuted(ctx context.Context, device domain.Device) (bool, error) {
	ctl, err := a.control(device)
	if err != nil {
		return false, err
	}
	return ctl.IsMuted(ctx)
}

// Status reads volume and mute state. Both reads must succeed.
func (a *audioInteractor) Status(ctx context.Context, device domain.Device) (domain.DeviceStatus, error) {
	v, err := a.Get(ctx, device)
	if err != nil {
		return domain.DeviceStatus{}, err
	}
	muted, err := a.IsMuted(ctx, device)
	if err != nil {
		return domain.DeviceStatus{}, err
	}
	return domain.DeviceStatus{Device: device, Volume: v, Muted: muted}, nil
}
