//go:build windows

package native

import (
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"

	"audioctl/internal/domain"
)

// sFalse is returned by CoInitializeEx when COM is already initialized on
// the calling thread.
const sFalse = 0x00000001

// coreAudio drives the default endpoints through IAudioEndpointVolume.
// Each call opens and releases its own COM objects on a locked thread.
type coreAudio struct{}

type endpoint struct {
	device domain.Device
	flow   uint32
}

// Builtin returns the compiled-in Core Audio provider after checking that
// the default render endpoint can be reached.
func Builtin() (domain.NativeAddon, string, error) {
	a := coreAudio{}
	if _, err := a.Device(domain.Speaker).Muted(); err != nil {
		return nil, "", fmt.Errorf("core audio: %w", err)
	}
	return a, "core audio (WASAPI)", nil
}

func (coreAudio) Device(d domain.Device) domain.NativeDevice {
	if d == domain.Mic {
		return endpoint{device: d, flow: wca.ECapture}
	}
	return endpoint{device: d, flow: wca.ERender}
}

func (e endpoint) invoke(f func(aev *wca.IAudioEndpointVolume) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != sFalse {
			return err
		}
	}
	defer ole.CoUninitialize()

	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		return err
	}
	defer mmde.Release()

	var mmd *wca.IMMDevice
	if err := mmde.GetDefaultAudioEndpoint(e.flow, wca.EConsole, &mmd); err != nil {
		return fmt.Errorf("default %s endpoint: %w", e.device, err)
	}
	defer mmd.Release()

	var aev *wca.IAudioEndpointVolume
	if err := mmd.Activate(wca.IID_IAudioEndpointVolume, wca.CLSCTX_ALL, nil, &aev); err != nil {
		return err
	}
	defer aev.Release()

	return f(aev)
}

func (e endpoint) Volume() (float64, error) {
	var level float32
	err := e.invoke(func(aev *wca.IAudioEndpointVolume) error {
		return aev.GetMasterVolumeLevelScalar(&level)
	})
	return float64(level), err
}

func (e endpoint) SetVolume(percent int) error {
	return e.invoke(func(aev *wca.IAudioEndpointVolume) error {
		return aev.SetMasterVolumeLevelScalar(float32(percent)/100, nil)
	})
}

func (e endpoint) Mute() error {
	return e.invoke(func(aev *wca.IAudioEndpointVolume) error {
		return aev.SetMute(true, nil)
	})
}

func (e endpoint) Unmute() error {
	return e.invoke(func(aev *wca.IAudioEndpointVolume) error {
		return aev.SetMute(false, nil)
	})
}

func (e endpoint) Muted() (bool, error) {
	var muted bool
	err := e.invoke(func(aev *wca.IAudioEndpointVolume) error {
		return aev.GetMute(&muted)
	})
	return muted, err
}
