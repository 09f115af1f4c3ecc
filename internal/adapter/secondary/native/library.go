package native

import (
	"fmt"
	"unsafe"

	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// library is an addon backed by a shared library exporting, per device
// (Speaker or Mic):
//
//	int32 getSpeakerVolume(double *out)
//	int32 setSpeakerVolume(int32 percent)
//	int32 muteSpeaker(void)
//	int32 unmuteSpeaker(void)
//	int32 isSpeakerMuted(int32 *out)
//
// A zero return is success. Devices with any symbol missing are not served.
type library struct {
	path    string
	devices map[domain.Device]*libraryDevice
}

type libraryDevice struct {
	path      string
	device    domain.Device
	getVolume uintptr
	setVolume uintptr
	mute      uintptr
	unmute    uintptr
	isMuted   uintptr
}

// OpenLibrary loads the shared library at path.
func OpenLibrary(path string) (domain.NativeAddon, error) {
	h, err := dlopen(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	lib := &library{path: path, devices: make(map[domain.Device]*libraryDevice)}
	for _, d := range domain.Devices {
		dev, err := bindDevice(h, path, d)
		if err != nil {
			logging.Debugf("%s: %s not served: %v", path, d, err)
			continue
		}
		lib.devices[d] = dev
	}
	if len(lib.devices) == 0 {
		return nil, fmt.Errorf("%s exports no audio device symbols", path)
	}
	return lib, nil
}

func symbolInfix(d domain.Device) string {
	if d == domain.Mic {
		return "Mic"
	}
	return "Speaker"
}

func bindDevice(h uintptr, path string, d domain.Device) (*libraryDevice, error) {
	x := symbolInfix(d)
	dev := &libraryDevice{path: path, device: d}
	for _, sym := range []struct {
		name string
		dst  *uintptr
	}{
		{"get" + x + "Volume", &dev.getVolume},
		{"set" + x + "Volume", &dev.setVolume},
		{"mute" + x, &dev.mute},
		{"unmute" + x, &dev.unmute},
		{"is" + x + "Muted", &dev.isMuted},
	} {
		fn, err := dlsym(h, sym.name)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", sym.name, err)
		}
		*sym.dst = fn
	}
	return dev, nil
}

func (l *library) Device(d domain.Device) domain.NativeDevice {
	if dev, ok := l.devices[d]; ok {
		return dev
	}
	return nil
}

func (d *libraryDevice) fail(op string, rc int32) error {
	return fmt.Errorf("%s %s: %s returned status %d", d.device, op, d.path, rc)
}

func (d *libraryDevice) Volume() (float64, error) {
	// Heap-allocated so the address stays valid across the foreign call.
	out := new(float64)
	if rc := call(d.getVolume, uintptr(unsafe.Pointer(out))); rc != 0 {
		return 0, d.fail("get volume", rc)
	}
	return *out, nil
}

func (d *libraryDevice) SetVolume(percent int) error {
	if rc := call(d.setVolume, uintptr(percent)); rc != 0 {
		return d.fail("set volume", rc)
	}
	return nil
}

func (d *libraryDevice) Mute() error {
	if rc := call(d.mute); rc != 0 {
		return d.fail("mute", rc)
	}
	return nil
}

func (d *libraryDevice) Unmute() error {
	if rc := call(d.unmute); rc != 0 {
		return d.fail("unmute", rc)
	}
	return nil
}

func (d *libraryDevice) Muted() (bool, error) {
	out := new(int32)
	if rc := call(d.isMuted, uintptr(unsafe.Pointer(out))); rc != 0 {
		return false, d.fail("get mute", rc)
	}
	return *out != 0, nil
}
