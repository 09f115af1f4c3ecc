package macos

import (
	"context"
	"errors"
	"strings"
	"testing"

	"audioctl/internal/domain"
)

type scriptRunner struct {
	volume int
	muted  bool
	lines  []string
}

func (r *scriptRunner) Run(_ context.Context, line string) (string, error) {
	r.lines = append(r.lines, line)
	switch {
	case strings.Contains(line, "output volume of"):
		return "37\n", nil
	case strings.Contains(line, "output muted of"):
		if r.muted {
			return "true\n", nil
		}
		return "false\n", nil
	case strings.Contains(line, "muted true"):
		r.muted = true
	case strings.Contains(line, "muted false"):
		r.muted = false
	}
	return "", nil
}

type micAddon struct {
	mic *micDevice
}

func (a *micAddon) Device(d domain.Device) domain.NativeDevice {
	if d == domain.Mic && a.mic != nil {
		return a.mic
	}
	return nil
}

type micDevice struct {
	raw   float64
	muted bool
}

func (m *micDevice) Volume() (float64, error) { return m.raw, nil }

func (m *micDevice) SetVolume(p int) error {
	m.raw = float64(p)
	return nil
}

func (m *micDevice) Mute() error {
	m.muted = true
	return nil
}

func (m *micDevice) Unmute() error {
	m.muted = false
	return nil
}

func (m *micDevice) Muted() (bool, error) { return m.muted, nil }

type loaderFunc func(domain.NativeAddon) (domain.NativeAddon, string)

func (f loaderFunc) Load(injected domain.NativeAddon) (domain.NativeAddon, string) { return f(injected) }

func TestSpeakerUsesAppleScript(t *testing.T) {
	t.Parallel()

	r := &scriptRunner{}
	a := New(Options{Runner: r})
	ctx := context.Background()

	v, err := a.Controller().Speaker.Get(ctx)
	if err != nil || v != 37 {
		t.Fatalf("Get = %d, %v, want 37", v, err)
	}
	if err := a.Controller().Speaker.Mute(ctx); err != nil {
		t.Fatal(err)
	}
	if muted, err := a.Controller().Speaker.IsMuted(ctx); err != nil || !muted {
		t.Errorf("IsMuted = %t, %v", muted, err)
	}
	for _, line := range r.lines {
		if !strings.HasPrefix(line, "osascript -e ") {
			t.Errorf("unexpected command %q", line)
		}
	}
}

func TestMicWithoutAddonNotImplemented(t *testing.T) {
	t.Parallel()

	loader := loaderFunc(func(domain.NativeAddon) (domain.NativeAddon, string) { return nil, "" })
	a := New(Options{Runner: &scriptRunner{}, Loader: loader})
	if a.Selection().Kind != domain.BackendOsascript {
		t.Errorf("selection = %s, want osascript", a.Selection())
	}

	ctx := context.Background()
	mic := a.Controller().Mic
	_, getErr := mic.Get(ctx)
	_, mutedErr := mic.IsMuted(ctx)
	for _, err := range []error{getErr, mic.Set(ctx, 20), mic.Mute(ctx), mic.Unmute(ctx), mutedErr} {
		if !errors.Is(err, domain.ErrNotImplemented) {
			t.Errorf("error = %v, want ErrNotImplemented", err)
		}
		if !strings.Contains(err.Error(), "mac_audio") {
			t.Errorf("error does not name the addon: %v", err)
		}
	}
}

func TestMicUsesLoadedAddon(t *testing.T) {
	t.Parallel()

	dev := &micDevice{raw: 0.3}
	injected := &micAddon{mic: dev}
	var got domain.NativeAddon
	loader := loaderFunc(func(in domain.NativeAddon) (domain.NativeAddon, string) {
		got = in
		return in, "injected"
	})
	a := New(Options{Runner: &scriptRunner{}, Native: injected, Loader: loader})
	if got != injected {
		t.Fatal("loader did not receive the injected addon")
	}
	if sel := a.Selection(); sel.Kind != domain.BackendNative || sel.Source != "injected" {
		t.Errorf("selection = %s", sel)
	}

	ctx := context.Background()
	mic := a.Controller().Mic
	if v, err := mic.Get(ctx); err != nil || v != 30 {
		t.Errorf("Get = %d, %v, want 30", v, err)
	}
	if err := mic.Set(ctx, 64.4); err != nil {
		t.Fatal(err)
	}
	if v, _ := mic.Get(ctx); v != 64 {
		t.Errorf("Get after Set = %d, want 64", v)
	}
	if err := mic.Mute(ctx); err != nil || !dev.muted {
		t.Errorf("Mute = %v, muted = %t", err, dev.muted)
	}
}

func TestAddonWithoutMicFunctions(t *testing.T) {
	t.Parallel()

	a := New(Options{Runner: &scriptRunner{}, Native: &micAddon{}})
	if a.Selection().Kind != domain.BackendOsascript {
		t.Errorf("selection = %s, want osascript", a.Selection())
	}
	if _, err := a.Controller().Mic.Get(context.Background()); !errors.Is(err, domain.ErrNotImplemented) {
		t.Errorf("Get error = %v", err)
	}
}
