package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  float64
		want Volume
	}{
		{0, 0},
		{0.42, 42},
		{0.005, 1},
		{0.999, 100},
		{1, 100},
		{1.4, 1},
		{55.7, 56},
		{77, 77},
		{100, 100},
		{200, 100},
		{-5, 0},
		{-0.3, 0},
		{math.NaN(), 0},
		{math.Inf(1), 100},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeFractionalRange(t *testing.T) {
	t.Parallel()

	for i := 0; i <= 1000; i++ {
		x := float64(i) / 1000
		want := Volume(math.Round(x * 100))
		if got := Normalize(x); got != want {
			t.Fatalf("Normalize(%v) = %d, want %d", x, got, want)
		}
	}
	for i := 101; i <= 1000; i++ {
		x := float64(i) / 10
		want := Volume(math.Round(x))
		if got := Normalize(x); got != want {
			t.Fatalf("Normalize(%v) = %d, want %d", x, got, want)
		}
	}
}

func TestParseVolumeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		out  string
		want Volume
	}{
		{"pactl sink", "Volume: front-left: 65536 / 100% / 0.00 dB,   front-right: 65536 / 100% / 0.00 dB\n", 100},
		{"pactl source", "Volume: mono: 26214 /  40% / -23.88 dB\n", 40},
		{"amixer", "Simple mixer control 'Master',0\n  Mono: Playback 39 [61%] [-28.50dB] [on]\n", 61},
		{"over 100 percent", "front-left: 98304 / 150% / 10.57 dB", 100},
		{"bare integer", "65\n", 65},
		{"bare float", " 55.7 ", 56},
		{"negative", "-3", 0},
		{"huge percent", "Volume: 99999999999999999999% ", 100},
		{"percent beyond float range", strings.Repeat("9", 400) + "%", 100},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseVolumeText(tt.out)
			if err != nil {
				t.Fatalf("ParseVolumeText(%q) error = %v", tt.out, err)
			}
			if got != tt.want {
				t.Errorf("ParseVolumeText(%q) = %d, want %d", tt.out, got, tt.want)
			}
		})
	}
}

func TestParseVolumeTextFailure(t *testing.T) {
	t.Parallel()

	for _, out := range []string{"", "   ", "missing value", "Volume: n/a", "inf", "-Inf", "NaN"} {
		_, err := ParseVolumeText(out)
		if !errors.Is(err, ErrParse) {
			t.Errorf("ParseVolumeText(%q) error = %v, want ErrParse", out, err)
		}
	}
}

func TestParseMuteText(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"Mute: yes\n": true,
		"Mute: no\n":  false,
		"true":        true,
		"TRUE":        true,
		"false":       false,
		"":            false,
	}
	for out, want := range tests {
		if got := ParseMuteText(out); got != want {
			t.Errorf("ParseMuteText(%q) = %t, want %t", out, got, want)
		}
	}
}

func TestValidateVolume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want Volume
	}{
		{200, 100},
		{-5, 0},
		{55.7, 56},
		{1, 1},
		{0, 0},
	}
	for _, tt := range tests {
		got, err := ValidateVolume(tt.in)
		if err != nil {
			t.Fatalf("ValidateVolume(%v) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ValidateVolume(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := ValidateVolume(bad); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ValidateVolume(%v) error = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestParseVolumeArg(t *testing.T) {
	t.Parallel()

	if v, err := ParseVolumeArg("40%"); err != nil || v != 40 {
		t.Errorf("ParseVolumeArg(40%%) = %v, %v", v, err)
	}
	if v, err := ParseVolumeArg(" 55.7 "); err != nil || v != 55.7 {
		t.Errorf("ParseVolumeArg(55.7) = %v, %v", v, err)
	}
	if _, err := ParseVolumeArg("loud"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseVolumeArg(loud) error = %v, want ErrInvalidArgument", err)
	}
}

func TestParseDevice(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Device{"speaker": Speaker, "Output": Speaker, "mic": Mic, "microphone": Mic} {
		got, err := ParseDevice(in)
		if err != nil || got != want {
			t.Errorf("ParseDevice(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDevice("headphones"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("ParseDevice(headphones) error = %v", err)
	}
}

func TestParseBackendKind(t *testing.T) {
	t.Parallel()

	if _, ok, err := ParseBackendKind("auto"); ok || err != nil {
		t.Errorf("auto: ok=%t err=%v", ok, err)
	}
	if k, ok, err := ParseBackendKind("AMIXER"); k != BackendAmixer || !ok || err != nil {
		t.Errorf("AMIXER: %v %t %v", k, ok, err)
	}
	if _, _, err := ParseBackendKind("jack"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("jack: err=%v", err)
	}
}

func TestEnforcerServiceShouldApply(t *testing.T) {
	t.Parallel()

	svc := NewEnforcerService()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultEnforceConfig()

	if !svc.ShouldApply(ScheduleState{}, cfg, now) {
		t.Error("never-run state should apply")
	}
	if svc.ShouldApply(ScheduleState{NextRun: now.Add(time.Second)}, cfg, now) {
		t.Error("future NextRun should not apply")
	}
	if !svc.ShouldApply(ScheduleState{NextRun: now}, cfg, now) {
		t.Error("due NextRun should apply")
	}
	cfg.Enabled = false
	if svc.ShouldApply(ScheduleState{}, cfg, now) {
		t.Error("disabled config should never apply")
	}
}

func TestEnforcerServiceTransitions(t *testing.T) {
	t.Parallel()

	svc := NewEnforcerService()
	cfg := DefaultEnforceConfig()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	running := svc.StartRunning(ScheduleState{})
	if !running.IsRunning {
		t.Fatal("StartRunning did not mark running")
	}

	ok := svc.ApplySuccess(running, cfg, t0)
	if ok.LastApplyStatus != StatusSuccess || ok.IsRunning || !ok.NextRun.Equal(t0.Add(cfg.Interval)) {
		t.Errorf("ApplySuccess = %+v", ok)
	}

	boom := errors.New("boom")
	failed := svc.ApplyFailure(ok, cfg, boom, t0.Add(time.Minute))
	if failed.LastApplyStatus != StatusError || failed.LastError != boom {
		t.Errorf("ApplyFailure = %+v", failed)
	}
	if !failed.LastApplied.Equal(t0) {
		t.Errorf("ApplyFailure dropped LastApplied: %v", failed.LastApplied)
	}
}

func TestEnforceConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultEnforceConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.TargetVolume = 101
	if !errors.Is(cfg.Validate(), ErrInvalidVolume) {
		t.Error("expected ErrInvalidVolume")
	}
	cfg = DefaultEnforceConfig()
	cfg.Interval = 10 * time.Millisecond
	if !errors.Is(cfg.Validate(), ErrInvalidInterval) {
		t.Error("expected ErrInvalidInterval")
	}
}
