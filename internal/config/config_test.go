package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"audioctl/internal/domain"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	e, err := cfg.Enforce()
	if err != nil {
		t.Fatal(err)
	}
	if e != domain.DefaultEnforceConfig() {
		t.Errorf("Enforce = %+v", e)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"unknown backend", func(c *Config) { c.Backend = "jack" }, domain.ErrInvalidArgument},
		{"unknown device", func(c *Config) { c.EnforceDevice = "headset" }, domain.ErrUnknownDevice},
		{"volume too high", func(c *Config) { c.EnforceVolume = 101 }, domain.ErrInvalidVolume},
		{"interval too short", func(c *Config) { c.EnforceIntervalSeconds = 0 }, domain.ErrInvalidInterval},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tt.wantErr)
			}
		})
	}

	bad := Default()
	bad.LogLevel = "loud"
	if err := bad.Validate(); err == nil {
		t.Error("unknown log level accepted")
	}
}

func TestBackendKind(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if _, forced, err := cfg.BackendKind(); err != nil || forced {
		t.Errorf("auto: forced = %t, err = %v", forced, err)
	}
	cfg.Backend = "amixer"
	if kind, forced, err := cfg.BackendKind(); err != nil || !forced || kind != domain.BackendAmixer {
		t.Errorf("amixer: %s %t %v", kind, forced, err)
	}
}

func TestWithEnforce(t *testing.T) {
	t.Parallel()

	e := domain.EnforceConfig{Device: domain.Speaker, TargetVolume: 20, Interval: 5 * time.Minute, KeepUnmuted: true}
	cfg := Default().WithEnforce(e)
	got, err := cfg.Enforce()
	if err != nil {
		t.Fatal(err)
	}
	if got != e {
		t.Errorf("round trip = %+v, want %+v", got, e)
	}
}

func TestOverlayFromEnvironment(t *testing.T) {
	t.Setenv("AUDIOCTL_BACKEND", "pactl")
	t.Setenv("AUDIOCTL_ENFORCE_VOLUME", "33")
	t.Setenv("AUDIOCTL_KEEP_UNMUTED", "true")

	base := Default()
	base.Addr = "0.0.0.0:9000"
	cfg, err := Overlay(context.Background(), base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "pactl" || cfg.EnforceVolume != 33 || !cfg.KeepUnmuted {
		t.Errorf("overlay = %+v", cfg)
	}
	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q, file value lost", cfg.Addr)
	}
}
