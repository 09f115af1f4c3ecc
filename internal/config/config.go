// Package config holds user preferences shared by the CLI and HTTP server.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/vimeo/dials"
	"github.com/vimeo/dials/sources/env"

	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// Config is the preferences file. Each field can be overridden from the
// environment by the variable in its dialsenv tag.
type Config struct {
	Backend    string   `json:"backend" dialsenv:"AUDIOCTL_BACKEND" dialsdesc:"Linux backend: auto, native, pactl or amixer"`
	AddonPaths []string `json:"addonPaths,omitempty" dialsenv:"AUDIOCTL_ADDON_PATHS" dialsdesc:"Extra directories searched for native addons"`
	LogLevel   string   `json:"logLevel" dialsenv:"AUDIOCTL_LOG_LEVEL" dialsdesc:"error, warn, info, debug or trace"`
	Addr       string   `json:"addr" dialsenv:"AUDIOCTL_ADDR" dialsdesc:"HTTP listen address"`

	EnforceDevice          string `json:"enforceDevice" dialsenv:"AUDIOCTL_ENFORCE_DEVICE"`
	EnforceVolume          int    `json:"enforceVolume" dialsenv:"AUDIOCTL_ENFORCE_VOLUME"`
	EnforceIntervalSeconds int    `json:"enforceIntervalSeconds" dialsenv:"AUDIOCTL_ENFORCE_INTERVAL"`
	EnforceEnabled         bool   `json:"enforceEnabled" dialsenv:"AUDIOCTL_ENFORCE_ENABLED"`
	KeepUnmuted            bool   `json:"keepUnmuted" dialsenv:"AUDIOCTL_KEEP_UNMUTED"`
}

const DefaultAddr = "127.0.0.1:7070"

// Default returns the initial preferences.
func Default() Config {
	e := domain.DefaultEnforceConfig()
	return Config{
		Backend:                "auto",
		LogLevel:               "warn",
		Addr:                   DefaultAddr,
		EnforceDevice:          e.Device.String(),
		EnforceVolume:          e.TargetVolume,
		EnforceIntervalSeconds: int(e.Interval / time.Second),
		EnforceEnabled:         e.Enabled,
		KeepUnmuted:            e.KeepUnmuted,
	}
}

// Validate checks every field that has a closed set of values.
func (c Config) Validate() error {
	if _, _, err := c.BackendKind(); err != nil {
		return err
	}
	if _, _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	_, err := c.Enforce()
	return err
}

// BackendKind parses Backend. forced is false for "auto".
func (c Config) BackendKind() (kind domain.BackendKind, forced bool, err error) {
	kind, forced, err = domain.ParseBackendKind(c.Backend)
	if err != nil {
		return 0, false, fmt.Errorf("backend: %w", err)
	}
	return kind, forced, nil
}

// Enforce returns the enforcer settings as a validated domain value.
func (c Config) Enforce() (domain.EnforceConfig, error) {
	d, err := domain.ParseDevice(c.EnforceDevice)
	if err != nil {
		return domain.EnforceConfig{}, fmt.Errorf("enforceDevice: %w", err)
	}
	e := domain.EnforceConfig{
		Device:       d,
		TargetVolume: c.EnforceVolume,
		Interval:     time.Duration(c.EnforceIntervalSeconds) * time.Second,
		Enabled:      c.EnforceEnabled,
		KeepUnmuted:  c.KeepUnmuted,
	}
	if err := e.Validate(); err != nil {
		return domain.EnforceConfig{}, err
	}
	return e, nil
}

// WithEnforce copies e into the enforcer fields.
func (c Config) WithEnforce(e domain.EnforceConfig) Config {
	c.EnforceDevice = e.Device.String()
	c.EnforceVolume = e.TargetVolume
	c.EnforceIntervalSeconds = int(e.Interval / time.Second)
	c.EnforceEnabled = e.Enabled
	c.KeepUnmuted = e.KeepUnmuted
	return c
}

// Overlay applies environment overrides on top of base.
func Overlay(ctx context.Context, base Config) (Config, error) {
	cfg := base
	d, err := dials.Config(ctx, &cfg, &env.Source{})
	if err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return *d.View(), nil
}
