package domain

import (
	"fmt"
	"strings"
	"time"
)

// Volume is the canonical volume level, an integer percentage in [0, 100].
type Volume int

const (
	MinVolume Volume = 0
	MaxVolume Volume = 100
)

// Device identifies one of the two default audio endpoints.
type Device int

const (
	Speaker Device = iota
	Mic
)

// Devices lists every device in display order.
var Devices = []Device{Speaker, Mic}

func (d Device) String() string {
	switch d {
	case Speaker:
		return "speaker"
	case Mic:
		return "mic"
	default:
		return "unknown"
	}
}

// ParseDevice accepts "speaker"/"output" and "mic"/"microphone"/"input".
func ParseDevice(s string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "speaker", "output", "out":
		return Speaker, nil
	case "mic", "microphone", "input", "in":
		return Mic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDevice, s)
	}
}

// BackendKind names the mechanism a platform adapter talks to.
type BackendKind int

const (
	BackendNone BackendKind = iota
	BackendNative
	BackendPactl
	BackendAmixer
	BackendOsascript
)

func (k BackendKind) String() string {
	switch k {
	case BackendNone:
		return "none"
	case BackendNative:
		return "native"
	case BackendPactl:
		return "pactl"
	case BackendAmixer:
		return "amixer"
	case BackendOsascript:
		return "osascript"
	default:
		return "unknown"
	}
}

// ParseBackendKind converts a backend name. "auto" and "" yield ok=false,
// meaning no forced selection.
func ParseBackendKind(s string) (kind BackendKind, ok bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return BackendNone, false, nil
	case "none":
		return BackendNone, true, nil
	case "native":
		return BackendNative, true, nil
	case "pactl":
		return BackendPactl, true, nil
	case "amixer":
		return BackendAmixer, true, nil
	case "osascript":
		return BackendOsascript, true, nil
	default:
		return BackendNone, false, fmt.Errorf("%w: unknown backend %q", ErrInvalidArgument, s)
	}
}

// Selection records which backend a platform adapter chose at construction.
// It is never modified afterwards.
type Selection struct {
	Kind   BackendKind
	Source string
}

func (s Selection) String() string {
	if s.Source == "" {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s (%s)", s.Kind, s.Source)
}

// DeviceStatus is a point-in-time read of one device.
type DeviceStatus struct {
	Device Device
	Volume Volume
	Muted  bool
}

// EnforceConfig describes the volume the enforcer keeps re-applying.
type EnforceConfig struct {
	Device       Device
	TargetVolume int
	Interval     time.Duration
	Enabled      bool
	KeepUnmuted  bool
}

// ScheduleState represents the current state of the enforcer.
type ScheduleState struct {
	LastApplied     time.Time
	LastApplyStatus ApplyStatus
	LastError       error
	NextRun         time.Time
	IsRunning       bool
}

// ApplyStatus represents the status of a volume application attempt.
type ApplyStatus int

const (
	StatusNever ApplyStatus = iota
	StatusSuccess
	StatusError
)

func (s ApplyStatus) String() string {
	switch s {
	case StatusNever:
		return "never"
	case StatusSuccess:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a complete view of the enforcer.
type Snapshot struct {
	Config        EnforceConfig
	ScheduleState ScheduleState
}

// Validate checks if the enforcer configuration values are valid.
func (c EnforceConfig) Validate() error {
	if c.Device != Speaker && c.Device != Mic {
		return ErrUnknownDevice
	}
	if c.TargetVolume < int(MinVolume) || c.TargetVolume > int(MaxVolume) {
		return ErrInvalidVolume
	}
	if c.Interval < time.Second {
		return ErrInvalidInterval
	}
	return nil
}

// DefaultEnforceConfig pins the mic at 50% every 90 seconds.
func DefaultEnforceConfig() EnforceConfig {
	return EnforceConfig{
		Device:       Mic,
		TargetVolume: 50,
		Interval:     90 * time.Second,
		Enabled:      true,
	}
}
