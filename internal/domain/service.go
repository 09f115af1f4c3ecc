package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var percentPattern = regexp.MustCompile(`(\d+)%`)

func roundClamp(v float64) Volume {
	r := math.Round(v)
	if r < float64(MinVolume) {
		return MinVolume
	}
	if r > float64(MaxVolume) {
		return MaxVolume
	}
	return Volume(r)
}

// Normalize converts a native addon reading to a Volume. Values up to and
// including 1 are fractional and scaled by 100, so a raw 1 means 100%, never 1%.
// NaN reads as 0.
func Normalize(raw float64) Volume {
	if math.IsNaN(raw) {
		return MinVolume
	}
	if raw <= 1 {
		raw *= 100
	}
	return roundClamp(raw)
}

// ParseVolumeText extracts a volume from tool output: the first integer
// followed by a percent sign, otherwise the whole trimmed text as a number.
func ParseVolumeText(out string) (Volume, error) {
	if m := percentPattern.FindStringSubmatch(out); m != nil {
		// Digit runs past float64 range come back as +Inf and clamp to 100.
		if f, err := strconv.ParseFloat(m[1], 64); err == nil || errors.Is(err, strconv.ErrRange) {
			return roundClamp(f), nil
		}
	}
	trimmed := strings.TrimSpace(out)
	if trimmed != "" {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return roundClamp(f), nil
		}
	}
	return 0, fmt.Errorf("%w: failed to parse volume from output %q", ErrParse, out)
}

var muteTokens = regexp.MustCompile(`(?i)yes|true`)

// ParseMuteText reports whether tool output contains a positive mute token.
func ParseMuteText(out string) bool {
	return muteTokens.MatchString(out)
}

// ValidateVolume rejects non-finite input, then rounds and clamps. Unlike
// Normalize there is no fractional heuristic: 1 means 1%.
func ValidateVolume(v float64) (Volume, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: volume must be a finite number, got %v", ErrInvalidArgument, v)
	}
	return roundClamp(v), nil
}

// ParseVolumeArg parses user-supplied volume text such as "55.7" or "40%".
func ParseVolumeArg(s string) (float64, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: volume must be a number, got %q", ErrInvalidArgument, s)
	}
	return f, nil
}

// EnforcerService provides pure scheduling logic for the volume enforcer.
type EnforcerService struct{}

// NewEnforcerService creates a new enforcer service.
func NewEnforcerService() *EnforcerService {
	return &EnforcerService{}
}

// ShouldApply reports whether the target should be re-applied at now.
func (s *EnforcerService) ShouldApply(state ScheduleState, config EnforceConfig, now time.Time) bool {
	if !config.Enabled {
		return false
	}
	return state.NextRun.IsZero() || !now.Before(state.NextRun)
}

// CalculateNextRun determines the next scheduled run time.
func (s *EnforcerService) CalculateNextRun(from time.Time, interval time.Duration) time.Time {
	return from.Add(interval)
}

// ApplySuccess updates the state after a successful application.
func (s *EnforcerService) ApplySuccess(state ScheduleState, config EnforceConfig, appliedAt time.Time) ScheduleState {
	return ScheduleState{
		LastApplied:     appliedAt,
		LastApplyStatus: StatusSuccess,
		NextRun:         s.CalculateNextRun(appliedAt, config.Interval),
	}
}

// ApplyFailure updates the state after a failed application. The last
// success time is kept.
func (s *EnforcerService) ApplyFailure(state ScheduleState, config EnforceConfig, err error, attemptedAt time.Time) ScheduleState {
	return ScheduleState{
		LastApplied:     state.LastApplied,
		LastApplyStatus: StatusError,
		LastError:       err,
		NextRun:         s.CalculateNextRun(attemptedAt, config.Interval),
	}
}

// StartRunning marks the state as currently applying.
func (s *EnforcerService) StartRunning(state ScheduleState) ScheduleState {
	state.IsRunning = true
	return state
}

// ValidateAndNormalize validates a config and returns a normalized version.
func (s *EnforcerService) ValidateAndNormalize(config EnforceConfig) (EnforceConfig, error) {
	if err := config.Validate(); err != nil {
		return EnforceConfig{}, err
	}
	return config, nil
}
