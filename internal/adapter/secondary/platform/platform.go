// Package platform picks the audio adapter for the host operating system.
package platform

import (
	"context"
	"fmt"

	"audioctl/internal/adapter/secondary/linux"
	"audioctl/internal/adapter/secondary/macos"
	"audioctl/internal/adapter/secondary/native"
	"audioctl/internal/adapter/secondary/pulse"
	"audioctl/internal/adapter/secondary/volume"
	"audioctl/internal/adapter/secondary/windows"
	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// ErrUnsupported is returned by every operation on an unrecognized OS.
var ErrUnsupported = fmt.Errorf("%w on this platform", domain.ErrNotImplemented)

var (
	winAudioDirs = []string{
		"build/Release",
		"native/win-audio/build/Release",
		"native/win-audio/build/Debug",
	}
	macAudioDirs = []string{"build/Release"}
)

// Options carries configuration and test overrides. All are read once.
type Options struct {
	Runner domain.CommandRunner
	// Native replaces whatever addon the platform would load.
	Native domain.NativeAddon
	// AddonPaths are searched before the conventional build directories.
	AddonPaths []string
	// Backend forces a Linux backend kind when ForceBackend is set.
	Backend      domain.BackendKind
	ForceBackend bool

	// Loader overrides addon discovery on Windows and macOS.
	Loader domain.AddonLoader
	// DialNative overrides the PulseAudio connection on Linux.
	DialNative func() (domain.NativeAddon, error)
}

type adapter interface {
	Selection() domain.Selection
	Controller() domain.Controller
	Close() error
}

// Resolution is the outcome of dispatching on the host OS.
type Resolution struct {
	Platform   string
	Selection  domain.Selection
	Controller domain.Controller

	close func() error
}

// Close releases the backend, e.g. the PulseAudio connection.
func (r *Resolution) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Resolve builds the adapter for goos. Unknown values get controls that
// always fail with ErrUnsupported.
func Resolve(ctx context.Context, goos string, opts Options) *Resolution {
	var a adapter
	switch goos {
	case "linux":
		dial := opts.DialNative
		if dial == nil {
			dial = dialPulse
		}
		a = linux.New(ctx, linux.Options{
			Runner:     opts.Runner,
			Native:     opts.Native,
			DialNative: dial,
			Force:      opts.Backend,
			Forced:     opts.ForceBackend,
		})
	case "darwin":
		loader := opts.Loader
		if loader == nil {
			loader = macLoader(opts.AddonPaths)
		}
		a = macos.New(macos.Options{Runner: opts.Runner, Native: opts.Native, Loader: loader})
	case "windows":
		loader := opts.Loader
		if loader == nil {
			loader = winLoader(opts.AddonPaths)
		}
		a = windows.New(windows.Options{Native: opts.Native, Loader: loader})
	default:
		logging.Warnf("audio control is not implemented on %s", goos)
		return &Resolution{
			Platform:  goos,
			Selection: domain.Selection{Kind: domain.BackendNone, Source: "unsupported platform"},
			Controller: domain.Controller{
				Speaker: volume.NewUnavailableControl(ErrUnsupported),
				Mic:     volume.NewUnavailableControl(ErrUnsupported),
			},
		}
	}
	return &Resolution{
		Platform:   goos,
		Selection:  a.Selection(),
		Controller: a.Controller(),
		close:      a.Close,
	}
}

func dialPulse() (domain.NativeAddon, error) {
	c, err := pulse.Dial()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func winLoader(paths []string) native.Loader {
	file := native.LibraryFile("win_audio", "windows")
	return native.Loader{
		Name:       "win_audio",
		Candidates: native.CandidatePaths(file, native.SearchBases(), winAudioDirs, paths),
		Fallback:   native.Builtin,
	}
}

func macLoader(paths []string) native.Loader {
	file := native.LibraryFile("mac_audio", "darwin")
	return native.Loader{
		Name:       "mac_audio",
		Candidates: native.CandidatePaths(file, native.SearchBases(), macAudioDirs, paths),
		Fallback: func() (domain.NativeAddon, string, error) {
			addon, err := native.OpenLibrary(file)
			if err != nil {
				return nil, "", err
			}
			return addon, "dynamic loader: " + file, nil
		},
	}
}
