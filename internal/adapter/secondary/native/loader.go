// Package native locates native audio addons: shared libraries built next to
// the binary, or a provider compiled into it.
package native

import (
	"os"
	"path/filepath"
	"strings"

	"audioctl/internal/domain"
	"audioctl/internal/logging"
)

// Loader resolves a native addon once, in priority order: an injected addon,
// then the first candidate path that exists and opens, then Fallback.
type Loader struct {
	Name       string
	Candidates []string

	// Open loads a library file. Defaults to OpenLibrary.
	Open func(path string) (domain.NativeAddon, error)
	// Exists reports whether a candidate is present. Defaults to os.Stat.
	Exists func(path string) bool
	// Fallback is tried last, e.g. a dynamic loader lookup by name or a
	// compiled-in provider. It returns a description of where the addon came from.
	Fallback func() (domain.NativeAddon, string, error)
}

// Load returns the resolved addon and its source, or nil and "" when
// nothing is usable. Failures along the way are logged and skipped.
func (l Loader) Load(injected domain.NativeAddon) (domain.NativeAddon, string) {
	if injected != nil {
		logging.Infof("%s: using injected addon", l.Name)
		return injected, "injected"
	}

	open := l.Open
	if open == nil {
		open = OpenLibrary
	}
	exists := l.Exists
	if exists == nil {
		exists = fileExists
	}

	for _, p := range l.Candidates {
		if !exists(p) {
			logging.Tracef("%s: no addon at %s", l.Name, p)
			continue
		}
		addon, err := open(p)
		if err != nil {
			logging.Debugf("%s: %s unusable: %v", l.Name, p, err)
			continue
		}
		logging.Infof("%s: loaded %s", l.Name, p)
		return addon, p
	}

	if l.Fallback != nil {
		addon, source, err := l.Fallback()
		if err == nil && addon != nil {
			logging.Infof("%s: using %s", l.Name, source)
			return addon, source
		}
		logging.Debugf("%s: fallback unavailable: %v", l.Name, err)
	}
	return nil, ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LibraryFile returns the platform file name of a shared library,
// e.g. win_audio.dll or libmac_audio.dylib.
func LibraryFile(name, goos string) string {
	switch goos {
	case "windows":
		return name + ".dll"
	case "darwin":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}

// CandidatePaths lists where a built addon may live: each configured path
// first (a directory or the file itself), then every relative build directory
// under each base directory.
func CandidatePaths(file string, bases, relDirs, configured []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, c := range configured {
		if c == "" {
			continue
		}
		if strings.EqualFold(filepath.Base(c), file) {
			add(c)
		} else {
			add(filepath.Join(c, file))
		}
	}
	for _, base := range bases {
		if base == "" {
			continue
		}
		for _, rel := range relDirs {
			add(filepath.Join(base, rel, file))
		}
	}
	return out
}

// SearchBases returns the executable's directory and the working directory.
func SearchBases() []string {
	var bases []string
	if exe, err := os.Executable(); err == nil {
		bases = append(bases, filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		bases = append(bases, wd)
	}
	return bases
}
