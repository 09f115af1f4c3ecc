//go:build !windows && !((darwin || linux) && (amd64 || arm64))

package native

import "errors"

var errNoLoader = errors.New("shared library loading is not supported on this platform")

func dlopen(string) (uintptr, error) {
	return 0, errNoLoader
}

func dlsym(uintptr, string) (uintptr, error) {
	return 0, errNoLoader
}

func call(uintptr, ...uintptr) int32 {
	return -1
}
