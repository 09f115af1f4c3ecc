//go:build windows

package native

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func dlopen(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	return uintptr(h), err
}

func dlsym(h uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(h), name)
}

func call(fn uintptr, args ...uintptr) int32 {
	r1, _, _ := syscall.SyscallN(fn, args...)
	return int32(r1)
}
