//go:build !windows

package native

import (
	"errors"

	"audioctl/internal/domain"
)

// Builtin has no compiled-in provider outside Windows.
func Builtin() (domain.NativeAddon, string, error) {
	return nil, "", errors.New("no built-in native audio provider on this platform")
}
