package domain

import "errors"

var (
	// ErrBackendUnavailable indicates no usable mechanism was found after probing.
	ErrBackendUnavailable = errors.New("no audio backend available")

	// ErrNotImplemented indicates the platform or device has no backend at all.
	ErrNotImplemented = errors.New("not implemented")

	// ErrParse indicates tool output could not be converted to a volume.
	ErrParse = errors.New("parse error")

	// ErrInvalidArgument indicates a non-finite or non-numeric volume.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownDevice indicates a device name other than speaker or mic.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrInvalidVolume indicates that the enforcer target is out of range.
	ErrInvalidVolume = errors.New("volume must be between 0 and 100")

	// ErrInvalidInterval indicates that the interval is too short.
	ErrInvalidInterval = errors.New("interval must be at least 1 second")
)
