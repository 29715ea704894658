package vm

import (
	"errors"
	"fmt"
)

// The error taxonomy of the MMU. None of them can be recovered by retrying;
// the kernel halts when it sees one.
var (
	// ErrResourceExhausted is returned when no physical frame is free.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrProtocolViolation is returned when an operation is invoked in a
	// way that the MMU interface does not allow.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrConfigurationConflict is returned when the requested translation
	// mode cannot run on the detected hardware.
	ErrConfigurationConflict = errors.New("configuration conflict")

	// ErrInvalidID is returned for an out-of-range pid, frame, or page.
	ErrInvalidID = fmt.Errorf("invalid id: %w", ErrProtocolViolation)
)
