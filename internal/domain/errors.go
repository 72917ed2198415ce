package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")

	// ErrNoCheckIn is returned by check-out when today's entry is missing
	// or has no check-in time.
	ErrNoCheckIn = fmt.Errorf("%w: no check-in recorded for today", ErrNotFound)

	// ErrNegativeDuration is returned when a check-out time is earlier
	// than the check-in time of the same entry.
	ErrNegativeDuration = fmt.Errorf("%w: check-out is earlier than check-in", ErrInvalidInput)
)
