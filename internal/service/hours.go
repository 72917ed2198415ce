package service

import (
	"fmt"
	"math"

	"github.com/msomdec/timeclock/internal/domain"
)

// ParseClock parses a strict HH:MM clock time into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("%w: time %q must be HH:MM", domain.ErrInvalidInput, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", domain.ErrInvalidInput, s)
	}
	return h*60 + m, nil
}

// Hours returns the elapsed hours between two HH:MM clock times of the same
// day, rounded to two decimals. A check-out earlier than the check-in is
// rejected with ErrNegativeDuration.
func Hours(checkIn, checkOut string) (float64, error) {
	in, err := ParseClock(checkIn)
	if err != nil {
		return 0, fmt.Errorf("check-in: %w", err)
	}
	out, err := ParseClock(checkOut)
	if err != nil {
		return 0, fmt.Errorf("check-out: %w", err)
	}
	if out < in {
		return 0, fmt.Errorf("%w (%s -> %s)", domain.ErrNegativeDuration, checkIn, checkOut)
	}
	return roundHours(float64(out-in) / 60), nil
}

// roundHours rounds to two decimals, half away from zero.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
