package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/timeclock/internal/domain"
	"github.com/msomdec/timeclock/internal/service"
)

func TestHours(t *testing.T) {
	tests := []struct {
		in, out string
		want    float64
	}{
		{"08:00", "17:00", 8},
		{"09:15", "17:45", 8.5},
		{"08:00", "08:00", 0},
		{"08:00", "08:01", 0.02},
		{"08:00", "08:20", 0.33},
		{"08:00", "08:40", 0.67},
		{"00:00", "23:59", 23.98},
		{"12:30", "13:00", 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.in+"-"+tc.out, func(t *testing.T) {
			got, err := service.Hours(tc.in, tc.out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHours_MatchesMinuteFormula(t *testing.T) {
	for in := 0; in < 24*60; in += 37 {
		for out := in; out < 24*60; out += 53 {
			got, err := service.Hours(hhmm(in), hhmm(out))
			require.NoError(t, err)
			assert.InDelta(t, float64(out-in)/60, got, 0.005, "%s -> %s", hhmm(in), hhmm(out))
		}
	}
}

func TestHours_Negative(t *testing.T) {
	_, err := service.Hours("17:00", "08:00")
	assert.ErrorIs(t, err, domain.ErrNegativeDuration)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHours_Malformed(t *testing.T) {
	for _, bad := range []string{"", "8:00", "08:0", "0800", "24:00", "12:60", "ab:cd", "+1:00", "08:00:00", " 8:00"} {
		t.Run(bad, func(t *testing.T) {
			_, err := service.Hours(bad, "18:00")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			_, err = service.Hours("07:00", bad)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestParseClock(t *testing.T) {
	m, err := service.ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*60+59, m)

	m, err = service.ParseClock("00:00")
	require.NoError(t, err)
	assert.Zero(t, m)
}

func hhmm(minutes int) string {
	h, m := minutes/60, minutes%60
	return string([]byte{byte('0' + h/10), byte('0' + h%10), ':', byte('0' + m/10), byte('0' + m%10)})
}
