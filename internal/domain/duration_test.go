package domain_test

import (
	"fmt"
	"testing"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestSecondsOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		expected int
	}{
		{text: "00:00:00", expected: 0},
		{text: "00:00:45", expected: 45},
		{text: "00:01:00", expected: 60},
		{text: "01:00:00", expected: 3600},
		{text: "01:02:03", expected: 3723},
		{text: "123:00:01", expected: 123*3600 + 1},
		{text: "0:0:7", expected: 7},
		// Malformed input is absorbed as zero
		{text: "", expected: 0},
		{text: "00:45", expected: 0},
		{text: "00:00:00:01", expected: 0},
		{text: "aa:00:01", expected: 0},
		{text: "00:-1:00", expected: 0},
		{text: "00: 01:00", expected: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.text), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, domain.SecondsOf(tt.text))
		})
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()

	seconds, ok := domain.ParseDuration("00:02:05")
	require.True(t, ok)
	require.Equal(t, 125, seconds)

	_, ok = domain.ParseDuration("2 minutes")
	require.False(t, ok)
}

func TestMinutesRoundedUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text     string
		expected int
	}{
		{text: "00:10:00", expected: 10},
		// A single second does not round up
		{text: "00:10:01", expected: 10},
		{text: "00:10:02", expected: 11},
		{text: "00:10:59", expected: 11},
		{text: "02:30:00", expected: 150},
		{text: "00:00:00", expected: 0},
		{text: "invalid", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, domain.MinutesRoundedUp(tt.text))
		})
	}
}

func TestEncodeDuration(t *testing.T) {
	t.Parallel()

	require.Equal(t, "00:00:00", domain.EncodeDuration(0))
	require.Equal(t, "00:00:45", domain.EncodeDuration(45))
	require.Equal(t, "01:02:03", domain.EncodeDuration(3723))
	require.Equal(t, "25:00:00", domain.EncodeDuration(25*3600))
	require.Equal(t, "100:00:01", domain.EncodeDuration(100*3600+1))
	require.Equal(t, "00:00:00", domain.EncodeDuration(-5))
}

func TestDurationRoundTrip(t *testing.T) {
	t.Parallel()

	for seconds := 0; seconds < 4*3600; seconds += 37 {
		require.Equal(t, seconds, domain.SecondsOf(domain.EncodeDuration(seconds)))
	}

	for _, seconds := range []int{59, 60, 61, 3599, 3600, 86399, 86400, 359999, 360000, 1 << 30} {
		require.Equal(t, seconds, domain.SecondsOf(domain.EncodeDuration(seconds)))
	}
}
