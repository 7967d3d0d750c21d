package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Durations are stored as colon-delimited HH:MM:SS strings. Hours are unbounded.

func splitDuration(text string) ([]string, bool) {
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return nil, false
	}
	return parts, true
}

func parseDurationComponent(part string) (int, bool) {
	value, err := strconv.Atoi(part)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// SecondsOf returns the total number of seconds in an HH:MM:SS string.
//
// Malformed input yields 0 rather than an error so a single corrupt record only degrades
// a sum over many records.
func SecondsOf(text string) int {
	seconds, ok := ParseDuration(text)
	if !ok {
		return 0
	}
	return seconds
}

// ParseDuration is SecondsOf with the failure made visible
func ParseDuration(text string) (int, bool) {
	parts, ok := splitDuration(text)
	if !ok {
		return 0, false
	}

	hours, ok := parseDurationComponent(parts[0])
	if !ok {
		return 0, false
	}
	minutes, ok := parseDurationComponent(parts[1])
	if !ok {
		return 0, false
	}
	seconds, ok := parseDurationComponent(parts[2])
	if !ok {
		return 0, false
	}

	return hours*3600 + minutes*60 + seconds, true
}

// MinutesRoundedUp returns the whole minutes in an HH:MM:SS string, adding one minute when
// the seconds component is greater than 1.
//
// NOTE: The threshold is > 1, not > 0. "00:10:01" is 10 minutes.
func MinutesRoundedUp(text string) int {
	parts, ok := splitDuration(text)
	if !ok {
		return 0
	}

	hours, _ := parseDurationComponent(parts[0])
	minutes, _ := parseDurationComponent(parts[1])
	seconds, _ := parseDurationComponent(parts[2])

	total := hours*60 + minutes
	if seconds > 1 {
		total++
	}
	return total
}

// EncodeDuration formats a number of seconds as a zero padded HH:MM:SS string
func EncodeDuration(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
