package service

import (
	"fmt"
	"math"
)

const (
	// assumedZoneSeconds is used when nothing better is known about a run.
	assumedZoneSeconds = 10 * 60
	// remainingOverestimate pads a bare remaining time into a plausible total.
	remainingOverestimate = 1.2
)

// Progress returns the completed share of a run as a whole percentage in
// [0, 100]. A non-positive total yields 0.
func Progress(elapsed, total int) int {
	if total <= 0 || elapsed <= 0 {
		return 0
	}
	pct := int(math.Floor(float64(elapsed) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatCountdown renders seconds as MM:SS; negative input renders "00:00".
func FormatCountdown(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}

// FormatShortCountdown renders seconds as M:SS.
func FormatShortCountdown(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%d:%02d", remaining/60, remaining%60)
}

// EstimateTotal guesses the full length of a run the panel did not start.
// The duration input wins when it can cover the remaining time, then the
// remaining time padded by 20%, then ten minutes.
func EstimateTotal(inputMinutes, remaining int) int {
	if inputMinutes > 0 && inputMinutes*60 >= remaining {
		return inputMinutes * 60
	}
	if remaining > 0 {
		return int(math.Round(float64(remaining) * remainingOverestimate))
	}
	return assumedZoneSeconds
}

// StepProgress is the progress of a program step given its planned minutes.
// Without a known step the ten minute assumption applies.
func StepProgress(stepMinutes, remaining int) int {
	total := assumedZoneSeconds
	if stepMinutes > 0 {
		total = stepMinutes * 60
	}
	return Progress(total-remaining, total)
}
