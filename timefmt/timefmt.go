// Package timefmt renders playback positions for the control strip.
package timefmt

import (
	"fmt"
	"math"
)

// Placeholder is shown when a position is unknown.
const Placeholder = "--:--"

// Format renders sec as m:ss. Minutes are not capped, so an hour-long
// track reads 60:00. Non-finite or negative input yields Placeholder.
func Format(sec float64) string {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return Placeholder
	}

	total := int(math.Floor(sec))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Pair renders "current / duration" the way both presentations label the bar.
func Pair(current, duration float64) string {
	return Format(current) + " / " + Format(duration)
}
