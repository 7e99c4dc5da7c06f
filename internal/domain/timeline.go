package domain

import (
	"fmt"
	"strings"
	"time"
)

// TargetTimes steps from start to end at the given interval, inclusive of
// the end time when the stepping lands on it exactly. A 24-hour window at a
// 60-minute interval yields 25 targets.
func TargetTimes(start, end time.Time, interval time.Duration) ([]time.Time, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("frame interval must be positive, got %s", interval)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("frame window end %s precedes start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	var targets []time.Time
	for t := start; !t.After(end); t = t.Add(interval) {
		targets = append(targets, t)
	}
	return targets, nil
}

// SceneCaption formats the per-frame timestamp overlay in GOES broadcast
// style, using the resolved acquisition time rather than the requested
// target, e.g.
//
//	GOES-19  BAND=2 (0.64 UM) (VIS)  01-DEC-2025 (2025335)  12:01 UTC
func SceneCaption(satellite int, actual time.Time) string {
	actual = actual.UTC()
	yearDay := fmt.Sprintf("%d%03d", actual.Year(), actual.YearDay())
	date := strings.ToUpper(actual.Format("02-Jan-2006"))
	return fmt.Sprintf("GOES-%d  BAND=2 (0.64 UM) (VIS)  %s (%s)  %s",
		satellite, date, yearDay, actual.Format("15:04 UTC"))
}
