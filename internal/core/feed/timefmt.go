package feed

import (
	"fmt"
	"time"
)

// FormatTime renders a timestamp relative to now: "just now" under a
// minute, minutes under an hour, hours under a day, and an absolute
// calendar date beyond that. Pure in (ts, now); callers recompute it on
// every render rather than caching the result.
func FormatTime(ts, now time.Time) string {
	diff := now.Sub(ts)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return ts.Format("1/2/2006")
	}
}
