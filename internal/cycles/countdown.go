package cycles

import (
	"fmt"
	"time"
)

// TotalSeconds is the planned length of c in seconds.
func TotalSeconds(c Cycle) int {
	return c.MinutesAmount * 60
}

// SecondsSince returns whole seconds elapsed between the start of c and now.
// Clock skew that puts now before the start yields 0.
func SecondsSince(c Cycle, now time.Time) int {
	d := now.Sub(c.StartDate)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// Remaining clamps total-passed at zero.
func Remaining(total, passed int) int {
	if passed >= total {
		return 0
	}
	return total - passed
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
