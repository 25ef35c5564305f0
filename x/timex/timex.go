// Package timex holds small time helpers shared by services.
package timex

import "time"

// NowMs returns the current wall clock in milliseconds. On microcontrollers
// without RTC sync this is milliseconds since boot, which is fine for
// staleness comparisons.
func NowMs() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}
