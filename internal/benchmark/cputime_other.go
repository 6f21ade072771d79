//go:build !unix

package benchmark

import "time"

// cpuTimes is unsupported here; samples carry wall time only.
func cpuTimes() (user, system time.Duration) {
	return 0, 0
}
