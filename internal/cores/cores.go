/*
Package cores answers how many logical CPUs the process can schedule onto.

The count is resolved once and cached for the life of the process.  Wait
primitives consult it on every step, so the read must be no more than a
cached load; querying the platform each time would defeat the point of a
cheap spin.
*/
package cores

import (
	"runtime"
	"sync"

	"github.com/golang/glog"
	"github.com/shirou/gopsutil/cpu"
)

var (
	once  sync.Once
	count int
)

// Logical returns the number of logical CPUs visible to the process.  The
// value is detected on the first call and cached. It is always >= 1.
func Logical() int {
	once.Do(func() {
		count = detect()
	})
	return count
}

func detect() int {
	n, err := cpu.Counts(true)
	if err != nil {
		glog.Warningf("cores: logical CPU detection failed (%s), falling back to runtime.NumCPU()", err)
		n = runtime.NumCPU()
	}
	if n < 1 {
		return 1
	}
	return n
}
