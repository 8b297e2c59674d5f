//go:build linux

package affinity

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// cpuSetSize is the number of processors a unix.CPUSet can describe.
const cpuSetSize = int(unsafe.Sizeof(unix.CPUSet{})) * 8

// Bind pins the calling thread to cpu. The returned restore func reinstates the previous mask.
func Bind(cpu int) (restore func() error, err error) {
	if cpu < 0 || cpu >= cpuSetSize {
		return nil, fmt.Errorf("cpu %v out of range [0,%v)", cpu, cpuSetSize)
	}

	var previous unix.CPUSet
	if err := unix.SchedGetaffinity(0, &previous); err != nil {
		return nil, fmt.Errorf("reading affinity: %w", err)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("setting affinity to cpu %v: %w", cpu, err)
	}

	return func() error {
		return unix.SchedSetaffinity(0, &previous)
	}, nil
}

// Current returns the processors the calling thread may run on.
func Current() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	cpus := make([]int, 0, set.Count())
	for i := 0; i < cpuSetSize; i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
