package probe

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/nathanhack/memprobe/internal/affinity"
	"github.com/nathanhack/memprobe/internal/hostinfo"
	"github.com/sirupsen/logrus"
)

// NoCPU disables pinning the driver to a processor.
const NoCPU = -1

// ErrAllocation is returned when the test buffer cannot be allocated.
var ErrAllocation = errors.New("unable to allocate test buffer")

// Driver owns the buffer of one profile and runs its cycles.
type Driver struct {
	Profile Profile
	// Iterations is the number of cycles to run, 0 runs until the context is cancelled.
	Iterations uint64
	// CPU is the processor to pin to, NoCPU leaves the thread unpinned.
	CPU  int
	Sink Sink

	Clock Clock
	Wait  func(d time.Duration)

	// Bind pins the calling thread, it defaults to binding through sched_setaffinity.
	Bind func(cpu int) (restore func() error, err error)
	// Allocate returns a buffer of n units, it defaults to checking available memory before allocating.
	Allocate func(n int) ([]byte, error)
}

// Run validates the profile, allocates the buffer and runs cycles until Iterations
// have completed or ctx is cancelled. It returns the number of cycles completed.
//
// Cancellation is checked between cycles only. A cancelled unbounded run returns a nil
// error; a cancelled bounded run returns ctx.Err().
func (d *Driver) Run(ctx context.Context) (cycles uint64, err error) {
	controller, err := NewController(d.Profile)
	if err != nil {
		return 0, fmt.Errorf("profile %v: %w", d.Profile.Name, err)
	}
	controller.Clock = d.Clock
	controller.Wait = d.Wait

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if d.CPU != NoCPU {
		restore := d.bind()
		defer restore()
	}

	buffer, err := d.allocate(d.Profile.Units())
	if err != nil {
		return 0, fmt.Errorf("profile %v: %w", d.Profile.Name, err)
	}
	logrus.Debugf("%v: allocated %v bytes", d.Profile.Name, len(buffer))
	defer func() {
		buffer = nil
		logrus.Debugf("%v: released buffer after %v cycles", d.Profile.Name, cycles)
	}()

	for d.Iterations == 0 || cycles < d.Iterations {
		select {
		case <-ctx.Done():
			if d.Iterations == 0 {
				return cycles, nil
			}
			return cycles, ctx.Err()
		default:
		}

		result, err := controller.Run(buffer, d.Sink)
		if err != nil {
			//delivery policy belongs to the sink, the cycle itself completed
			logrus.Warnf("%v: %v", d.Profile.Name, err)
		} else if result.Flips() > 0 {
			logrus.Debugf("%v", result)
		}
		cycles++
	}
	return cycles, nil
}

// bind pins the current thread to d.CPU. Failure is reported and the run continues unpinned.
func (d *Driver) bind() (restore func()) {
	bind := d.Bind
	if bind == nil {
		bind = affinity.Bind
	}

	release, err := bind(d.CPU)
	if err != nil {
		logrus.Warnf("%v: unable to pin to cpu %v, running unpinned: %v", d.Profile.Name, d.CPU, err)
		return func() {}
	}
	logrus.Debugf("%v: pinned to cpu %v", d.Profile.Name, d.CPU)

	return func() {
		if err := release(); err != nil {
			logrus.Warnf("%v: unable to restore cpu affinity: %v", d.Profile.Name, err)
		}
	}
}

func (d *Driver) allocate(n int) ([]byte, error) {
	if d.Allocate != nil {
		buffer, err := d.Allocate(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
		}
		if len(buffer) < n {
			return nil, fmt.Errorf("%w: expected %v units but found %v", ErrAllocation, n, len(buffer))
		}
		return buffer, nil
	}
	return Allocate(n)
}

// Allocate returns a buffer of n units. It fails when the host does not report
// enough available memory, or when the allocation itself panics.
func Allocate(n int) (buffer []byte, err error) {
	available, err := hostinfo.AvailableMemory()
	if err != nil {
		logrus.Debugf("unable to read available memory: %v", err)
	} else if uint64(n) > available {
		return nil, fmt.Errorf("%w: need %v bytes but only %v are available", ErrAllocation, n, available)
	}

	defer func() {
		if r := recover(); r != nil {
			buffer = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	return make([]byte, n), nil
}
