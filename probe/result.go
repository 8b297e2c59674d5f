package probe

import (
	"fmt"
	"time"

	"github.com/nathanhack/memprobe/traversal"
)

// Result is the outcome of one cycle. It is a value and is never modified once emitted.
type Result struct {
	ProfileID      ProfileID
	Profile        string
	Order          traversal.Order
	Dimension      int
	Cycle          uint64
	ZeroToOneFlips uint64
	OneToZeroFlips uint64
	Elapsed        time.Duration
	Timestamp      time.Time
}

// Flips is the total number of flipped bits seen during the cycle.
func (r Result) Flips() uint64 {
	return r.ZeroToOneFlips + r.OneToZeroFlips
}

// Millis is the elapsed time of the cycle in milliseconds.
func (r Result) Millis() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// Summary is the short text form of the flip counts.
func (r Result) Summary() string {
	return fmt.Sprintf("0To1 = %d, 1To0 = %d", r.ZeroToOneFlips, r.OneToZeroFlips)
}

func (r Result) String() string {
	return fmt.Sprintf("%v[%v] %v in %.03fms", r.Profile, r.Cycle, r.Summary(), r.Millis())
}

// Sink receives results. Implementations must be safe for concurrent use
// and must not block indefinitely.
type Sink interface {
	Enqueue(result Result) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(result Result) error

func (f SinkFunc) Enqueue(result Result) error {
	return f(result)
}

// Clock is the time source used for timing cycles.
type Clock interface {
	// Now returns a high resolution instant for measuring elapsed time.
	Now() time.Time
	// EpochNow returns the wall clock time used to timestamp results.
	EpochNow() time.Time
}

// SystemClock reads the time package clocks.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) EpochNow() time.Time {
	//strip the monotonic reading, this is a wall clock timestamp
	return time.Now().Round(0)
}
