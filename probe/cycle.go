package probe

import (
	"fmt"
	"time"

	"github.com/nathanhack/memprobe/traversal"
)

// Controller runs test cycles over a caller owned buffer.
//
// A cycle is: clear, wait, check zeros and set ones, wait, check ones and set zeros, wait.
// The elapsed time covers all three passes and all three waits but not the emission
// of the result.
type Controller struct {
	Profile  Profile
	Strategy traversal.Strategy

	// Clock defaults to SystemClock.
	Clock Clock
	// Wait blocks for the disturb interval, it defaults to time.Sleep.
	Wait func(d time.Duration)

	cycles uint64
}

// NewController creates a Controller for a validated profile.
func NewController(profile Profile) (*Controller, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	strategy, err := traversal.New(profile.Order)
	if err != nil {
		return nil, err
	}
	return &Controller{
		Profile:  profile,
		Strategy: strategy,
	}, nil
}

// Cycles is the number of cycles run so far.
func (c *Controller) Cycles() uint64 {
	return c.cycles
}

// Run performs one cycle on buffer and emits the result to sink.
// The buffer must hold Profile.Dimension squared units.
func (c *Controller) Run(buffer []byte, sink Sink) (Result, error) {
	clock := c.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	wait := c.Wait
	if wait == nil {
		wait = time.Sleep
	}
	dim := c.Profile.Dimension
	interval := c.Profile.Interval

	var zeroToOne, oneToZero uint64

	t0 := clock.Now()

	c.Strategy.Clear(buffer, dim)
	wait(interval)

	zeroToOne += c.Strategy.CheckZerosAndFlip(buffer, dim)
	wait(interval)

	oneToZero += c.Strategy.CheckOnesAndFlip(buffer, dim)
	wait(interval)

	t1 := clock.Now()

	result := Result{
		ProfileID:      c.Profile.ID,
		Profile:        c.Profile.Name,
		Order:          c.Strategy.Order(),
		Dimension:      dim,
		Cycle:          c.cycles,
		ZeroToOneFlips: zeroToOne,
		OneToZeroFlips: oneToZero,
		Elapsed:        t1.Sub(t0),
		Timestamp:      clock.EpochNow(),
	}
	c.cycles++

	if sink == nil {
		return result, nil
	}
	if err := sink.Enqueue(result); err != nil {
		return result, fmt.Errorf("unable to deliver result of cycle %v: %w", result.Cycle, err)
	}
	return result, nil
}
