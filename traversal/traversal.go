// Package traversal holds the scan strategies used to clear, verify and flip a square test buffer.
//
// Every strategy visits all dim*dim units of the buffer exactly once per operation; strategies
// differ only in the order the offsets are visited. The buffer length is trusted to be dim*dim.
package traversal

import (
	"fmt"
	"strings"
)

// Order selects how the linear offsets of a buffer are visited.
type Order int

const (
	// ContiguousOrder visits offsets 0..dim*dim-1 in row-major order.
	ContiguousOrder Order = iota
	// StridedOrder visits offsets column by column, stepping dim units at a time.
	StridedOrder
)

var orderNames = map[Order]string{
	ContiguousOrder: "contiguous",
	StridedOrder:    "strided",
}

func (o Order) String() string {
	if name, has := orderNames[o]; has {
		return name
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder returns the Order for its name.
func ParseOrder(name string) (Order, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for o, n := range orderNames {
		if n == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown traversal order %q (expected contiguous or strided)", name)
}

// Set parses name into o, so Order can be used as a command line flag.
func (o *Order) Set(name string) error {
	parsed, err := ParseOrder(name)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Type names the flag value type.
func (o *Order) Type() string {
	return "order"
}

func (o Order) MarshalText() ([]byte, error) {
	if _, has := orderNames[o]; !has {
		return nil, fmt.Errorf("unknown traversal order %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(text []byte) error {
	return o.Set(string(text))
}

// Strategy is a traversal of a dim x dim buffer.
type Strategy interface {
	// Order reports which visiting order the strategy uses.
	Order() Order

	// Clear writes zero to every unit.
	Clear(buffer []byte, dim int)

	// CheckZerosAndFlip counts the bits found set in units expected to be zero,
	// then writes the all ones pattern to every unit.
	CheckZerosAndFlip(buffer []byte, dim int) (zeroToOneFlips uint64)

	// CheckOnesAndFlip counts the bits found clear in units expected to be all ones,
	// then writes zero to every unit.
	CheckOnesAndFlip(buffer []byte, dim int) (oneToZeroFlips uint64)
}

// New returns the Strategy for order.
func New(order Order) (Strategy, error) {
	switch order {
	case ContiguousOrder:
		return Contiguous{}, nil
	case StridedOrder:
		return Strided{}, nil
	}
	return nil, fmt.Errorf("unknown traversal order %d", int(order))
}
