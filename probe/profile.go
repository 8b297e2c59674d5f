package probe

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/nathanhack/memprobe/traversal"
)

// ProfileID identifies which test profile produced a Result.
type ProfileID int

const (
	// CustomProfile tags results of profiles that are not built in.
	CustomProfile ProfileID = iota
	// MemL1CacheEff is a contiguous scan of a block that fits in L1.
	MemL1CacheEff
	// MemL2CacheEff is a contiguous scan of a block that fits in L2.
	MemL2CacheEff
	// MemCacheIneff is a strided scan of a block larger than L2.
	MemCacheIneff
)

var profileIDNames = map[ProfileID]string{
	CustomProfile: "custom",
	MemL1CacheEff: "mem-l1-cache-eff",
	MemL2CacheEff: "mem-l2-cache-eff",
	MemCacheIneff: "mem-cache-ineff",
}

func (id ProfileID) String() string {
	if name, has := profileIDNames[id]; has {
		return name
	}
	return fmt.Sprintf("ProfileID(%d)", int(id))
}

func (id ProfileID) MarshalText() ([]byte, error) {
	if _, has := profileIDNames[id]; !has {
		return nil, fmt.Errorf("unknown profile id %d", int(id))
	}
	return []byte(id.String()), nil
}

func (id *ProfileID) UnmarshalText(text []byte) error {
	for k, name := range profileIDNames {
		if name == string(text) {
			*id = k
			return nil
		}
	}
	return fmt.Errorf("unknown profile id %q", string(text))
}

// DefaultInterval is the disturb interval used when none is given.
const DefaultInterval = time.Second

// ErrInvalidDimension is returned for dimensions that cannot describe a buffer.
var ErrInvalidDimension = errors.New("invalid dimension")

// Profile describes one memory test: the square buffer dimension,
// how it is traversed and how long to wait between writing and rereading it.
type Profile struct {
	ID        ProfileID
	Name      string
	Dimension int
	Order     traversal.Order
	Interval  time.Duration
}

// Units is the number of storage units in the profile's buffer.
func (p Profile) Units() int {
	return p.Dimension * p.Dimension
}

func (p Profile) String() string {
	return fmt.Sprintf("%v(dim=%v, %v, %v)", p.Name, p.Dimension, p.Order, p.Interval)
}

// Validate checks the profile can be run. It must succeed before any buffer is allocated.
func (p Profile) Validate() error {
	if p.Dimension <= 0 {
		return fmt.Errorf("%w: %v must be greater than 0", ErrInvalidDimension, p.Dimension)
	}
	if p.Dimension > math.MaxInt/p.Dimension {
		return fmt.Errorf("%w: %v squared overflows", ErrInvalidDimension, p.Dimension)
	}
	if p.Interval < 0 {
		return fmt.Errorf("interval must not be negative found %v", p.Interval)
	}
	if _, err := traversal.New(p.Order); err != nil {
		return err
	}
	return nil
}

// BuiltinProfiles returns the built in profiles using interval as their disturb interval.
// The dimensions are sized against a 16 KiB L1 and a 2 MiB L2 cache.
func BuiltinProfiles(interval time.Duration) []Profile {
	return []Profile{
		{
			ID:        MemL1CacheEff,
			Name:      MemL1CacheEff.String(),
			Dimension: 96, // 9 KiB
			Order:     traversal.ContiguousOrder,
			Interval:  interval,
		},
		{
			ID:        MemL2CacheEff,
			Name:      MemL2CacheEff.String(),
			Dimension: 1024, // 1 MiB
			Order:     traversal.ContiguousOrder,
			Interval:  interval,
		},
		{
			ID:        MemCacheIneff,
			Name:      MemCacheIneff.String(),
			Dimension: 2048, // 4 MiB
			Order:     traversal.StridedOrder,
			Interval:  interval,
		},
	}
}

// LookupProfile finds a built in profile by name.
func LookupProfile(name string, interval time.Duration) (Profile, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range BuiltinProfiles(interval) {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
