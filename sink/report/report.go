// Package report aggregates cycle results per profile and persists them as JSON.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/natefinch/atomic"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/memprobe/probe"
	"github.com/nathanhack/memprobe/traversal"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// MaxSamples bounds the elapsed time samples kept per profile.
const MaxSamples = 10_000

// Stats is the running record of one profile.
type Stats struct {
	ProfileID      probe.ProfileID
	Order          traversal.Order
	Dimension      int
	Cycles         int
	ZeroToOneFlips uint64
	OneToZeroFlips uint64
	FlipsPerCycle  avgstd.AvgStd
	ElapsedMillis  avgstd.AvgStd
	Samples        []float64 // most recent elapsed times in ms
	First          time.Time
	Last           time.Time
}

func (s Stats) String() string {
	return fmt.Sprintf("{Cycles:%v, 0To1:%v, 1To0:%v, Flips/Cycle:%0.02f(+/-%0.02f), Elapsed:%0.02fms(+/-%0.02f)}",
		s.Cycles, s.ZeroToOneFlips, s.OneToZeroFlips,
		s.FlipsPerCycle.Mean, math.Sqrt(s.FlipsPerCycle.SampledVariance()),
		s.ElapsedMillis.Mean, math.Sqrt(s.ElapsedMillis.SampledVariance()),
	)
}

// Quantile returns the p quantile of the kept elapsed samples, NaN when there are none.
func (s Stats) Quantile(p float64) float64 {
	if len(s.Samples) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// BitsScanned is the number of bits checked for flips so far, two verify passes per cycle.
func (s Stats) BitsScanned() uint64 {
	return uint64(s.Cycles) * uint64(s.Dimension) * uint64(s.Dimension) * 8 * 2
}

// Report holds the Stats of every profile seen, keyed by profile name.
type Report struct {
	Created  time.Time
	Profiles map[string]*Stats
}

// New creates an empty report.
func New() *Report {
	return &Report{
		Created:  time.Now().Round(0),
		Profiles: make(map[string]*Stats),
	}
}

// Add folds result into the stats of its profile.
func (r *Report) Add(result probe.Result) {
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Stats)
	}
	s, has := r.Profiles[result.Profile]
	if !has {
		s = &Stats{
			ProfileID: result.ProfileID,
			Order:     result.Order,
			Dimension: result.Dimension,
			First:     result.Timestamp,
		}
		r.Profiles[result.Profile] = s
	}

	s.Cycles++
	s.ZeroToOneFlips += result.ZeroToOneFlips
	s.OneToZeroFlips += result.OneToZeroFlips
	s.FlipsPerCycle.Update(float64(result.Flips()))
	s.ElapsedMillis.Update(result.Millis())
	s.Samples = append(s.Samples, result.Millis())
	if len(s.Samples) > MaxSamples {
		s.Samples = s.Samples[len(s.Samples)-MaxSamples:]
	}
	s.Last = result.Timestamp
}

// Names returns the profile names in sorted order.
func (r *Report) Names() []string {
	names := make([]string, 0, len(r.Profiles))
	for n := range r.Profiles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Clone returns a deep copy of r.
func (r *Report) Clone() *Report {
	c := &Report{
		Created:  r.Created,
		Profiles: make(map[string]*Stats, len(r.Profiles)),
	}
	for n, s := range r.Profiles {
		cp := *s
		cp.Samples = slices.Clone(s.Samples)
		c.Profiles[n] = &cp
	}
	return c
}

// Load reads a report from path. It returns nil, nil when path does not exist.
func Load(path string) (*Report, error) {
	bs, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", path, err)
	}

	var r Report
	err = json.Unmarshal(bs, &r)
	if err != nil {
		return nil, fmt.Errorf("error while unmarshalling file %v: %w", path, err)
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Stats)
	}
	return &r, nil
}

// Save writes r to path atomically, readers never see a partial report.
func Save(path string, r *Report) error {
	bs, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing report: %w", err)
	}

	err = atomic.WriteFile(path, bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("error while saving report to %v: %w", path, err)
	}
	return nil
}
