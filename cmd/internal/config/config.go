// Package config loads probe run configuration from a JSON file that may carry
// comments and trailing commas.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nathanhack/memprobe/probe"
	"github.com/nathanhack/memprobe/traversal"
	"github.com/tailscale/hujson"
)

// Duration is a time.Duration written as a string such as "250ms" in config files.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"1s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// ProfileConfig configures one profile. Either Builtin names a built in profile
// (whose fields may be overridden), or Dimension describes a custom one.
type ProfileConfig struct {
	Name       string           `json:"name,omitempty"`
	Builtin    string           `json:"builtin,omitempty"`
	Dimension  int              `json:"dimension,omitempty"`
	Order      *traversal.Order `json:"order,omitempty"`
	Interval   *Duration        `json:"interval,omitempty"`
	Iterations *uint64          `json:"iterations,omitempty"`
	CPU        *int             `json:"cpu,omitempty"`
}

// File is the top level of a config file. Interval, Iterations and CPU are defaults
// for profiles that do not set their own.
type File struct {
	Interval   *Duration       `json:"interval,omitempty"`
	Iterations uint64          `json:"iterations,omitempty"`
	CPU        *int            `json:"cpu,omitempty"`
	Profiles   []ProfileConfig `json:"profiles"`
}

// Entry is a fully resolved and validated profile run.
type Entry struct {
	Profile    probe.Profile
	Iterations uint64
	CPU        int
}

// Load reads and parses the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %v: %w", path, err)
	}
	return Parse(data)
}

// Parse parses config file contents.
func Parse(data []byte) (*File, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config syntax: %w", err)
	}

	var f File
	err = json.Unmarshal(standardized, &f)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &f, nil
}

// Resolve turns the file into validated entries. No entry is returned unless all are valid.
func (f *File) Resolve() ([]Entry, error) {
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("config has no profiles")
	}

	interval := probe.DefaultInterval
	if f.Interval != nil {
		interval = time.Duration(*f.Interval)
	}
	cpu := probe.NoCPU
	if f.CPU != nil {
		cpu = *f.CPU
	}

	names := make(map[string]bool)
	entries := make([]Entry, 0, len(f.Profiles))
	for i, pc := range f.Profiles {
		e, err := pc.resolve(interval, f.Iterations, cpu)
		if err != nil {
			return nil, fmt.Errorf("profile %v: %w", i, err)
		}
		if names[e.Profile.Name] {
			return nil, fmt.Errorf("profile %v: duplicate name %q", i, e.Profile.Name)
		}
		names[e.Profile.Name] = true
		entries = append(entries, e)
	}
	return entries, nil
}

func (pc ProfileConfig) resolve(interval time.Duration, iterations uint64, cpu int) (Entry, error) {
	var p, builtin probe.Profile
	if pc.Builtin != "" {
		var has bool
		builtin, has = probe.LookupProfile(pc.Builtin, interval)
		if !has {
			return Entry{}, fmt.Errorf("unknown builtin profile %q", pc.Builtin)
		}
		p = builtin
		if pc.Dimension != 0 {
			p.Dimension = pc.Dimension
		}
	} else {
		p = probe.Profile{
			ID:        probe.CustomProfile,
			Name:      strings.TrimSpace(pc.Name),
			Dimension: pc.Dimension,
			Order:     traversal.ContiguousOrder,
			Interval:  interval,
		}
		if p.Name == "" {
			return Entry{}, fmt.Errorf("custom profiles require a name")
		}
	}

	if pc.Builtin != "" && pc.Name != "" {
		p.Name = pc.Name
	}
	if pc.Order != nil {
		p.Order = *pc.Order
	}
	if pc.Interval != nil {
		p.Interval = time.Duration(*pc.Interval)
	}
	//a built in id only describes its own dimension and order
	if pc.Builtin != "" && (p.Dimension != builtin.Dimension || p.Order != builtin.Order) {
		p.ID = probe.CustomProfile
	}
	if pc.Iterations != nil {
		iterations = *pc.Iterations
	}
	if pc.CPU != nil {
		cpu = *pc.CPU
	}
	if cpu < probe.NoCPU {
		return Entry{}, fmt.Errorf("cpu must be %v or a processor index found %v", probe.NoCPU, cpu)
	}

	if err := p.Validate(); err != nil {
		return Entry{}, err
	}
	return Entry{Profile: p, Iterations: iterations, CPU: cpu}, nil
}
