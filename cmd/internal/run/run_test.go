package run

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nathanhack/memprobe/cmd/internal/config"
	"github.com/nathanhack/memprobe/probe"
	"github.com/nathanhack/memprobe/sink"
	"github.com/nathanhack/memprobe/sink/report"
	"github.com/nathanhack/memprobe/traversal"
	"github.com/stretchr/testify/require"
)

func reset() {
	Interval = 0
	Iterations = 2
	CPU = probe.NoCPU
	ConfigFile = ""
	OutputFile = ""
	QueueSize = 0
	Progress = false
	Quiet = true
	Name = "custom"
	Dimension = 0
	Order = traversal.ContiguousOrder
}

func TestEntriesBuiltin(t *testing.T) {
	reset()

	entries, err := Entries(nil, false)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	entries, err = Entries([]string{"mem-cache-ineff"}, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, probe.MemCacheIneff, entries[0].Profile.ID)
	require.Equal(t, traversal.StridedOrder, entries[0].Profile.Order)
	require.Equal(t, uint64(2), entries[0].Iterations)

	_, err = Entries([]string{"mem-l9"}, false)
	require.Error(t, err)
}

func TestEntriesCustom(t *testing.T) {
	reset()
	Dimension = 0
	_, err := Entries(nil, true)
	require.ErrorIs(t, err, probe.ErrInvalidDimension)

	Dimension = 1
	Order = traversal.StridedOrder
	entries, err := Entries(nil, true)
	require.NoError(t, err)
	require.Equal(t, probe.CustomProfile, entries[0].Profile.ID)
	require.Equal(t, 1, entries[0].Profile.Dimension)

	_, err = Entries([]string{"mem-l1-cache-eff"}, true)
	require.Error(t, err)

	CPU = -2
	_, err = Entries(nil, true)
	require.Error(t, err)
}

func TestEntriesConfig(t *testing.T) {
	reset()
	ConfigFile = filepath.Join(t.TempDir(), "probe.jsonc")
	require.NoError(t, os.WriteFile(ConfigFile, []byte(`{"profiles": [{"name": "x", "dimension": 3}]}`), 0644))

	entries, err := Entries(nil, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "x", entries[0].Profile.Name)

	_, err = Entries([]string{"mem-l1-cache-eff"}, false)
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	reset()
	path := filepath.Join(t.TempDir(), "report.json")
	recorder := sink.NewRecorder(nil, path, 1)

	entries := []config.Entry{
		{Profile: probe.Profile{Name: "a", Dimension: 4}, Iterations: 3, CPU: probe.NoCPU},
		{Profile: probe.Profile{Name: "b", Dimension: 3, Order: traversal.StridedOrder}, Iterations: 2, CPU: probe.NoCPU},
	}
	require.NoError(t, Run(context.Background(), entries, recorder))
	require.NoError(t, recorder.Flush())

	rep, err := report.Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, rep.Profiles["a"].Cycles)
	require.Equal(t, 2, rep.Profiles["b"].Cycles)
	require.Equal(t, uint64(0), rep.Profiles["a"].ZeroToOneFlips+rep.Profiles["a"].OneToZeroFlips)
}

func TestRunUnboundedStopsOnCancel(t *testing.T) {
	reset()
	recorder := sink.NewRecorder(nil, "", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	entries := []config.Entry{
		{Profile: probe.Profile{Name: "u", Dimension: 2, Interval: time.Millisecond}, Iterations: 0, CPU: probe.NoCPU},
	}
	require.NoError(t, Run(ctx, entries, recorder))
	require.Greater(t, recorder.Report().Profiles["u"].Cycles, 0)
}
