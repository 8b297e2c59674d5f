//go:build linux

package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBindAndRestore(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	before, err := Current()
	require.NoError(t, err)
	require.NotEmpty(t, before)

	restore, err := Bind(before[0])
	require.NoError(t, err)

	pinned, err := Current()
	require.NoError(t, err)
	require.Equal(t, []int{before[0]}, pinned)

	require.NoError(t, restore())
	after, err := Current()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestBindOutOfRange(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for _, cpu := range []int{-1, cpuSetSize, cpuSetSize + 1} {
		_, err := Bind(cpu)
		require.Error(t, err)
	}
}

func TestCPUSetSize(t *testing.T) {
	require.Equal(t, 1024, cpuSetSize)

	cpus, err := Current()
	require.NoError(t, err)
	for _, cpu := range cpus {
		require.Less(t, cpu, cpuSetSize)
	}
}
