// Package hostinfo reads the host facts that matter when sizing test buffers.
package hostinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Host is a snapshot of the processor and memory of the machine.
type Host struct {
	ModelName       string
	PhysicalCores   int
	LogicalCores    int
	CacheSizeKB     int32 // as reported by the first processor, 0 if unknown
	TotalMemory     uint64
	AvailableMemory uint64
}

// AvailableMemory returns the bytes of memory available for new allocations.
func AvailableMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// Read collects a Host snapshot.
func Read() (Host, error) {
	var h Host

	infos, err := cpu.Info()
	if err != nil {
		return h, fmt.Errorf("reading cpu info: %w", err)
	}
	if len(infos) > 0 {
		h.ModelName = infos[0].ModelName
		h.CacheSizeKB = infos[0].CacheSize
	}

	h.PhysicalCores, err = cpu.Counts(false)
	if err != nil {
		return h, fmt.Errorf("reading physical core count: %w", err)
	}
	h.LogicalCores, err = cpu.Counts(true)
	if err != nil {
		return h, fmt.Errorf("reading logical core count: %w", err)
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return h, fmt.Errorf("reading memory info: %w", err)
	}
	h.TotalMemory = vm.Total
	h.AvailableMemory = vm.Available
	return h, nil
}
