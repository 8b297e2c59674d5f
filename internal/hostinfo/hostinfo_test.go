package hostinfo

import "testing"

func TestRead(t *testing.T) {
	h, err := Read()
	if err != nil {
		t.Skipf("host facts unavailable: %v", err)
	}
	if h.LogicalCores < 1 {
		t.Fatalf("expected at least one logical core found %v", h.LogicalCores)
	}
	if h.TotalMemory == 0 || h.AvailableMemory > h.TotalMemory {
		t.Fatalf("expected 0 < available <= total found %v/%v", h.AvailableMemory, h.TotalMemory)
	}
}

func TestAvailableMemory(t *testing.T) {
	available, err := AvailableMemory()
	if err != nil {
		t.Skipf("memory facts unavailable: %v", err)
	}
	if available == 0 {
		t.Fatalf("expected some available memory")
	}
}
